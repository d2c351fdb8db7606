package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-web/internal/dashboard"
	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-web/internal/models"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-web/internal/view"
	"github.com/ignatzorin/freelance-web/internal/workspace"
)

// PageHandler отдаёт страницы и фрагменты секций кабинета.
type PageHandler struct{}

// NewPageHandler создаёт хэндлер.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home обрабатывает GET /.
func (h *PageHandler) Home(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	ws.Session.Refresh(ctx)

	var search dto.SearchForm
	if err := c.ShouldBindQuery(&search); err != nil {
		search = dto.SearchForm{}
	}

	cats := categories(ctx, ws)
	jobs := jobsFragment(ctx, ws, search)
	freelancers := freelancersFragment(ctx, ws)
	prefillProfile(ctx, ws)

	common.RespondHTML(c, http.StatusOK, view.HomePage(view.HomeData{
		Chrome:      ws.Chrome(cats),
		Search:      search,
		Jobs:        jobs,
		Freelancers: freelancers,
	}))
}

// Dashboard обрабатывает GET /dashboard/.
// ?section= открывает секцию (q фильтрует), ?view=current показывает текущее состояние.
func (h *PageHandler) Dashboard(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	ws.Session.Refresh(ctx)

	if !ws.Session.Authenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var state dashboard.State
	if c.Query("view") == "current" && ws.Dashboard.Section() != "" {
		state = ws.Dashboard.State()
	} else {
		section := c.DefaultQuery("section", dashboard.SectionOverview)
		var err error
		state, err = ws.Dashboard.Navigate(ctx, section, c.Query("q"))
		if apperror.IsStale(err) {
			state = ws.Dashboard.State()
		}
	}

	// категории нужны только форме вакансии заказчика
	var cats []models.Category
	if ws.Session.Identity().IsRecruiter() {
		cats = categories(ctx, ws)
	}
	prefillProfile(ctx, ws)

	common.RespondHTML(c, http.StatusOK, view.DashboardPage(dashboardData(ws, state, cats)))
}

// Section обрабатывает GET /dashboard/sections/:name. Отдаёт фрагмент #dashboard-body;
// если пока грузилось, пользователь ушёл в другую секцию, отвечает 204.
func (h *PageHandler) Section(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	if !ws.Session.Authenticated() {
		_ = c.Error(apperror.ErrUnauthenticated)
		return
	}

	state, err := ws.Dashboard.Navigate(c.Request.Context(), c.Param("name"), c.Query("q"))
	if apperror.IsStale(err) {
		c.Status(http.StatusNoContent)
		return
	}

	common.RespondHTML(c, http.StatusOK, view.DashboardBody(dashboardData(ws, state, nil)))
}

func dashboardData(ws *workspace.Workspace, state dashboard.State, cats []models.Category) view.DashboardData {
	return view.DashboardData{
		Chrome:  ws.Chrome(cats),
		Section: state.Section,
		Title:   state.Title,
		Menu:    state.Menu,
		Actions: state.Actions,
		Content: state.Content,
	}
}
