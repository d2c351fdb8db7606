package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"

	"github.com/ignatzorin/freelance-web/internal/api"
	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-web/internal/models"
	"github.com/ignatzorin/freelance-web/internal/view"
	"github.com/ignatzorin/freelance-web/internal/workspace"
)

// currentWorkspace извлекает пространство; при ошибке оставляет её для ErrorHandler.
func currentWorkspace(c *gin.Context) (*workspace.Workspace, bool) {
	ws, err := common.CurrentWorkspace(c)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return ws, true
}

// afterForm адрес возврата после отправки формы. На дашборд возвращаемся к уже
// обновлённому состоянию, без повторной загрузки секции.
func afterForm(c *gin.Context) string {
	back := common.Back(c, "/")
	if strings.HasPrefix(back, "/dashboard/") {
		return "/dashboard/?view=current"
	}
	return back
}

// categories справочник для фильтра и формы вакансии. Ошибка даёт пустой список.
func categories(ctx context.Context, ws *workspace.Workspace) []models.Category {
	list, err := ws.Client.Categories(ctx)
	if err != nil {
		ws.Log.WithError(err).Warn("handlers: категории не загрузились")
		return nil
	}
	return list
}

// prefillProfile заполняет форму профиля, если её нет ошибки от последней отправки.
func prefillProfile(ctx context.Context, ws *workspace.Workspace) {
	if !ws.Session.Authenticated() {
		return
	}
	if _, failed := ws.Forms.Banners()[dto.FormProfile]; failed {
		return
	}
	if err := ws.Forms.PrefillProfile(ctx); err != nil {
		ws.Log.WithError(err).Debug("handlers: профиль для формы не загрузился")
	}
}

// jobsFragment содержимое контейнера вакансий: поиск, если задан фильтр, иначе весь список.
func jobsFragment(ctx context.Context, ws *workspace.Workspace, search dto.SearchForm) *html.Node {
	var (
		jobs     []models.Job
		err      error
		failText = view.TextJobsFailed
	)
	if search == (dto.SearchForm{}) {
		jobs, err = ws.Client.Jobs(ctx, api.JobsQuery{})
	} else {
		failText = view.TextSearchFailed
		jobs, err = ws.Client.SearchJobs(ctx, search)
	}
	if err != nil {
		ws.Log.WithError(err).Warn("handlers: вакансии не загрузились")
		return view.Loading(failText)
	}
	if len(jobs) == 0 {
		return view.Loading(view.TextNoJobsFound)
	}
	return view.JobsGrid(jobs, ws.Session.Identity())
}

// freelancersFragment блок лучших исполнителей публичной страницы.
func freelancersFragment(ctx context.Context, ws *workspace.Workspace) *html.Node {
	list, err := ws.Client.FreelancerProfiles(ctx)
	if err != nil {
		ws.Log.WithError(err).Warn("handlers: исполнители не загрузились")
		return view.Loading(view.TextFreelancersError)
	}
	if len(list) == 0 {
		return view.Loading(view.TextNoFreelancers)
	}
	return view.FreelancersGrid(list, view.HomeFreelancers)
}
