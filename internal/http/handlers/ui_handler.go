package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-web/internal/modal"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
)

// UIHandler состояние модальных окон. Скрипт страницы сообщает о показе и
// закрытии, без скрипта те же адреса работают как обычные формы.
type UIHandler struct{}

// NewUIHandler создаёт хэндлер.
func NewUIHandler() *UIHandler {
	return &UIHandler{}
}

// ShowModal обрабатывает POST /ui/modals/:name/show.
func (h *UIHandler) ShowModal(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	name := c.Param("name")
	if !modal.Known(name) {
		_ = c.Error(apperror.ErrUnknownModal)
		return
	}
	// одно окно за раз
	ws.Modals.CloseAll()
	_ = ws.Modals.Show(name)
	if name == modal.ProfileEdit {
		ws.Forms.ClearBanner(dto.FormProfile)
		prefillProfile(c.Request.Context(), ws)
	}

	common.Done(c)
}

// CloseModal обрабатывает POST /ui/modals/:name/close.
func (h *UIHandler) CloseModal(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	if err := ws.Modals.Close(c.Param("name")); err != nil {
		_ = c.Error(err)
		return
	}
	common.Done(c)
}

// Backdrop обрабатывает POST /ui/modals/:name/backdrop: клик мимо окна.
func (h *UIHandler) Backdrop(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	if err := ws.Modals.BackdropClick(c.Param("name")); err != nil {
		_ = c.Error(err)
		return
	}
	common.Done(c)
}

// CloseAll обрабатывает POST /ui/modals/close-all.
func (h *UIHandler) CloseAll(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	ws.Modals.CloseAll()
	common.Done(c)
}

// Key обрабатывает POST /ui/keys/:key. Значим только Escape.
func (h *UIHandler) Key(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	ws.Modals.Key(c.Param("key"))
	common.Done(c)
}

// Apply обрабатывает POST /ui/apply/:id: кнопка на карточке вакансии.
func (h *UIHandler) Apply(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ws.Forms.OpenApply(id)
	common.Done(c)
}
