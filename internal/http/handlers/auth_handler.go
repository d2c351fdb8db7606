package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-web/internal/workspace"
)

// AuthHandler вход, регистрация и выход.
type AuthHandler struct {
	store *workspace.Store
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(store *workspace.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	submitted(c, ws.Forms.Login(c.Request.Context(), form))
}

// Register обрабатывает POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	submitted(c, ws.Forms.Register(c.Request.Context(), form))
}

// Logout обрабатывает POST /auth/logout. Сессия на бэкенде закрывается, а
// пространство заменяется пустым под той же cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	ws.Session.Logout(c.Request.Context())
	if _, err := h.store.Reset(ws.ID); err != nil {
		_ = c.Error(err)
		return
	}

	common.SeeOther(c, "/")
}

// submitted завершает отправку формы. Ошибки формы уже лежат в баннере или
// уведомлении, поэтому возвращаемся на страницу. Повторная отправка получает 409.
func submitted(c *gin.Context, err error) {
	if apperror.IsBusy(err) {
		_ = c.Error(err)
		return
	}
	common.SeeOther(c, afterForm(c))
}
