package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-web/internal/http/handlers/common"
)

// ApplicationHandler действия над строкой отклика в кабинете.
type ApplicationHandler struct{}

// NewApplicationHandler создаёт хэндлер.
func NewApplicationHandler() *ApplicationHandler {
	return &ApplicationHandler{}
}

// Status обрабатывает POST /applications/:id/status (accepted/rejected).
func (h *ApplicationHandler) Status(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	submitted(c, ws.Forms.SetApplicationStatus(c.Request.Context(), id, c.PostForm("status")))
}

// Withdraw обрабатывает POST /applications/:id/withdraw.
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	submitted(c, ws.Forms.Withdraw(c.Request.Context(), id))
}
