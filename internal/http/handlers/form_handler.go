package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/http/handlers/common"
)

// FormHandler отправка форм отклика, вакансии и профиля.
type FormHandler struct{}

// NewFormHandler создаёт хэндлер.
func NewFormHandler() *FormHandler {
	return &FormHandler{}
}

// Apply обрабатывает POST /forms/apply.
func (h *FormHandler) Apply(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	var form dto.ApplyForm
	if err := c.ShouldBind(&form); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	submitted(c, ws.Forms.Apply(c.Request.Context(), form))
}

// PostJob обрабатывает POST /forms/jobs.
func (h *FormHandler) PostJob(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	var form dto.JobPostForm
	if err := c.ShouldBind(&form); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	submitted(c, ws.Forms.PostJob(c.Request.Context(), form))
}

// UpdateProfile обрабатывает POST /forms/profile.
func (h *FormHandler) UpdateProfile(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	var form dto.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	submitted(c, ws.Forms.UpdateProfile(c.Request.Context(), form))
}
