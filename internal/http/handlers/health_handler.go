package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-web/internal/api"
	"github.com/ignatzorin/freelance-web/internal/dto"
)

// HealthHandler предоставляет endpoint для проверки здоровья сервиса.
type HealthHandler struct {
	backend *api.Client
}

// NewHealthHandler создаёт новый health handler. Клиент общий и без
// пользовательских cookie.
func NewHealthHandler(backend *api.Client) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// Health обрабатывает GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Проверка доступности бэкенда
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := Probe(ctx, h.backend); err != nil {
		checks["backend"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		checks["backend"] = "healthy"
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dto.HealthResponse{
		Status:  status,
		Checks:  checks,
		Backend: h.backend.BaseURL(),
	})
}

// Probe проверяет, что бэкенд отвечает на публичный запрос.
func Probe(ctx context.Context, backend *api.Client) error {
	_, err := backend.Categories(ctx)
	return err
}
