package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/logger"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Известные ошибки приложения отдаются со своим статусом, остальные маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Ответ уже отправлен
		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"

		if appErr, ok := apperror.As(err.Err); ok && appErr.Code != apperror.ErrCodeInternal {
			statusCode = appErr.HTTPStatus
			message = appErr.Message
		}

		entry := logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": statusCode,
		})
		if statusCode >= http.StatusInternalServerError {
			entry.Error("Request error")
		} else {
			entry.Warn("Request error")
		}

		if statusCode == http.StatusNoContent {
			c.Status(statusCode)
			return
		}
		c.JSON(statusCode, dto.ErrorResponse{Error: message})
	}
}
