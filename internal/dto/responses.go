package dto

import (
	"github.com/ignatzorin/freelance-web/internal/models"
)

// AuthResponse is returned by login and register
type AuthResponse struct {
	Message string           `json:"message"`
	User    *models.Identity `json:"user"`
}

// MessageResponse is returned by actions such as logout and update_status
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Backend string            `json:"backend"`
}
