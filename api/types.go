package api

import (
	"github.com/rpupo63/portfolio-backend/lifecycle"
	"github.com/rpupo63/portfolio-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler     projectHandler
	binHandler         binHandler
	contactHandler     contactHandler
	profileHandler     profileHandler
	descriptionHandler descriptionHandler
	authHandler        authHandler
	healthHandler      healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectCollection represents a list of projects
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
}

// BinCollection represents the admin bin
type BinCollection struct {
	Projects      []lifecycle.BinEntry `json:"projects"`
	Total         int                  `json:"total"`
	RetentionDays int                  `json:"retentionDays"`
}

// LikeResponse carries the like count after an increment
type LikeResponse struct {
	ProjectID string `json:"projectId"`
	Likes     int64  `json:"likes"`
}

// SweepResponse reports a manual sweeper run
type SweepResponse struct {
	Purged int `json:"purged"`
}

// ContactCollection represents stored contact messages
type ContactCollection struct {
	Messages []*models.ContactMessage `json:"messages"`
	Total    int                      `json:"total"`
}

// AvatarResponse carries the profile picture URL, empty when none was uploaded
type AvatarResponse struct {
	URL string `json:"url"`
}

// DescriptionResponse carries a generated project description
type DescriptionResponse struct {
	Description string `json:"description"`
}

// LoginRequest holds admin credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued admin token
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// StatusResponse is a plain acknowledgement
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status        string `json:"status"`
	StartedAt     string `json:"startedAt"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}
