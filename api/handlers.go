package api

import (
	"time"

	"github.com/rpupo63/portfolio-backend/config"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svc Services, c map[string]string, tokens *jwtAuth, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler:     newProjectHandler(svc.Manager),
		binHandler:         newBinHandler(svc.Manager, svc.Sweeper),
		contactHandler:     newContactHandler(svc.Contacts),
		profileHandler:     newProfileHandler(svc.Profile),
		descriptionHandler: newDescriptionHandler(svc.Descriptions),
		authHandler: newAuthHandler(
			config.GetString(c, "ADMIN_USERNAME", "admin"),
			config.GetString(c, "ADMIN_PASSWORD_HASH", ""),
			tokens,
			config.GetBool(c, "SECURE_COOKIES", true),
		),
		healthHandler: newHealthHandler(startupTime),
	}
}
