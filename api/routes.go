package api

import (
	"github.com/go-chi/chi/v5"
)

type rateLimits struct {
	like    *rateLimiter
	contact *rateLimiter
}

// setupPublicRoutes sets up the routes the portfolio site calls without a session
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, limits rateLimits) {
	r.Get("/healthz", handlers.healthHandler.healthz())

	r.Get("/projects", handlers.projectHandler.getActiveProjects())
	r.Get("/project/{slug}", handlers.projectHandler.getProjectBySlug())
	r.With(limits.like.middleware(handlers.projectHandler.responder)).
		Post("/project/{projectID}/like", handlers.projectHandler.likeProject())

	r.With(limits.contact.middleware(handlers.contactHandler.responder)).
		Post("/contact", handlers.contactHandler.submitContact())
	r.Get("/profile/avatar", handlers.profileHandler.getAvatar())
}

// setupAdminRoutes sets up the login routes and everything behind an admin session
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", handlers.authHandler.login())
		r.Post("/logout", handlers.authHandler.logout())

		r.Group(func(r chi.Router) {
			r.Use(auth.authenticate)

			// Project Handler endpoints
			r.Get("/projects", handlers.projectHandler.getAllProjects())
			r.Get("/project/{projectID}", handlers.projectHandler.getProject())
			r.Post("/project", handlers.projectHandler.createProject())
			r.Patch("/project/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

			// Bin Handler endpoints
			r.Get("/bin", handlers.binHandler.getBin())
			r.Post("/bin/sweep", handlers.binHandler.sweepNow())
			r.Post("/bin/{projectID}/restore", handlers.binHandler.restoreProject())
			r.Delete("/bin/{projectID}", handlers.binHandler.purgeProject())

			r.Get("/contacts", handlers.contactHandler.getContacts())
			r.Post("/avatar", handlers.profileHandler.uploadAvatar())
			r.Post("/generate-description", handlers.descriptionHandler.generateDescription())
		})
	})
}
