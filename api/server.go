package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/lifecycle"
	"github.com/rpupo63/portfolio-backend/services"
)

// Services are the application components the HTTP layer exposes.
type Services struct {
	Manager      *lifecycle.Manager
	Sweeper      *lifecycle.Sweeper
	Contacts     *services.ContactService
	Profile      *services.ProfileService
	Descriptions *services.DescriptionGenerator
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, svc Services) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	if config.GetString(c, "ADMIN_PASSWORD_HASH", "") != "" && config.GetString(c, "JWT_SECRET", "") == "" {
		return Server{}, errs.NewEnvironmentVariableError("JWT_SECRET")
	}

	router := newRouter(svc, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	verifiers   []TokenVerifier
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// withVerifier accepts tokens checked by v in addition to the configured ones.
func withVerifier(v TokenVerifier) func(*router) {
	return func(r *router) {
		r.verifiers = append(r.verifiers, v)
	}
}

func newRouter(svc Services, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.config == nil {
		router.config = map[string]string{}
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}
	c := router.config

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(metricsMiddleware)

	acceptedOrigins := config.GetStrings(c, "ACCEPTED_ORIGINS", []string{"http://localhost:3000"})
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))
	if config.GetBool(c, "REQUEST_LOGGING", true) {
		chiRouter.Use(ColoredHTTPLoggingMiddleware)
	}

	var tokens *jwtAuth
	if secret := config.GetString(c, "JWT_SECRET", ""); secret != "" {
		tokens = newJWTAuth(secret)
		router.verifiers = append(router.verifiers, tokens)
	}
	if projectID := config.GetString(c, "DESCOPE_PROJECT_ID", ""); projectID != "" {
		descope, err := newDescopeVerifier(projectID)
		if err != nil {
			log.Error().Err(err).Msg("Descope verifier disabled")
		} else {
			router.verifiers = append(router.verifiers, descope)
		}
	}
	if len(router.verifiers) == 0 {
		log.Warn().Msg("no admin token verifier configured, admin routes will reject every request")
	}

	handlers := initializeHandlers(svc, c, tokens, router.startupTime)
	auth := authMiddleware{
		responder: NewResponder(log.With().Str("handlerName", "authMiddleware").Logger()),
		verifier:  verifierChain(router.verifiers),
	}
	limits := rateLimits{
		like:    newRateLimiter(config.GetInt(c, "LIKE_RATE_PER_MINUTE", 30), config.GetInt(c, "LIKE_RATE_BURST", 10), 15*time.Minute),
		contact: newRateLimiter(config.GetInt(c, "CONTACT_RATE_PER_MINUTE", 5), config.GetInt(c, "CONTACT_RATE_BURST", 3), 15*time.Minute),
	}
	// forwarding headers are client-controlled unless a proxy in front rewrites them
	if config.GetBool(c, "TRUSTED_PROXY", false) {
		limits.like.trustProxy = true
		limits.contact.trustProxy = true
	}

	setupPublicRoutes(chiRouter, handlers, limits)
	setupAdminRoutes(chiRouter, handlers, auth)
	chiRouter.Handle("/metrics", promhttp.Handler())

	fallback := NewResponder(log.With().Str("handlerName", "router").Logger())
	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fallback.WriteError(w, errs.NewNotFoundError("route not found"))
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		fallback.WriteError(w, errs.NewApiErr(http.StatusMethodNotAllowed, "method not allowed"))
	})

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
