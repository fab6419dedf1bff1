package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	startupTime time.Time
}

func newHealthHandler(startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{responder: NewResponder(logger), startupTime: startupTime}
}

// healthz reports liveness and uptime
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h healthHandler) healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, HealthResponse{
			Status:        "ok",
			StartedAt:     h.startupTime.UTC().Format(time.RFC3339),
			UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		})
	}
}
