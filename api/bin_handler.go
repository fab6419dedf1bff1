package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/lifecycle"
)

// sweepRunner runs one retention sweep.
type sweepRunner interface {
	Run(ctx context.Context) (int, error)
}

type binHandler struct {
	responder Responder
	logger    zerolog.Logger
	manager   *lifecycle.Manager
	sweeper   sweepRunner
}

func newBinHandler(manager *lifecycle.Manager, sweeper sweepRunner) binHandler {
	logger := log.With().Str("handlerName", "binHandler").Logger()

	return binHandler{
		responder: NewResponder(logger),
		logger:    logger,
		manager:   manager,
		sweeper:   sweeper,
	}
}

// getBin lists binned projects with their remaining retention
// @Summary List the bin
// @Description Binned projects, most recently deleted first, with days remaining before permanent deletion
// @Tags Bin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} BinCollection "Binned projects"
// @Router /admin/bin [get]
func (h binHandler) getBin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.manager.ListBin(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if entries == nil {
			entries = []lifecycle.BinEntry{}
		}
		h.responder.WriteJSON(w, BinCollection{
			Projects:      entries,
			Total:         len(entries),
			RetentionDays: h.manager.RetentionDays(),
		})
	}
}

// restoreProject moves a project out of the bin
// @Summary Restore project
// @Tags Bin
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Restored project"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/bin/{projectID}/restore [post]
func (h binHandler) restoreProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.manager.Restore(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// purgeProject permanently deletes a binned project and its stored assets
// @Summary Purge project
// @Tags Bin
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} StatusResponse "Project purged"
// @Failure 409 {object} ErrorResponse "Conflict - Project is not in the bin"
// @Router /admin/bin/{projectID} [delete]
func (h binHandler) purgeProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.manager.Purge(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "project permanently deleted"})
	}
}

// sweepNow runs the retention sweeper immediately
// @Summary Run retention sweep
// @Tags Bin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SweepResponse "Number of purged projects"
// @Router /admin/bin/sweep [post]
func (h binHandler) sweepNow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purged, err := h.sweeper.Run(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Int("purged", purged).Msg("manual retention sweep")
		h.responder.WriteJSON(w, SweepResponse{Purged: purged})
	}
}
