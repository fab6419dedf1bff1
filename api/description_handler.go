package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/services"
)

type descriptionHandler struct {
	responder Responder
	logger    zerolog.Logger
	generator *services.DescriptionGenerator
}

func newDescriptionHandler(generator *services.DescriptionGenerator) descriptionHandler {
	logger := log.With().Str("handlerName", "descriptionHandler").Logger()

	return descriptionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		generator: generator,
	}
}

type generateDescriptionRequest struct {
	services.DescriptionInput
	ProjectSkills skillsField `json:"projectSkills"`
}

// generateDescription drafts a project description with the configured LLM
// @Summary Generate project description
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.DescriptionInput true "Project facts"
// @Success 200 {object} DescriptionResponse "Generated description"
// @Failure 503 {object} ErrorResponse "Service Unavailable - Generator not configured"
// @Router /admin/generate-description [post]
func (h descriptionHandler) generateDescription() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateDescriptionRequest
		if err := decodeJSON(w, r, &req, "description request"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		in := req.DescriptionInput
		in.ProjectSkills = []string(req.ProjectSkills)

		description, err := h.generator.Generate(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, DescriptionResponse{Description: description})
	}
}
