package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

const defaultContactListLimit = 100

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contacts  *services.ContactService
}

func newContactHandler(contacts *services.ContactService) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contacts:  contacts,
	}
}

// submitContact stores a message from the contact form
// @Summary Submit contact form
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body services.ContactInput true "Contact message"
// @Success 201 {object} models.ContactMessage "Stored message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid message"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.ContactInput
		if err := decodeJSON(w, r, &in, "contact"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		msg, err := h.contacts.Submit(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, msg)
	}
}

// getContacts lists stored contact messages
// @Summary List contact messages
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of messages"
// @Success 200 {object} ContactCollection "Messages, newest first"
// @Router /admin/contacts [get]
func (h contactHandler) getContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultContactListLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("limit", "must be a positive integer"))
				return
			}
			limit = n
		}

		messages, err := h.contacts.List(r.Context(), limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if messages == nil {
			messages = []*models.ContactMessage{}
		}
		h.responder.WriteJSON(w, ContactCollection{Messages: messages, Total: len(messages)})
	}
}
