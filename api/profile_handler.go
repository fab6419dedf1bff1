package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
)

type profileHandler struct {
	responder Responder
	logger    zerolog.Logger
	profile   *services.ProfileService
}

func newProfileHandler(profile *services.ProfileService) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		profile:   profile,
	}
}

// getAvatar returns the profile picture URL
// @Summary Get avatar
// @Tags Profile
// @Produce json
// @Success 200 {object} AvatarResponse "Avatar URL, empty when unset"
// @Router /profile/avatar [get]
func (h profileHandler) getAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := h.profile.AvatarURL(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, AvatarResponse{URL: url})
	}
}

// uploadAvatar replaces the profile picture
// @Summary Upload avatar
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Image file"
// @Success 200 {object} AvatarResponse "New avatar URL"
// @Failure 415 {object} ErrorResponse "Unsupported Media Type - Not an image"
// @Router /admin/avatar [post]
func (h profileHandler) uploadAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isMultipart(r) {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(r.Header.Get("Content-Type"), []string{"multipart/form-data"}))
			return
		}
		form, err := multipartForm(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer form.RemoveAll()

		upload, closeFile, err := formUpload(form, "avatar")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeFile()
		if upload == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("avatar"))
			return
		}

		url, err := h.profile.UploadAvatar(r.Context(), *upload)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, AvatarResponse{URL: url})
	}
}
