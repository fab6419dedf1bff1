package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-backend/errs"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	username     string
	passwordHash []byte
	tokens       *jwtAuth
	secureCookie bool
}

func newAuthHandler(username, passwordHash string, tokens *jwtAuth, secureCookie bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		username:     username,
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
		secureCookie: secureCookie,
	}
}

// login exchanges admin credentials for a session token
// @Summary Admin login
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Admin credentials"
// @Success 200 {object} LoginResponse "Session token, also set as the auth-token cookie"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Failure 503 {object} ErrorResponse "Service Unavailable - Login not configured"
// @Router /admin/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.username == "" || len(h.passwordHash) == 0 || h.tokens == nil {
			h.responder.WriteError(w, errs.NewServiceDisabledError("admin login"))
			return
		}

		var req LoginRequest
		if err := decodeJSON(w, r, &req, "login"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if strings.TrimSpace(req.Username) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("username"))
			return
		}
		if req.Password == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("password"))
			return
		}

		userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.Username)), []byte(h.username)) == 1
		// always run bcrypt so a wrong username costs the same as a wrong password
		passErr := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password))
		if !userOK || passErr != nil {
			h.logger.Warn().Str("remote_addr", clientIP(r, false)).Str("forwarded_for", r.Header.Get("X-Forwarded-For")).Msg("failed admin login")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, expiresAt, err := h.tokens.Issue(h.username)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue token", err))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     authCookieName,
			Value:    token,
			Path:     "/",
			Expires:  expiresAt,
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		h.logger.Info().Str("admin", h.username).Msg("admin logged in")
		h.responder.WriteJSON(w, LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()})
	}
}

// logout clears the session cookie
// @Summary Admin logout
// @Tags Auth
// @Produce json
// @Success 200 {object} StatusResponse "Cookie cleared"
// @Router /admin/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     authCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		h.responder.WriteJSON(w, StatusResponse{Status: "success"})
	}
}
