package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/descope/go-sdk/descope/client"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rpupo63/portfolio-backend/errs"
)

const (
	authCookieName = "auth-token"
	tokenIssuer    = "portfolio-backend"
	tokenTTL       = 24 * time.Hour
)

// TokenVerifier checks an admin session token and returns its subject.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// jwtAuth issues and verifies HS256 admin tokens.
type jwtAuth struct {
	secret []byte
	now    func() time.Time
}

func newJWTAuth(secret string) *jwtAuth {
	return &jwtAuth{secret: []byte(secret), now: time.Now}
}

func (a *jwtAuth) Issue(subject string) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (a *jwtAuth) Verify(_ context.Context, token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", errs.NewInvalidTokenError(err)
	}
	return claims.Subject, nil
}

// descopeVerifier accepts Descope session tokens.
type descopeVerifier struct {
	client *client.DescopeClient
}

func newDescopeVerifier(projectID string) (*descopeVerifier, error) {
	c, err := client.NewWithConfig(&client.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return &descopeVerifier{client: c}, nil
}

func (v *descopeVerifier) Verify(ctx context.Context, token string) (string, error) {
	ok, session, err := v.client.Auth.ValidateSessionWithToken(ctx, token)
	if err != nil {
		return "", errs.NewServiceUnavailableError("descope", err)
	}
	if !ok || session == nil {
		return "", errs.NewInvalidTokenError(errors.New("descope session is not valid"))
	}
	return session.ID, nil
}

// verifierChain accepts a token if any verifier does.
type verifierChain []TokenVerifier

func (c verifierChain) Verify(ctx context.Context, token string) (string, error) {
	var lastErr error
	for _, v := range c {
		subject, err := v.Verify(ctx, token)
		if err == nil {
			return subject, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no token verifier configured")
	}
	return "", fmt.Errorf("token rejected: %w", lastErr)
}

// tokenFromRequest reads a Bearer header, falling back to the auth cookie.
func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(authCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

type authMiddleware struct {
	responder Responder
	verifier  TokenVerifier
}

func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			m.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		adminID, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			if errs.IsInvalidTokenError(err) {
				m.responder.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected admin token")
			} else {
				m.responder.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("admin token could not be verified")
			}
			m.responder.WriteError(w, errs.NewInvalidTokenError(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithAdminID(r.Context(), adminID)))
	})
}
