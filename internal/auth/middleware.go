// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/moviematch/internal/logging"
)

type contextKey string

// UserContextKey holds the authenticated user id.
const UserContextKey contextKey = "user"

// UserHeader names the caller when authentication is optional.
const UserHeader = "X-User-ID"

// ErrorWriter writes the response for a rejected request.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, message string)

// Middleware resolves the caller identity for HTTP requests.
type Middleware struct {
	tokens      *TokenManager
	requireAuth bool
	writeError  ErrorWriter
}

// NewMiddleware creates the middleware. tokens may be nil when
// authentication is not required. Rejections are plain-text until
// WithErrorWriter installs another format.
func NewMiddleware(tokens *TokenManager, requireAuth bool) *Middleware {
	return &Middleware{tokens: tokens, requireAuth: requireAuth, writeError: plainError}
}

// WithErrorWriter returns a copy of m that reports rejections through fn.
func (m *Middleware) WithErrorWriter(fn ErrorWriter) *Middleware {
	c := *m
	if fn != nil {
		c.writeError = fn
	}
	return &c
}

func plainError(w http.ResponseWriter, _ *http.Request, status int, message string) {
	http.Error(w, "Unauthorized: "+message, status)
}

// Authenticate resolves the caller and stores it in the request context.
// Requests without any identity pass through anonymously; RequireUser
// rejects them where a user is needed.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			m.writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		var user string
		switch {
		case token != "":
			if m.tokens == nil {
				m.writeError(w, r, http.StatusUnauthorized, "tokens are not accepted")
				return
			}
			user, err = m.tokens.VerifyToken(token)
			if err != nil {
				logging.Debug().Err(err).Str("path", r.URL.Path).Msg("Token validation failed")
				m.writeError(w, r, http.StatusUnauthorized, "invalid token")
				return
			}
		case !m.requireAuth:
			user = strings.TrimSpace(r.Header.Get(UserHeader))
		}

		if user != "" {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects requests without a resolved user.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == "" {
			m.writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken reads a bearer token from the Authorization header or the
// "token" cookie. It returns "" when neither is present.
func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		cookie, err := r.Cookie("token")
		if err != nil {
			return "", nil
		}
		return cookie.Value, nil
	}
	token, ok := BearerToken(header)
	if !ok {
		return "", errInvalidHeader
	}
	return token, nil
}

var errInvalidHeader = errors.New("invalid authorization header")

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithUser returns a context carrying userID, also tagged for request logging.
func WithUser(ctx context.Context, userID string) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, userID)
	return logging.ContextWithUserID(ctx, userID)
}

// UserFromContext returns the authenticated user id, or "".
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(UserContextKey).(string)
	return user
}
