// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package authz

import (
	"net/http"

	"github.com/tomtom215/moviematch/internal/auth"
	"github.com/tomtom215/moviematch/internal/logging"
)

// DenyFunc writes the response for a rejected request.
type DenyFunc func(w http.ResponseWriter, r *http.Request, status int, message string)

// Middleware enforces the policy on each request path.
type Middleware struct {
	enforcer *Enforcer
	deny     DenyFunc
}

// NewMiddleware creates the middleware. A nil deny uses http.Error.
func NewMiddleware(enforcer *Enforcer, deny DenyFunc) *Middleware {
	if deny == nil {
		deny = func(w http.ResponseWriter, _ *http.Request, status int, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{enforcer: enforcer, deny: deny}
}

// AuthorizeRequest authorizes the caller for the request path, with the
// action taken from the HTTP method.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.UserFromContext(r.Context())
		if user == "" {
			m.deny(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		allowed, err := m.enforcer.Enforce(user, r.URL.Path, methodToAction(r.Method))
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			m.deny(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Warn().Str("user_id", user).Str("path", r.URL.Path).Msg("Authorization denied")
			m.deny(w, r, http.StatusForbidden, "Insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to policy actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
