// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/moviematch/internal/logging"
	ws "github.com/tomtom215/moviematch/internal/websocket"
)

// getUpgrader creates a WebSocket upgrader with origin checking and a handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts same-origin requests and configured CORS
// origins. Requests without an Origin header are rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the request and attaches a client to the hub. Browsers
// cannot set headers on upgrades, so ?token= is accepted as well.
//
// @Summary Realtime room connection
// @Description Upgrades to a WebSocket carrying room events. Browsers pass the token as ?token=.
// @Tags Realtime
// @Param token query string false "Bearer token"
// @Success 101 "Switching protocols"
// @Failure 401 {object} APIResponse "Authentication required"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	user := currentUser(r)
	if tok := r.URL.Query().Get("token"); user == "" && tok != "" {
		if h.verifier == nil {
			respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Tokens are not accepted", nil)
			return
		}
		verified, err := h.verifier.VerifyToken(tok)
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Invalid token", err)
			return
		}
		user = verified
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn, user)
	h.wsHub.Register(client)
	// The request context ends with the handler; the connection outlives it.
	client.Start(context.WithoutCancel(r.Context()))
}
