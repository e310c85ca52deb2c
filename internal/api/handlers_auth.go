// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"
	"time"
)

// tokenCookie is read by auth.Middleware when no Authorization header is sent.
const tokenCookie = "token"

// TokenRequest is the body of POST /auth/token.
type TokenRequest struct {
	UserID string `json:"user_id" validate:"required,max=64,printascii"`
}

// TokenResponse carries an issued token.
type TokenResponse struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueDevToken mints a token for any user id. It only exists when
// security.dev_tokens is enabled, because credentials live outside MovieMatch.
//
// @Summary Issue a development token
// @Description Mints a bearer token for any user id. Only mounted when security.dev_tokens is enabled.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "User to issue a token for"
// @Success 200 {object} APIResponse{data=TokenResponse} "Token issued"
// @Failure 400 {object} APIResponse "Invalid user id"
// @Failure 404 {object} APIResponse "Development tokens are disabled"
// @Router /api/v1/auth/token [post]
func (h *Handler) IssueDevToken(w http.ResponseWriter, r *http.Request) {
	if h.tokens == nil || !h.config.Security.DevTokens {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Token issuance is disabled", nil)
		return
	}

	var req TokenRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}

	token, expires, err := h.tokens.Issue(req.UserID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to issue token", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	respondSuccess(w, r, http.StatusOK, TokenResponse{
		UserID:    req.UserID,
		Token:     token,
		ExpiresAt: expires,
	})
}
