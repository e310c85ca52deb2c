// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moviematch/internal/database"
)

// RateRequest is the body of PUT /preferences.
type RateRequest struct {
	ItemID string `json:"item_id" validate:"required,itemid"`
	Rating int    `json:"rating" validate:"min=1,max=10"`
}

// ListPreferences returns the caller's ratings, most recent first.
//
// @Summary List the caller's ratings
// @Tags Preferences
// @Produce json
// @Success 200 {object} APIResponse{data=[]database.Preference} "Ratings, most recent first"
// @Failure 401 {object} APIResponse "Authentication required"
// @Security BearerAuth
// @Router /api/v1/preferences [get]
func (h *Handler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.ListPreferences(r.Context(), currentUser(r))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if prefs == nil {
		prefs = []database.Preference{}
	}
	respondSuccess(w, r, http.StatusOK, prefs)
}

// RateItem records or replaces the caller's rating of one item. Unknown
// items are 404.
//
// @Summary Rate an item
// @Tags Preferences
// @Accept json
// @Produce json
// @Param request body RateRequest true "Item and rating (1-10)"
// @Success 200 {object} APIResponse{data=database.Preference} "Rating stored"
// @Failure 400 {object} APIResponse "Invalid rating"
// @Failure 404 {object} APIResponse "Unknown item"
// @Security BearerAuth
// @Router /api/v1/preferences [put]
func (h *Handler) RateItem(w http.ResponseWriter, r *http.Request) {
	var req RateRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}

	if _, err := h.catalog.ItemByID(r.Context(), req.ItemID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	user := currentUser(r)
	if err := h.store.UpsertRating(r.Context(), user, req.ItemID, req.Rating); err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, database.Preference{
		ItemID:    req.ItemID,
		Rating:    req.Rating,
		UpdatedAt: time.Now().UTC(),
	})
}

// DeletePreference removes the caller's rating of one item.
//
// @Summary Remove a rating
// @Tags Preferences
// @Param itemID path string true "Item id"
// @Success 204 "Rating removed"
// @Failure 404 {object} APIResponse "No rating for this item"
// @Security BearerAuth
// @Router /api/v1/preferences/{itemID} [delete]
func (h *Handler) DeletePreference(w http.ResponseWriter, r *http.Request) {
	req := itemPath{ItemID: chi.URLParam(r, "itemID")}
	if !validateRequest(w, r, &req) {
		return
	}

	if err := h.store.DeleteRating(r.Context(), currentUser(r), req.ItemID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
