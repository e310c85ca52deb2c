// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"

	"github.com/tomtom215/moviematch/internal/middleware"
	"github.com/tomtom215/moviematch/internal/recommend"
)

type recommendationsQuery struct {
	K int `query:"k" validate:"min=0,max=1000"`
}

// ScoredItem is a recommended item with its distance from the caller's profile.
type ScoredItem struct {
	recommend.Item
	Distance float64 `json:"distance"`
}

// Recommendations is the body of GET /recommendations.
type Recommendations struct {
	UserID    string       `json:"user_id"`
	ColdStart bool         `json:"cold_start"`
	Items     []ScoredItem `json:"items"`
}

// GetRecommendations returns the caller's personal recommendations. k <= 0
// uses the engine default.
//
// @Summary Personal recommendations
// @Tags Recommendations
// @Produce json
// @Param k query int false "Number of recommendations (0 uses the engine default)"
// @Success 200 {object} APIResponse{data=Recommendations} "Recommendations"
// @Failure 503 {object} APIResponse "Index not ready"
// @Security BearerAuth
// @Router /api/v1/recommendations [get]
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	req := recommendationsQuery{K: getIntParam(r, "k", 0)}
	if !validateRequest(w, r, &req) {
		return
	}

	user := currentUser(r)
	res, err := h.recommender.Recommend(r.Context(), user, req.K)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	distances := make(map[string]float64, res.Len())
	for i, id := range res.IDs {
		distances[id] = res.Distances[i]
	}
	items, err := h.resolveItems(r.Context(), res.IDs)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := Recommendations{
		UserID:    user,
		ColdStart: res.ColdStart,
		Items:     make([]ScoredItem, 0, len(items)),
	}
	for i := range items {
		out.Items = append(out.Items, ScoredItem{Item: items[i], Distance: distances[items[i].ID]})
	}
	respondSuccess(w, r, http.StatusOK, out)
}

// RebuildFeatures drops the cached feature set and rebuilds it together with
// the neighbor index. The previous index serves requests until the new one is
// published.
//
// @Summary Rebuild features and index
// @Tags Admin
// @Produce json
// @Success 200 {object} APIResponse{data=recommend.Stats} "Engine counters after the rebuild"
// @Failure 403 {object} APIResponse "Admin role required"
// @Security BearerAuth
// @Router /api/v1/admin/features/rebuild [post]
func (h *Handler) RebuildFeatures(w http.ResponseWriter, r *http.Request) {
	if err := h.recommender.Reload(r.Context()); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if h.afterReload != nil {
		h.afterReload()
	}
	respondSuccess(w, r, http.StatusOK, h.recommender.Stats())
}

// AdminStats is the body of GET /admin/stats.
type AdminStats struct {
	Engine      recommend.Stats            `json:"engine"`
	ActiveRooms int                        `json:"active_rooms"`
	WebSockets  int                        `json:"websocket_clients"`
	Breakers    map[string]string          `json:"breakers,omitempty"`
	Endpoints   []middleware.EndpointStats `json:"endpoints,omitempty"`
}

// Stats reports engine counters, room and connection counts, breaker states
// and per-endpoint latency.
//
// @Summary Service statistics
// @Tags Admin
// @Produce json
// @Success 200 {object} APIResponse{data=AdminStats} "Statistics"
// @Failure 403 {object} APIResponse "Admin role required"
// @Security BearerAuth
// @Router /api/v1/admin/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := AdminStats{
		Engine:      h.recommender.Stats(),
		ActiveRooms: h.rooms.Len(),
	}
	if h.wsHub != nil {
		stats.WebSockets = h.wsHub.GetClientCount()
	}
	if h.breakers != nil {
		stats.Breakers = h.breakers()
	}
	if h.perfMon != nil {
		stats.Endpoints = h.perfMon.GetStats()
	}
	respondSuccess(w, r, http.StatusOK, stats)
}
