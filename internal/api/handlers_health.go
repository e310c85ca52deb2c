// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"context"
	"net/http"
	"time"
)

// readyTimeout bounds the database ping of a readiness probe.
const readyTimeout = 2 * time.Second

// HealthLive reports that the process is alive, regardless of dependencies.
//
// @Summary Liveness check
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse "Process is alive"
// @Router /api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// ReadyStatus is the body of a readiness probe.
type ReadyStatus struct {
	Ready             bool `json:"ready"`
	DatabaseConnected bool `json:"database_connected"`
	IndexReady        bool `json:"index_ready"`
	ActiveRooms       int  `json:"active_rooms"`
}

// HealthReady answers 200 once the database is reachable and a recommendation
// index is published, and 503 otherwise.
//
// @Summary Readiness check
// @Description Returns 200 once the database answers and a recommendation index is published, 503 otherwise.
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=ReadyStatus} "Service is ready"
// @Failure 503 {object} APIResponse{data=ReadyStatus} "Service is not ready"
// @Router /api/v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := ReadyStatus{
		DatabaseConnected: h.store.Ping(ctx) == nil,
		IndexReady:        h.recommender.Ready(),
		ActiveRooms:       h.rooms.Len(),
	}
	status.Ready = status.DatabaseConnected && status.IndexReady

	code, result := http.StatusOK, "success"
	if !status.Ready {
		code, result = http.StatusServiceUnavailable, "error"
	}
	respondJSON(w, code, &APIResponse{
		Status:   result,
		Data:     status,
		Metadata: metadataFor(r),
	})
}
