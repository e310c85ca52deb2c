// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moviematch/internal/gateway"
	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/rooms"
)

type roomPath struct {
	RoomID string `json:"room_id" validate:"required,roomcode,max=32"`
}

// RoomRecommendations is the body of GET /rooms/{roomID}/recommendations.
type RoomRecommendations struct {
	RoomID    string           `json:"room_id"`
	ColdStart bool             `json:"cold_start"`
	Items     []recommend.Item `json:"items"`
}

func roomFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	req := roomPath{RoomID: chi.URLParam(r, "roomID")}
	if !validateRequest(w, r, &req) {
		return "", false
	}
	return req.RoomID, true
}

// CreateRoom opens a room with the caller as creator and first member.
//
// @Summary Create a room
// @Tags Rooms
// @Produce json
// @Success 201 {object} APIResponse{data=rooms.Snapshot} "Room created"
// @Failure 401 {object} APIResponse "Authentication required"
// @Security BearerAuth
// @Router /api/v1/rooms [post]
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	snap, err := h.rooms.Create(currentUser(r))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/rooms/"+snap.ID)
	respondSuccess(w, r, http.StatusCreated, snap)
}

// GetRoom returns a room snapshot.
//
// @Summary Get a room
// @Tags Rooms
// @Produce json
// @Param roomID path string true "Room id"
// @Success 200 {object} APIResponse{data=rooms.Snapshot} "Room snapshot"
// @Failure 404 {object} APIResponse "Unknown room"
// @Security BearerAuth
// @Router /api/v1/rooms/{roomID} [get]
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := roomFromPath(w, r)
	if !ok {
		return
	}
	snap, err := h.rooms.Get(id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, snap)
}

// JoinRoom adds the caller to a room that has not started and tells
// connected members.
//
// @Summary Join a room
// @Tags Rooms
// @Produce json
// @Param roomID path string true "Room id"
// @Success 200 {object} APIResponse{data=rooms.Snapshot} "Room snapshot"
// @Failure 404 {object} APIResponse "Unknown room"
// @Failure 409 {object} APIResponse "Room already started or full"
// @Security BearerAuth
// @Router /api/v1/rooms/{roomID}/join [post]
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := roomFromPath(w, r)
	if !ok {
		return
	}
	user := currentUser(r)
	snap, err := h.rooms.Join(id, user)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if h.events != nil {
		h.events.BroadcastToRoom(id, gateway.EventMemberJoined, gateway.MemberEvent{RoomID: id, User: user})
	}
	respondSuccess(w, r, http.StatusOK, snap)
}

// GetRoomRecommendations returns the candidate list frozen when the room started.
//
// @Summary Room candidates
// @Tags Rooms
// @Produce json
// @Param roomID path string true "Room id"
// @Success 200 {object} APIResponse{data=RoomRecommendations} "Frozen candidate list"
// @Failure 404 {object} APIResponse "Unknown room"
// @Failure 409 {object} APIResponse "Room not started"
// @Security BearerAuth
// @Router /api/v1/rooms/{roomID}/recommendations [get]
func (h *Handler) GetRoomRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := roomFromPath(w, r)
	if !ok {
		return
	}
	snap, err := h.rooms.Get(id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if !snap.Active {
		respondDomainError(w, r, fmt.Errorf("%w: room %s has not started", rooms.ErrInvalidState, id))
		return
	}

	items, err := h.resolveItems(r.Context(), snap.Recommended)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, RoomRecommendations{
		RoomID:    id,
		ColdStart: snap.ColdStart,
		Items:     items,
	})
}

// DeleteRoom removes a room on behalf of its creator.
//
// @Summary Delete a room
// @Tags Rooms
// @Param roomID path string true "Room id"
// @Success 204 "Room deleted"
// @Failure 409 {object} APIResponse "Only the creator may delete"
// @Failure 404 {object} APIResponse "Unknown room"
// @Security BearerAuth
// @Router /api/v1/rooms/{roomID} [delete]
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := roomFromPath(w, r)
	if !ok {
		return
	}
	if err := h.rooms.Delete(id, currentUser(r)); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
