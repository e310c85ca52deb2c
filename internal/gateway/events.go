// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package gateway

// Incoming event names.
const (
	EventJoin  = "join"
	EventLeave = "leave"
	EventStart = "start"
	EventLike  = "like"

	// Names used by the mobile client.
	EventStartAlias = "message-start"
	EventLikeAlias  = "message-like"
)

// Outgoing event names.
const (
	EventRoomStarted   = "room-started"
	EventItemConsensus = "item-consensus"
	EventMemberJoined  = "member-joined"
	EventMemberLeft    = "member-left"
	EventJoined        = "joined"
	EventError         = "error"

	// Names the mobile client listens for.
	EventRoomStartedAlias   = "message-started"
	EventItemConsensusAlias = "all-liked"
)

// Error codes carried by EventError.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidState = "INVALID_STATE"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// Request is the payload of every incoming event. Clients send the token as
// "jwt" or "token" and the liked item as "item_id" or "media_id".
type Request struct {
	RoomID  string `json:"room_id"`
	User    string `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
	JWT     string `json:"jwt,omitempty"`
	ItemID  string `json:"item_id,omitempty"`
	MediaID string `json:"media_id,omitempty"`
}

func (r *Request) token() string {
	if r.Token != "" {
		return r.Token
	}
	return r.JWT
}

func (r *Request) item() string {
	if r.ItemID != "" {
		return r.ItemID
	}
	return r.MediaID
}

// RoomStarted is broadcast once when a room activates.
type RoomStarted struct {
	RoomID          string   `json:"room_id"`
	Members         []string `json:"members"`
	Recommendations []string `json:"recommendations"`
	ColdStart       bool     `json:"cold_start"`
}

// ItemConsensus is broadcast once per item when every member liked it.
type ItemConsensus struct {
	RoomID string `json:"room_id"`
	ItemID string `json:"item_id"`
}

// MemberEvent is broadcast when a member joins or leaves the room channel.
type MemberEvent struct {
	RoomID string `json:"room_id"`
	User   string `json:"user"`
}

// Joined acknowledges a join to the sender.
type Joined struct {
	RoomID  string   `json:"room_id"`
	Members []string `json:"members"`
	Active  bool     `json:"active"`

	// Recommendations lets late reconnects of an active room resume voting.
	Recommendations []string `json:"recommendations,omitempty"`
}

// ErrorPayload is sent to the originating session only.
type ErrorPayload struct {
	Event   string `json:"event"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
