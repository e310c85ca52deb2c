// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package eventprocessor

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ErrInvalidEvent is returned for events missing a room or event name.
var ErrInvalidEvent = errors.New("invalid room event")

// RoomEvent is one broadcast carried over the bus.
type RoomEvent struct {
	EventID   string          `json:"event_id"`
	Origin    string          `json:"origin"`
	RoomID    string          `json:"room_id"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewRoomEvent encodes payload into a new event.
func NewRoomEvent(origin, roomID, event string, payload any) (*RoomEvent, error) {
	ev := &RoomEvent{
		EventID:   uuid.NewString(),
		Origin:    origin,
		RoomID:    roomID,
		Event:     event,
		Timestamp: time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", event, err)
		}
		ev.Payload = data
	}
	return ev, ev.Validate()
}

// Validate checks required fields.
func (e *RoomEvent) Validate() error {
	if e.RoomID == "" {
		return fmt.Errorf("%w: room_id is required", ErrInvalidEvent)
	}
	if e.Event == "" {
		return fmt.Errorf("%w: event is required", ErrInvalidEvent)
	}
	return nil
}

// SerializeEvent encodes an event for the bus.
func SerializeEvent(e *RoomEvent) ([]byte, error) {
	return json.Marshal(e)
}

// DeserializeEvent decodes and validates an event from the bus.
func DeserializeEvent(data []byte) (*RoomEvent, error) {
	var e RoomEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
