// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package socketio

import (
	"sort"
	"sync"

	"golang.org/x/time/rate"
)

// emitter is the part of socketio.Conn a session drives.
type emitter interface {
	ID() string
	Emit(event string, v ...interface{})
	Join(room string)
	Leave(room string)
}

// session adapts one Socket.IO connection to gateway.Session.
type session struct {
	conn    emitter
	user    string
	limiter *rate.Limiter

	mu    sync.Mutex
	rooms map[string]bool
}

func newSession(conn emitter, user string, cfg Config) *session {
	return &session{
		conn:    conn,
		user:    user,
		limiter: newLimiter(cfg),
		rooms:   make(map[string]bool),
	}
}

func (s *session) ID() string {
	return "sio-" + s.conn.ID()
}

func (s *session) User() string {
	return s.user
}

// Send emits to this connection, under the client alias as well when one exists.
func (s *session) Send(event string, payload any) {
	s.conn.Emit(event, payload)
	if alias, ok := aliases[event]; ok {
		s.conn.Emit(alias, payload)
	}
}

func (s *session) JoinRoom(roomID string) {
	s.mu.Lock()
	s.rooms[roomID] = true
	s.mu.Unlock()
	s.conn.Join(roomID)
}

func (s *session) LeaveRoom(roomID string) {
	s.mu.Lock()
	delete(s.rooms, roomID)
	s.mu.Unlock()
	s.conn.Leave(roomID)
}

// soleRoom returns the joined room when there is exactly one.
func (s *session) soleRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rooms) != 1 {
		return ""
	}
	for room := range s.rooms {
		return room
	}
	return ""
}

// joined returns the joined rooms in order.
func (s *session) joined() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.rooms))
	for room := range s.rooms {
		out = append(out, room)
	}
	sort.Strings(out)
	return out
}
