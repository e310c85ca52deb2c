// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package socketio

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/gateway"
)

type emitted struct {
	event   string
	payload interface{}
}

type fakeConn struct {
	id     string
	mu     sync.Mutex
	emits  []emitted
	joins  []string
	leaves []string
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Emit(event string, v ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var payload interface{}
	if len(v) > 0 {
		payload = v[0]
	}
	c.emits = append(c.emits, emitted{event: event, payload: payload})
}

func (c *fakeConn) Join(room string)  { c.joins = append(c.joins, room) }
func (c *fakeConn) Leave(room string) { c.leaves = append(c.leaves, room) }

func (c *fakeConn) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.emits))
	for i, e := range c.emits {
		out[i] = e.event
	}
	return out
}

type recordingDispatcher struct {
	events   []string
	payloads []map[string]interface{}
	users    []string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, sess gateway.Session, event string, payload []byte) {
	var m map[string]interface{}
	_ = json.Unmarshal(payload, &m) //nolint:errcheck // payload comes from json.Marshal
	d.events = append(d.events, event)
	d.payloads = append(d.payloads, m)
	d.users = append(d.users, sess.User())
}

type mapVerifier map[string]string

func (v mapVerifier) VerifyToken(token string) (string, error) {
	if user, ok := v[token]; ok {
		return user, nil
	}
	return "", errors.New("unknown token")
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSession_SendEmitsAliases(t *testing.T) {
	conn := &fakeConn{id: "abc"}
	sess := newSession(conn, "alice", Config{})

	sess.Send(gateway.EventRoomStarted, gateway.RoomStarted{RoomID: "ROOM0001"})
	sess.Send(gateway.EventItemConsensus, gateway.ItemConsensus{RoomID: "ROOM0001", ItemID: "tt1"})
	sess.Send(gateway.EventJoined, gateway.Joined{RoomID: "ROOM0001"})

	want := []string{
		gateway.EventRoomStarted, gateway.EventRoomStartedAlias,
		gateway.EventItemConsensus, gateway.EventItemConsensusAlias,
		gateway.EventJoined,
	}
	if got := conn.events(); !equalStrings(got, want) {
		t.Errorf("emitted = %v, want %v", got, want)
	}
	if sess.ID() != "sio-abc" {
		t.Errorf("ID() = %q, want sio-abc", sess.ID())
	}
	if sess.User() != "alice" {
		t.Errorf("User() = %q, want alice", sess.User())
	}
}

func TestSession_Rooms(t *testing.T) {
	conn := &fakeConn{id: "abc"}
	sess := newSession(conn, "", Config{})

	if sess.soleRoom() != "" {
		t.Errorf("soleRoom() = %q, want empty", sess.soleRoom())
	}
	sess.JoinRoom("ROOM0002")
	if sess.soleRoom() != "ROOM0002" {
		t.Errorf("soleRoom() = %q, want ROOM0002", sess.soleRoom())
	}
	sess.JoinRoom("ROOM0001")
	if sess.soleRoom() != "" {
		t.Errorf("soleRoom() = %q, want empty with two rooms", sess.soleRoom())
	}
	if got := sess.joined(); !equalStrings(got, []string{"ROOM0001", "ROOM0002"}) {
		t.Errorf("joined() = %v", got)
	}
	sess.LeaveRoom("ROOM0002")
	if !equalStrings(conn.joins, []string{"ROOM0002", "ROOM0001"}) || !equalStrings(conn.leaves, []string{"ROOM0002"}) {
		t.Errorf("joins = %v, leaves = %v", conn.joins, conn.leaves)
	}
}

func TestServer_Dispatch(t *testing.T) {
	d := &recordingDispatcher{}
	s := New(Config{}, d, zerolog.Nop())

	conn := &fakeConn{id: "abc"}
	sess := newSession(conn, "alice", s.config)

	s.dispatch(sess, gateway.EventLikeAlias, map[string]interface{}{"room_id": "ROOM0001", "media_id": "tt1"})
	if len(d.events) != 1 || d.events[0] != gateway.EventLikeAlias {
		t.Fatalf("events = %v", d.events)
	}
	if d.payloads[0]["media_id"] != "tt1" {
		t.Errorf("payload = %v, want media_id tt1", d.payloads[0])
	}
	if d.users[0] != "alice" {
		t.Errorf("user = %q, want alice", d.users[0])
	}

	// A bare leave is addressed to the only joined room.
	sess.JoinRoom("ROOM0001")
	s.dispatch(sess, gateway.EventLeave, nil)
	if got := d.payloads[1]["room_id"]; got != "ROOM0001" {
		t.Errorf("room_id = %v, want ROOM0001", got)
	}
}

func TestServer_DispatchRateLimited(t *testing.T) {
	d := &recordingDispatcher{}
	s := New(Config{MessagesPerSecond: 0.001, Burst: 2}, d, zerolog.Nop())
	conn := &fakeConn{id: "abc"}
	sess := newSession(conn, "alice", s.config)

	for i := 0; i < 3; i++ {
		s.dispatch(sess, gateway.EventJoin, map[string]interface{}{"room_id": "ROOM0001"})
	}
	if len(d.events) != 2 {
		t.Errorf("dispatched %d events, want 2", len(d.events))
	}
	if len(conn.emits) != 1 || conn.emits[0].event != gateway.EventError {
		t.Fatalf("emits = %v, want one error", conn.events())
	}
	payload, ok := conn.emits[0].payload.(gateway.ErrorPayload)
	if !ok || payload.Code != gateway.CodeRateLimited {
		t.Errorf("payload = %#v, want RATE_LIMITED", conn.emits[0].payload)
	}
}

func TestIdentify(t *testing.T) {
	verifier := mapVerifier{"good": "alice"}

	tests := []struct {
		name     string
		verifier gateway.TokenVerifier
		header   http.Header
		rawURL   string
		want     string
		wantErr  bool
	}{
		{name: "anonymous", verifier: verifier, rawURL: "/socket.io/?EIO=3"},
		{name: "bearer header", verifier: verifier, header: http.Header{"Authorization": {"Bearer good"}}, rawURL: "/socket.io/", want: "alice"},
		{name: "lowercase bearer", verifier: verifier, header: http.Header{"Authorization": {"bearer good"}}, rawURL: "/socket.io/", want: "alice"},
		{name: "token query", verifier: verifier, rawURL: "/socket.io/?token=good", want: "alice"},
		{name: "jwt query", verifier: verifier, rawURL: "/socket.io/?jwt=good", want: "alice"},
		{name: "bad token", verifier: verifier, rawURL: "/socket.io/?token=bad", wantErr: true},
		{name: "no verifier", verifier: nil, rawURL: "/socket.io/?token=good"},
		{name: "basic auth ignored", verifier: verifier, header: http.Header{"Authorization": {"Basic Zm9vOmJhcg=="}}, rawURL: "/socket.io/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			if err != nil {
				t.Fatalf("url.Parse() error = %v", err)
			}
			got, err := identify(tt.verifier, tt.header, u)
			if (err != nil) != tt.wantErr {
				t.Fatalf("identify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errBadToken) {
				t.Errorf("identify() error = %v, want errBadToken", err)
			}
			if got != tt.want {
				t.Errorf("identify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServer_BroadcastWithoutConnections(t *testing.T) {
	s := New(Config{}, &recordingDispatcher{}, zerolog.Nop())
	s.BroadcastToRoom("ROOM0001", gateway.EventItemConsensus, gateway.ItemConsensus{RoomID: "ROOM0001", ItemID: "tt1"})
	if s.RoomConnectionCount("ROOM0001") != 0 {
		t.Errorf("RoomConnectionCount() = %d, want 0", s.RoomConnectionCount("ROOM0001"))
	}
	if s.ConnectionCount() != 0 {
		t.Errorf("ConnectionCount() = %d, want 0", s.ConnectionCount())
	}
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	s := New(Config{}, &recordingDispatcher{}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) && err != nil {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
