// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package socketio serves room events over Socket.IO for clients that speak
// that protocol. It shares the gateway with the plain WebSocket transport and
// also emits events under the names those clients listen for.
package socketio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/moviematch/internal/auth"
	"github.com/tomtom215/moviematch/internal/gateway"
)

const namespace = "/"

// Dispatcher handles decoded room events. *gateway.Gateway satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, sess gateway.Session, event string, payload []byte)
}

// Config controls identity and flow control for Socket.IO connections.
type Config struct {
	// Verifier resolves a connect-time token. nil accepts every connection anonymously.
	Verifier gateway.TokenVerifier

	// MessagesPerSecond and Burst bound incoming events per connection.
	MessagesPerSecond float64
	Burst             int
}

// aliases lists the extra names an outgoing event is emitted under.
var aliases = map[string]string{
	gateway.EventRoomStarted:   gateway.EventRoomStartedAlias,
	gateway.EventItemConsensus: gateway.EventItemConsensusAlias,
}

// incoming lists every event name forwarded to the dispatcher.
var incoming = []string{
	gateway.EventJoin,
	gateway.EventLeave,
	gateway.EventStart,
	gateway.EventLike,
	gateway.EventStartAlias,
	gateway.EventLikeAlias,
}

var errBadToken = errors.New("invalid token")

// Server wraps a Socket.IO server. It implements gateway.Broadcaster and
// http.Handler.
type Server struct {
	io         *socketio.Server
	dispatcher Dispatcher
	config     Config
	logger     zerolog.Logger

	ctxMu sync.RWMutex
	ctx   context.Context

	connections atomic.Int64

	// OnConnectionsChanged receives the connection count after every change.
	OnConnectionsChanged func(n int)
}

// New creates a Socket.IO server that forwards room events to d.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, d Dispatcher, logger zerolog.Logger) *Server {
	s := &Server{
		io:         socketio.NewServer(nil),
		dispatcher: d,
		config:     cfg,
		logger:     logger.With().Str("component", "socketio").Logger(),
		ctx:        context.Background(),
	}

	s.io.OnConnect(namespace, s.onConnect)
	s.io.OnDisconnect(namespace, s.onDisconnect)
	s.io.OnError(namespace, func(conn socketio.Conn, err error) {
		id := ""
		if conn != nil {
			id = conn.ID()
		}
		s.logger.Debug().Err(err).Str("conn_id", id).Msg("Socket.IO error")
	})
	for _, event := range incoming {
		event := event
		s.io.OnEvent(namespace, event, func(conn socketio.Conn, msg map[string]interface{}) {
			s.handleEvent(conn, event, msg)
		})
	}
	return s
}

// SetDispatcher replaces the event dispatcher. Call before serving traffic.
func (s *Server) SetDispatcher(d Dispatcher) {
	s.dispatcher = d
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.io.ServeHTTP(w, r)
}

// Serve runs the engine until ctx is canceled. ctx is also passed to the
// dispatcher for every event.
func (s *Server) Serve(ctx context.Context) error {
	s.ctxMu.Lock()
	s.ctx = ctx
	s.ctxMu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.io.Serve()
	}()

	select {
	case <-ctx.Done():
		if err := s.io.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Socket.IO close failed")
		}
		s.logger.Info().Int64("connections", s.connections.Load()).Msg("Socket.IO server stopped")
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("socket.io serve: %w", err)
		}
		return nil
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *Server) String() string {
	return "socketio-server"
}

func (s *Server) baseContext() context.Context {
	s.ctxMu.RLock()
	defer s.ctxMu.RUnlock()
	return s.ctx
}

// BroadcastToRoom implements gateway.Broadcaster. Events with a client alias
// are emitted under both names.
func (s *Server) BroadcastToRoom(roomID, event string, payload any) {
	s.io.BroadcastToRoom(namespace, roomID, event, payload)
	if alias, ok := aliases[event]; ok {
		s.io.BroadcastToRoom(namespace, roomID, alias, payload)
	}
}

// ConnectionCount returns the number of open Socket.IO connections.
func (s *Server) ConnectionCount() int {
	return int(s.connections.Load())
}

// RoomConnectionCount returns the number of connections joined to roomID.
func (s *Server) RoomConnectionCount(roomID string) int {
	return s.io.RoomLen(namespace, roomID)
}

func (s *Server) onConnect(conn socketio.Conn) error {
	u := conn.URL()
	user, err := identify(s.config.Verifier, conn.RemoteHeader(), &u)
	if err != nil {
		s.logger.Debug().Err(err).Str("conn_id", conn.ID()).Msg("Socket.IO connection rejected")
		return err
	}
	conn.SetContext(newSession(conn, user, s.config))

	n := s.connections.Add(1)
	s.logger.Info().Str("conn_id", conn.ID()).Str("user_id", user).Int64("total_connections", n).Msg("Socket.IO client connected")
	s.connectionsChanged(int(n))
	return nil
}

func (s *Server) onDisconnect(conn socketio.Conn, reason string) {
	// Connections rejected in onConnect never got a session.
	sess, ok := conn.Context().(*session)
	if !ok {
		return
	}
	n := s.connections.Add(-1)
	s.logger.Info().Str("conn_id", conn.ID()).Str("reason", reason).Strs("rooms", sess.joined()).Int64("total_connections", n).Msg("Socket.IO client disconnected")
	s.connectionsChanged(int(n))
}

func (s *Server) connectionsChanged(n int) {
	if s.OnConnectionsChanged != nil {
		s.OnConnectionsChanged(n)
	}
}

func (s *Server) handleEvent(conn socketio.Conn, event string, msg map[string]interface{}) {
	sess, ok := conn.Context().(*session)
	if !ok {
		return
	}
	s.dispatch(sess, event, msg)
}

// dispatch re-encodes the decoded event arguments and hands them to the dispatcher.
func (s *Server) dispatch(sess *session, event string, msg map[string]interface{}) {
	if !sess.limiter.Allow() {
		sess.Send(gateway.EventError, gateway.ErrorPayload{Event: event, Code: gateway.CodeRateLimited, Message: "too many messages"})
		return
	}
	if msg == nil {
		msg = map[string]interface{}{}
	}
	// A bare "leave" refers to the only room the connection is in.
	if _, ok := msg["room_id"]; !ok {
		if room := sess.soleRoom(); room != "" {
			msg["room_id"] = room
		}
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		sess.Send(gateway.EventError, gateway.ErrorPayload{Event: event, Code: gateway.CodeBadRequest, Message: "malformed payload"})
		return
	}
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Dispatch(s.baseContext(), sess, event, payload)
}

// identify resolves the connection's user from an Authorization bearer token
// or a token/jwt query parameter. Connections without a token are anonymous;
// their events must then carry a token or a user field.
func identify(verifier gateway.TokenVerifier, header http.Header, u *url.URL) (string, error) {
	var token string
	if header != nil {
		token, _ = auth.BearerToken(header.Get("Authorization"))
	}
	if token == "" && u != nil {
		q := u.Query()
		token = q.Get("token")
		if token == "" {
			token = q.Get("jwt")
		}
	}
	if token == "" || verifier == nil {
		return "", nil
	}
	user, err := verifier.VerifyToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errBadToken, err)
	}
	return user, nil
}

// newLimiter mirrors the WebSocket client's token bucket.
func newLimiter(cfg Config) *rate.Limiter {
	limit := rate.Inf
	if cfg.MessagesPerSecond > 0 {
		limit = rate.Limit(cfg.MessagesPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}
