// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package gateway is the transport-independent boundary for real-time room
// events. Transports decode frames, hand them to Gateway.Dispatch and
// implement Session and Broadcaster.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/rooms"
)

// Session is one client connection.
type Session interface {
	// ID identifies the connection for logging.
	ID() string

	// User is the identity established when the connection was opened, or "".
	User() string

	// Send delivers an event to this connection only.
	Send(event string, payload any)

	// JoinRoom and LeaveRoom change which room broadcasts reach the connection.
	JoinRoom(roomID string)
	LeaveRoom(roomID string)
}

// Broadcaster delivers an event to every connection subscribed to a room.
type Broadcaster interface {
	BroadcastToRoom(roomID, event string, payload any)
}

// Broadcasters fans one broadcast out to several transports.
type Broadcasters []Broadcaster

// BroadcastToRoom implements Broadcaster.
func (bs Broadcasters) BroadcastToRoom(roomID, event string, payload any) {
	for _, b := range bs {
		b.BroadcastToRoom(roomID, event, payload)
	}
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// Rooms is the registry surface the gateway drives. *rooms.Registry satisfies it.
type Rooms interface {
	Attach(id, user string) (snap *rooms.Snapshot, joined bool, err error)
	Leave(id, user string) error
	Start(ctx context.Context, id, user string) (*rooms.Snapshot, error)
	Like(id, user, item string) (bool, error)
}

// Hooks receive gateway events. Every field is optional.
type Hooks struct {
	// OnEvent fires once per dispatched event with result "ok" or an error code.
	OnEvent func(event, result string, d time.Duration)
}

// Config controls identity resolution.
type Config struct {
	// Verifier checks tokens carried in payloads. nil disables token checks.
	Verifier TokenVerifier

	// RequireAuth rejects events whose identity comes only from the payload's user field.
	RequireAuth bool
}

// Gateway dispatches room events to the registry and broadcasts the results.
type Gateway struct {
	rooms       Rooms
	broadcaster Broadcaster
	config      Config
	hooks       Hooks
	logger      zerolog.Logger
}

// New creates a gateway.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(r Rooms, b Broadcaster, cfg Config, logger zerolog.Logger) *Gateway {
	return &Gateway{
		rooms:       r,
		broadcaster: b,
		config:      cfg,
		logger:      logger.With().Str("component", "gateway").Logger(),
	}
}

// SetHooks installs event hooks. Call before serving traffic.
func (g *Gateway) SetHooks(h Hooks) {
	g.hooks = h
}

// errUnauthorized marks identity failures.
var errUnauthorized = errors.New("unauthorized")

// errBadRequest marks undecodable or incomplete payloads.
var errBadRequest = errors.New("bad request")

// Dispatch handles one incoming event. Failures are reported to sess as an
// EventError and never broadcast.
func (g *Gateway) Dispatch(ctx context.Context, sess Session, event string, payload []byte) {
	start := time.Now()

	err := g.dispatch(ctx, sess, event, payload)

	result := "ok"
	if err != nil {
		code := ErrorCode(err)
		result = code
		sess.Send(EventError, ErrorPayload{Event: event, Code: code, Message: err.Error()})

		ev := g.logger.Debug()
		if code == CodeInternal || code == CodeUnavailable {
			ev = g.logger.Warn()
		}
		ev.Err(err).Str("session", sess.ID()).Str("event", event).Str("code", code).Msg("Room event rejected")
	}
	if g.hooks.OnEvent != nil {
		g.hooks.OnEvent(canonical(event), result, time.Since(start))
	}
}

func (g *Gateway) dispatch(ctx context.Context, sess Session, event string, payload []byte) error {
	var req Request
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return fmt.Errorf("%w: %w", errBadRequest, err)
		}
	}
	if req.RoomID == "" {
		return fmt.Errorf("%w: room_id is required", errBadRequest)
	}

	user, err := g.resolveUser(sess, &req)
	if err != nil {
		return err
	}

	switch canonical(event) {
	case EventJoin:
		return g.handleJoin(sess, req.RoomID, user)
	case EventLeave:
		return g.handleLeave(sess, req.RoomID, user)
	case EventStart:
		return g.handleStart(ctx, sess, req.RoomID, user)
	case EventLike:
		return g.handleLike(req.RoomID, user, req.item())
	default:
		return fmt.Errorf("%w: unknown event %q", errBadRequest, event)
	}
}

// canonical maps client aliases to the canonical event name.
func canonical(event string) string {
	switch event {
	case EventStartAlias:
		return EventStart
	case EventLikeAlias:
		return EventLike
	}
	return event
}

// resolveUser picks the caller identity: a payload token, then the
// connection identity, then the payload user when auth is optional.
func (g *Gateway) resolveUser(sess Session, req *Request) (string, error) {
	if tok := req.token(); tok != "" {
		if g.config.Verifier == nil {
			return "", fmt.Errorf("%w: tokens are not accepted", errUnauthorized)
		}
		user, err := g.config.Verifier.VerifyToken(tok)
		if err != nil {
			return "", fmt.Errorf("%w: %w", errUnauthorized, err)
		}
		return user, nil
	}
	if user := sess.User(); user != "" {
		return user, nil
	}
	if !g.config.RequireAuth && req.User != "" {
		return req.User, nil
	}
	return "", fmt.Errorf("%w: no identity", errUnauthorized)
}

// handleJoin subscribes the session to the room. Users who are not yet
// members are added; existing members, including the same user on another
// connection, are simply reattached.
func (g *Gateway) handleJoin(sess Session, roomID, user string) error {
	snap, joined, err := g.rooms.Attach(roomID, user)
	if err != nil {
		return err
	}

	sess.JoinRoom(roomID)
	sess.Send(EventJoined, Joined{
		RoomID:          roomID,
		Members:         snap.Members,
		Active:          snap.Active,
		Recommendations: snap.Recommended,
	})
	if joined {
		g.broadcaster.BroadcastToRoom(roomID, EventMemberJoined, MemberEvent{RoomID: roomID, User: user})
	}
	return nil
}

func (g *Gateway) handleLeave(sess Session, roomID, user string) error {
	if err := g.rooms.Leave(roomID, user); err != nil {
		return err
	}
	sess.LeaveRoom(roomID)
	g.broadcaster.BroadcastToRoom(roomID, EventMemberLeft, MemberEvent{RoomID: roomID, User: user})
	return nil
}

func (g *Gateway) handleStart(ctx context.Context, sess Session, roomID, user string) error {
	snap, err := g.rooms.Start(ctx, roomID, user)
	if err != nil {
		return err
	}
	sess.JoinRoom(roomID)
	g.broadcaster.BroadcastToRoom(roomID, EventRoomStarted, RoomStarted{
		RoomID:          roomID,
		Members:         snap.Members,
		Recommendations: snap.Recommended,
		ColdStart:       snap.ColdStart,
	})
	return nil
}

func (g *Gateway) handleLike(roomID, user, item string) error {
	if item == "" {
		return fmt.Errorf("%w: item_id is required", errBadRequest)
	}
	consensus, err := g.rooms.Like(roomID, user, item)
	if err != nil {
		return err
	}
	if consensus {
		g.broadcaster.BroadcastToRoom(roomID, EventItemConsensus, ItemConsensus{RoomID: roomID, ItemID: item})
	}
	return nil
}

// ErrorCode maps an error to the code sent to clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, errBadRequest):
		return CodeBadRequest
	case errors.Is(err, errUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, rooms.ErrNotFound),
		errors.Is(err, recommend.ErrNotFound),
		errors.Is(err, recommend.ErrCollaboratorUnavailable):
		return CodeNotFound
	case errors.Is(err, rooms.ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, recommend.ErrStaleIndex),
		errors.Is(err, recommend.ErrNotReady):
		return CodeUnavailable
	default:
		return CodeInternal
	}
}
