// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package websocket

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/moviematch/internal/gateway"
	"github.com/tomtom215/moviematch/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// clientIDCounter gives clients a stable broadcast order.
var clientIDCounter atomic.Uint64

// Client is a middleman between the websocket connection and the hub.
// It implements gateway.Session.
type Client struct {
	id      uint64
	user    string
	hub     *Hub
	conn    *websocket.Conn
	send    chan Message
	limiter *rate.Limiter

	// rooms and closed are guarded by hub.mu.
	rooms  map[string]bool
	closed bool
}

// NewClient creates a client for conn. user is the identity established at
// upgrade time and may be empty.
func NewClient(hub *Hub, conn *websocket.Conn, user string) *Client {
	limit := rate.Inf
	if hub.config.MessagesPerSecond > 0 {
		limit = rate.Limit(hub.config.MessagesPerSecond)
	}
	burst := hub.config.Burst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		id:      clientIDCounter.Add(1),
		user:    user,
		hub:     hub,
		conn:    conn,
		send:    make(chan Message, hub.config.SendBuffer),
		limiter: rate.NewLimiter(limit, burst),
	}
}

// ID implements gateway.Session.
func (c *Client) ID() string {
	return "ws-" + strconv.FormatUint(c.id, 10)
}

// User implements gateway.Session.
func (c *Client) User() string {
	return c.user
}

// Send implements gateway.Session. Messages to a full queue are dropped.
func (c *Client) Send(event string, payload any) {
	if !c.hub.sendTo(c, Message{Type: event, Data: payload}) {
		logging.Debug().Uint64("client_id", c.id).Str("message_type", event).Msg("dropping message for closed or slow client")
	}
}

// JoinRoom implements gateway.Session.
func (c *Client) JoinRoom(roomID string) {
	c.hub.joinRoom(c, roomID)
}

// LeaveRoom implements gateway.Session.
func (c *Client) LeaveRoom(roomID string) {
	c.hub.leaveRoom(c, roomID)
}

// readPump reads frames and hands room events to the dispatcher.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close() //nolint:errcheck // best-effort cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("unexpected websocket close error")
			}
			return
		}

		var frame inbound
		if err := json.Unmarshal(data, &frame); err != nil {
			c.Send(gateway.EventError, gateway.ErrorPayload{Code: gateway.CodeBadRequest, Message: "malformed frame"})
			continue
		}
		if frame.Type == MessageTypePing {
			c.Send(MessageTypePong, nil)
			continue
		}
		if !c.limiter.Allow() {
			c.Send(gateway.EventError, gateway.ErrorPayload{Event: frame.Type, Code: gateway.CodeRateLimited, Message: "too many messages"})
			continue
		}
		if c.hub.dispatcher == nil {
			continue
		}
		c.hub.dispatcher.Dispatch(ctx, c, frame.Type, frame.Data)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() //nolint:errcheck // best-effort cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck // peer may be gone
				return
			}

			data, err := MarshalMessage(message)
			if err != nil {
				logging.Error().Err(err).Str("message_type", message.Type).Msg("failed to encode message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.Error().Err(err).Msg("failed to write message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client. ctx is passed to the
// dispatcher for every event.
func (c *Client) Start(ctx context.Context) {
	go c.writePump()
	go c.readPump(ctx)
}
