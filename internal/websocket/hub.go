// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviematch/internal/gateway"
	"github.com/tomtom215/moviematch/internal/logging"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Frame types handled by the transport itself.
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// Message is an outgoing frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// inbound is an incoming frame. Data is passed to the dispatcher undecoded.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Dispatcher handles decoded room events. *gateway.Gateway satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, sess gateway.Session, event string, payload []byte)
}

// Config controls per-client flow control.
type Config struct {
	// MessagesPerSecond is the sustained incoming frame rate per client.
	MessagesPerSecond float64

	// Burst is the number of frames a client may send at once.
	Burst int

	// SendBuffer is the outgoing queue length per client.
	SendBuffer int

	// BroadcastTimeout bounds how long BroadcastToRoom waits for room on a
	// full broadcast queue.
	BroadcastTimeout time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MessagesPerSecond: 10,
		Burst:             20,
		SendBuffer:        256,
		BroadcastTimeout:  time.Second,
	}
}

type roomMessage struct {
	room string
	msg  Message
}

// Hub maintains the set of active clients and their room attachments.
type Hub struct {
	clients   map[*Client]bool
	rooms     map[string]map[*Client]bool
	broadcast chan roomMessage
	mu        sync.RWMutex

	config     Config
	dispatcher Dispatcher

	// OnConnectionsChanged receives the client count after every change.
	OnConnectionsChanged func(n int)

	// OnBroadcastDropped receives the event name of every room broadcast
	// dropped on a full queue.
	OnBroadcastDropped func(event string)
}

// NewHub creates a new Hub. SetDispatcher must be called before clients connect.
func NewHub(cfg Config) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = DefaultConfig().SendBuffer
	}
	if cfg.BroadcastTimeout <= 0 {
		cfg.BroadcastTimeout = DefaultConfig().BroadcastTimeout
	}
	return &Hub{
		broadcast: make(chan roomMessage, 256),
		clients:   make(map[*Client]bool),
		rooms:     make(map[string]map[*Client]bool),
		config:    cfg,
	}
}

// SetDispatcher installs the event dispatcher.
func (h *Hub) SetDispatcher(d Dispatcher) {
	h.dispatcher = d
}

// RunWithContext delivers room broadcasts until ctx is canceled, then closes
// every client. Pending shutdown takes priority over queued broadcasts.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case m := <-h.broadcast:
			h.broadcastToRoom(m)
		}
	}
}

// Register adds a client. Clients register synchronously so that a room join
// in the first frame always finds them.
func (h *Hub) Register(client *Client) {
	h.register(client)
}

// Unregister removes a client and detaches it from every room.
func (h *Hub) Unregister(client *Client) {
	h.unregister(client)
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()

	logging.Info().Uint64("client_id", client.id).Str("user_id", client.user).Int("total_clients", n).Msg("websocket client connected")
	h.connectionsChanged(n)
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		h.removeLocked(client)
	}
	n := len(h.clients)
	h.mu.Unlock()

	logging.Info().Uint64("client_id", client.id).Int("total_clients", n).Msg("websocket client disconnected")
	h.connectionsChanged(n)
}

// removeLocked detaches client from every room and closes its queue. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	for room := range client.rooms {
		if members := h.rooms[room]; members != nil {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	client.rooms = nil
	delete(h.clients, client)
	if !client.closed {
		client.closed = true
		close(client.send)
	}
}

func (h *Hub) connectionsChanged(n int) {
	if h.OnConnectionsChanged != nil {
		h.OnConnectionsChanged(n)
	}
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	reason := getShutdownReason(ctx)
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(reason)).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// joinRoom attaches client to room. Closed clients are ignored.
func (h *Hub) joinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client.closed {
		return
	}
	members := h.rooms[room]
	if members == nil {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[client] = true
	if client.rooms == nil {
		client.rooms = make(map[string]bool)
	}
	client.rooms[room] = true
}

func (h *Hub) leaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members := h.rooms[room]; members != nil {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// sendTo queues msg for one client. It reports false if the client is gone or its queue is full.
func (h *Hub) sendTo(client *Client, msg Message) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if client.closed {
		return false
	}
	select {
	case client.send <- msg:
		return true
	default:
		return false
	}
}

// broadcastToRoom delivers to room members in client ID order. Clients whose
// queue is full are disconnected.
func (h *Hub) broadcastToRoom(m roomMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.rooms[m.room]
	clients := make([]*Client, 0, len(members))
	for client := range members {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- m.msg:
		default:
			toRemove = append(toRemove, client)
		}
	}
	for _, client := range toRemove {
		logging.Warn().Uint64("client_id", client.id).Str("room_id", m.room).Msg("websocket client too slow, disconnecting")
		h.removeLocked(client)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		h.removeLocked(client)
	}
	logging.Info().Msg("closed all websocket clients during shutdown")
}

// BroadcastToRoom queues an event for every client attached to roomID.
// It implements gateway.Broadcaster. When the queue is full it waits up to
// Config.BroadcastTimeout before dropping the event.
func (h *Hub) BroadcastToRoom(roomID, event string, payload any) {
	m := roomMessage{room: roomID, msg: Message{Type: event, Data: payload}}
	select {
	case h.broadcast <- m:
		return
	default:
	}

	timer := time.NewTimer(h.config.BroadcastTimeout)
	defer timer.Stop()
	select {
	case h.broadcast <- m:
	case <-timer.C:
		logging.Warn().Str("room_id", roomID).Str("message_type", event).Msg("broadcast channel full, dropping room message")
		if h.OnBroadcastDropped != nil {
			h.OnBroadcastDropped(event)
		}
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomClientCount returns the number of clients attached to roomID.
func (h *Hub) RoomClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
