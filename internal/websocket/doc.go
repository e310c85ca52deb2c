// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package websocket carries room events over plain WebSocket connections.

It uses gorilla/websocket with a hub-client architecture. The hub tracks
which clients are attached to which room and implements gateway.Broadcaster.
Each client implements gateway.Session and forwards decoded frames to a
Dispatcher (the gateway).

Architecture:

	             ┌──────────┐
	  frames --> │ Client   │ --Dispatch--> gateway --> rooms.Registry
	             └────┬─────┘                  │
	                  │ JoinRoom/LeaveRoom     │ BroadcastToRoom
	             ┌────┴─────┐ <────────────────┘
	             │   Hub    │ --> every client attached to the room
	             └──────────┘

Frames:

Both directions use {"type": "...", "data": {...}}. Incoming types are the
gateway events (join, leave, start, like and their client aliases) plus
ping, which is answered with pong by the client itself.

	{"type": "join",  "data": {"room_id": "K3X9QZ2A"}}
	{"type": "like",  "data": {"room_id": "K3X9QZ2A", "item_id": "tt0111161"}}
	{"type": "item-consensus", "data": {"room_id": "K3X9QZ2A", "item_id": "tt0111161"}}

Flow Control:

Each client has a token-bucket limiter (golang.org/x/time/rate). Frames over
the limit are answered with an error event and dropped. A client whose send
buffer is full during a broadcast is disconnected.

Connection Lifecycle:

 1. The API upgrades the request and creates a Client with the caller's identity
 2. The hub registers the client
 3. The client starts its read and write goroutines
 4. Room broadcasts reach the client while it is attached to the room
 5. On disconnect the hub unregisters the client and detaches it from every room

Timeouts:

  - writeWait: 10 seconds
  - pongWait: 60 seconds
  - pingPeriod: 54 seconds (must be < pongWait)
  - maxMessageSize: 64 KB
*/
package websocket
