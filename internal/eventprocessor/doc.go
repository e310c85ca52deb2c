// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package eventprocessor fans room events out across server instances.

A room lives in one instance's registry, but its members may be connected to
any instance behind the load balancer. Bus implements gateway.Broadcaster:
every broadcast is delivered to the local transports immediately and is also
published to a Watermill topic. Each instance runs the bus subscriber, which
hands events published by other instances to its own local transports.

# Backends

  - memory: Watermill gochannel. Single instance; the bus only loops back.
  - nats: watermill-nats over core NATS (no JetStream). Every instance
    subscribes without a queue group, so every instance sees every event.

An EmbeddedServer runs nats-server in-process for single-host deployments
that still want the NATS code path.

# Message Format

Payloads are JSON (goccy/go-json):

	{
	  "event_id": "6f1c...",
	  "origin": "b1d2...",
	  "room_id": "K3X9QZ2A",
	  "event": "item-consensus",
	  "payload": {"room_id": "K3X9QZ2A", "item_id": "tt0111161"},
	  "timestamp": "2026-03-01T12:00:00Z"
	}

Events whose origin is the receiving instance are skipped, since they were
already delivered locally.

# Resilience

Publishing goes through a sony/gobreaker circuit breaker. While it is open,
broadcasts still reach local connections and the publish is dropped with a
warning.
*/
package eventprocessor
