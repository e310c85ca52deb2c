// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moviematch/internal/gateway"
	"github.com/tomtom215/moviematch/internal/metrics"
)

// ErrSubscriptionClosed is returned by Serve when the subscriber stops
// delivering while the context is still live.
var ErrSubscriptionClosed = errors.New("event subscription closed")

// Bus is a gateway.Broadcaster that delivers locally and republishes to
// other instances.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	local      gateway.Broadcaster
	breaker    *gobreaker.CircuitBreaker[interface{}]
	config     Config
	logger     zerolog.Logger

	closeOnce sync.Once
}

// NewBus creates a bus. local receives every event for this instance's
// connections.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(pub message.Publisher, sub message.Subscriber, local gateway.Broadcaster, cfg Config, logger zerolog.Logger) (*Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event bus config: %w", err)
	}
	if pub == nil || sub == nil {
		return nil, fmt.Errorf("publisher and subscriber are required")
	}
	if local == nil {
		return nil, fmt.Errorf("local broadcaster is required")
	}
	return &Bus{
		publisher:  pub,
		subscriber: sub,
		local:      local,
		breaker:    NewCircuitBreaker(cfg.Breaker),
		config:     cfg,
		logger:     logger.With().Str("component", "event-bus").Str("instance", cfg.InstanceID).Logger(),
	}, nil
}

// BroadcastToRoom implements gateway.Broadcaster.
func (b *Bus) BroadcastToRoom(roomID, event string, payload any) {
	b.local.BroadcastToRoom(roomID, event, payload)

	if err := b.publish(roomID, event, payload); err != nil {
		b.logger.Warn().Err(err).Str("room_id", roomID).Str("event", event).Msg("Failed to publish room event")
	}
}

func (b *Bus) publish(roomID, event string, payload any) error {
	ev, err := NewRoomEvent(b.config.InstanceID, roomID, event, payload)
	if err != nil {
		return err
	}
	data, err := SerializeEvent(ev)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(ev.EventID, data)
	msg.Metadata.Set("room_id", roomID)
	msg.Metadata.Set("event", event)
	msg.Metadata.Set("origin", b.config.InstanceID)

	_, err = b.breaker.Execute(func() (interface{}, error) {
		return nil, b.publisher.Publish(b.config.Topic, msg)
	})
	metrics.RecordEventPublish(err)
	return err
}

// Serve subscribes to the topic and delivers events from other instances
// until ctx is canceled.
func (b *Bus) Serve(ctx context.Context) error {
	msgs, err := b.subscriber.Subscribe(ctx, b.config.Topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", b.config.Topic, err)
	}
	b.logger.Info().Str("topic", b.config.Topic).Str("backend", b.config.Backend).Msg("Event bus subscribed")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			b.handle(msg)
		}
	}
}

// handle delivers one message. Messages are always acked: a bad or
// self-originated event would only fail again on redelivery.
func (b *Bus) handle(msg *message.Message) {
	defer msg.Ack()

	ev, err := DeserializeEvent(msg.Payload)
	if err != nil {
		metrics.EventsDropped.WithLabelValues("decode").Inc()
		b.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping undecodable room event")
		return
	}
	if ev.Origin == b.config.InstanceID {
		metrics.EventsDropped.WithLabelValues("self").Inc()
		return
	}

	b.local.BroadcastToRoom(ev.RoomID, ev.Event, ev.Payload)
	metrics.EventsDelivered.Inc()
	b.logger.Debug().Str("room_id", ev.RoomID).Str("event", ev.Event).Str("origin", ev.Origin).Msg("Delivered remote room event")
}

// String implements fmt.Stringer for suture logging.
func (b *Bus) String() string {
	return "event-bus"
}

// BreakerState returns the publish circuit breaker state.
func (b *Bus) BreakerState() string {
	return CircuitBreakerState(b.breaker)
}

// Close closes the publisher and subscriber.
func (b *Bus) Close() error {
	var errs []error
	b.closeOnce.Do(func() {
		if err := b.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
		// The memory backend uses one value for both roles.
		if any(b.subscriber) != any(b.publisher) {
			if err := b.subscriber.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close subscriber: %w", err))
			}
		}
	})
	return errors.Join(errs...)
}
