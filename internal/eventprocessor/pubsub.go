// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package eventprocessor

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
)

// NewPubSub creates the publisher and subscriber for cfg.Backend.
func NewPubSub(cfg *Config, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	switch cfg.Backend {
	case BackendMemory:
		ch := NewMemoryPubSub(logger)
		return ch, ch, nil
	case BackendNATS:
		return NewNATSPubSub(cfg, logger)
	default:
		return nil, nil, fmt.Errorf("unknown event backend %q", cfg.Backend)
	}
}

// NewMemoryPubSub creates an in-process Watermill pub/sub.
func NewMemoryPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
}

// natsOptions returns connection options with reconnection logging.
func natsOptions(cfg *Config, logger watermill.LoggerAdapter, role string) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name("moviematch-" + role),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, watermill.LogFields{"role": role})
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"role": role,
				"url":  nc.ConnectedUrl(),
			})
		}),
	}
}

// NewNATSPubSub creates a core NATS publisher and subscriber. The subscriber
// uses no queue group so that every instance receives every event.
func NewNATSPubSub(cfg *Config, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOptions(cfg, logger, "publisher"),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		SubscribersCount: 1,
		NatsOptions:      natsOptions(cfg, logger, "subscriber"),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close() //nolint:errcheck // best-effort cleanup
		return nil, nil, fmt.Errorf("create watermill subscriber: %w", err)
	}
	return pub, sub, nil
}
