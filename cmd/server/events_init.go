// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/eventprocessor"
	"github.com/tomtom215/moviematch/internal/gateway"
	"github.com/tomtom215/moviematch/internal/logging"
)

// eventComponents is the event bus plus the embedded NATS server when one runs in-process.
type eventComponents struct {
	bus      *eventprocessor.Bus
	embedded *eventprocessor.EmbeddedServer
	logger   zerolog.Logger
}

// initEvents builds the bus that fans room events out to local transports
// and, with the nats backend, to other instances.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initEvents(_ context.Context, cfg *config.EventsConfig, local gateway.Broadcaster, logger zerolog.Logger) (*eventComponents, error) {
	busCfg := eventprocessor.FromConfig(cfg)
	ec := &eventComponents{logger: logger}

	if busCfg.Backend == eventprocessor.BackendNATS && cfg.EmbeddedServer {
		serverCfg := eventprocessor.ServerConfigFrom(cfg)
		embedded, err := eventprocessor.NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		ec.embedded = embedded
		busCfg.URL = embedded.ClientURL()
		logger.Info().Str("url", busCfg.URL).Msg("Embedded NATS server started")
	}

	wmLogger := logging.NewWatermillLoggerWith(logger.With().Str("component", "watermill").Logger())
	pub, sub, err := eventprocessor.NewPubSub(&busCfg, wmLogger)
	if err != nil {
		ec.shutdownEmbedded()
		return nil, fmt.Errorf("create event pub/sub: %w", err)
	}

	bus, err := eventprocessor.NewBus(pub, sub, local, busCfg, logger)
	if err != nil {
		ec.shutdownEmbedded()
		return nil, err
	}
	ec.bus = bus
	return ec, nil
}

func (ec *eventComponents) close() {
	if ec.bus != nil {
		if err := ec.bus.Close(); err != nil {
			ec.logger.Warn().Err(err).Msg("Error closing event bus")
		}
	}
	ec.shutdownEmbedded()
}

func (ec *eventComponents) shutdownEmbedded() {
	if ec.embedded == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ec.embedded.Shutdown(ctx); err != nil {
		ec.logger.Warn().Err(err).Msg("Embedded NATS server did not stop in time")
	}
	ec.embedded = nil
}
