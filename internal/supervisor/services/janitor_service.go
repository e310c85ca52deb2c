// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// JanitorService runs cleanup on a fixed interval. cleanup reports how many
// entries it removed.
type JanitorService struct {
	name     string
	interval time.Duration
	cleanup  func() int
	logger   zerolog.Logger
}

// NewJanitorService creates a janitor. interval defaults to one minute.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewJanitorService(name string, interval time.Duration, cleanup func() int, logger zerolog.Logger) *JanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &JanitorService{
		name:     name,
		interval: interval,
		cleanup:  cleanup,
		logger:   logger.With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.cleanup(); n > 0 {
				s.logger.Debug().Int("removed", n).Msg("Expired entries removed")
			}
		}
	}
}

// String implements fmt.Stringer.
func (s *JanitorService) String() string {
	return s.name
}
