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

// FeatureEngine is the index lifecycle surface of *recommend.Engine.
type FeatureEngine interface {
	// Refresh publishes an index, loading a persisted feature set when one exists.
	Refresh(ctx context.Context) error

	// Reload rebuilds the feature set from the catalog.
	Reload(ctx context.Context) error

	// StaleSignal fires when a request finds the index inconsistent.
	StaleSignal() <-chan struct{}

	Ready() bool
}

// RefreshServiceConfig controls when the index is rebuilt.
type RefreshServiceConfig struct {
	// BuildOnStartup rebuilds from the catalog instead of loading the persisted set.
	BuildOnStartup bool

	// Interval between scheduled reloads. 0 disables them.
	Interval time.Duration

	// RetryInterval is how often startup is retried while no index is published.
	// Default: 30s
	RetryInterval time.Duration

	// Timeout bounds one build.
	// Default: 30m
	Timeout time.Duration

	// AfterReload runs after every successful reload.
	AfterReload func()
}

// RefreshService keeps the recommendation index published and current.
type RefreshService struct {
	engine FeatureEngine
	config RefreshServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRefreshService creates the refresh loop for engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRefreshService(engine FeatureEngine, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &RefreshService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "feature-refresh").Logger(),
		name:   "feature-refresh",
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("build_on_startup", s.config.BuildOnStartup).
		Dur("interval", s.config.Interval).
		Msg("Feature refresh service starting")

	s.startup(ctx)

	var tick <-chan time.Time
	if s.config.Interval > 0 {
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	retry := time.NewTicker(s.config.RetryInterval)
	defer retry.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Feature refresh service shutting down")
			return ctx.Err()

		case <-retry.C:
			if !s.engine.Ready() {
				s.startup(ctx)
			}

		case <-tick:
			s.reload(ctx, "scheduled")

		case <-s.engine.StaleSignal():
			s.reload(ctx, "stale_index")
		}
	}
}

// startup publishes the first index. Failures are retried by Serve.
func (s *RefreshService) startup(ctx context.Context) {
	if s.config.BuildOnStartup {
		s.reload(ctx, "startup")
		return
	}

	buildCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.engine.Refresh(buildCtx); err != nil {
		s.logger.Warn().Err(err).Dur("retry_in", s.config.RetryInterval).Msg("Initial feature build failed")
		return
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("Recommendation index ready")
}

func (s *RefreshService) reload(ctx context.Context, reason string) {
	buildCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.engine.Reload(buildCtx); err != nil {
		s.logger.Warn().Err(err).Str("reason", reason).Msg("Feature reload failed")
		return
	}
	s.logger.Info().Str("reason", reason).Dur("duration", time.Since(start)).Msg("Features reloaded")

	if s.config.AfterReload != nil {
		s.config.AfterReload()
	}
}

// String implements fmt.Stringer.
func (s *RefreshService) String() string {
	return s.name
}
