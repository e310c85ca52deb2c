// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/cache"
	"github.com/tomtom215/moviematch/internal/catalog"
	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/database"
	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/recommend"
)

type recommendComponents struct {
	engine         *recommend.Engine
	catalog        *catalog.Guarded
	closeArtifacts func() error
}

// recommendConfig maps application settings onto engine settings.
func recommendConfig(cfg *config.RecommendConfig) *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.PageSize = cfg.PageSize
	rc.Workers = cfg.Workers
	rc.Alpha = cfg.Alpha
	rc.Beta = cfg.Beta
	rc.DedupSlack = cfg.DedupSlack
	rc.DefaultK = cfg.DefaultK
	rc.MaxK = cfg.MaxK
	return rc
}

// initRecommend wires the breaker-guarded catalog, the artifact store and the engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initRecommend(ctx context.Context, cfg *config.Config, db *database.DB, logger zerolog.Logger) (*recommendComponents, error) {
	settings := catalog.DefaultSettings()
	if cfg.Recommend.BreakerTimeout > 0 {
		settings.Timeout = cfg.Recommend.BreakerTimeout
	}
	if cfg.Recommend.ItemCacheSize > 0 {
		settings.CacheSize = cfg.Recommend.ItemCacheSize
	}
	if cfg.Recommend.ItemCacheTTL > 0 {
		settings.CacheTTL = cfg.Recommend.ItemCacheTTL
	}
	guarded := catalog.NewGuarded(db, db, settings, logger)

	artifacts, closeArtifacts, err := cache.NewArtifactStore(ctx, cfg.Artifact, logger)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}

	engine, err := recommend.NewEngine(recommendConfig(&cfg.Recommend), guarded, guarded, artifacts, logger)
	if err != nil {
		_ = closeArtifacts() //nolint:errcheck // startup already failed
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	engine.SetHooks(recommend.Hooks{
		OnRecommend: metrics.RecordRecommendation,
		OnRefresh:   metrics.RecordFeatureRefresh,
		OnStale:     metrics.RecordStaleIndex,
	})

	return &recommendComponents{
		engine:         engine,
		catalog:        guarded,
		closeArtifacts: closeArtifacts,
	}, nil
}
