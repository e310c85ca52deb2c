// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package cache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// Artifact backends.
const (
	BackendBadger = "badger"
	BackendS3     = "s3"
	BackendNone   = "none"
)

// NewArtifactStore builds the configured store. The returned close function
// releases backend resources and is never nil. BackendNone returns a nil
// store, which disables persistence.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewArtifactStore(ctx context.Context, cfg config.ArtifactConfig, logger zerolog.Logger) (recommend.ArtifactStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case BackendBadger:
		db, err := OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, noop, err
		}
		logger.Info().Str("backend", BackendBadger).Str("dir", cfg.BadgerDir).Msg("Artifact store ready")
		return NewBadgerArtifactStore(db, cfg.Key), db.Close, nil

	case BackendS3:
		client, err := NewS3Client(ctx, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, noop, err
		}
		store := NewS3ArtifactStore(client, cfg.S3Bucket, cfg.S3Prefix, cfg.Key)
		logger.Info().Str("backend", BackendS3).Str("bucket", cfg.S3Bucket).Str("key", store.Key()).Msg("Artifact store ready")
		return store, noop, nil

	case BackendNone, "":
		logger.Info().Str("backend", BackendNone).Msg("Artifact persistence disabled")
		return nil, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown artifact backend %q", cfg.Backend)
	}
}
