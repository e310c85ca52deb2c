// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package cache provides the in-process LRU used in front of catalog lookups and
the artifact stores that persist the serialized feature set between restarts.

Artifact stores implement recommend.ArtifactStore:

  - BadgerArtifactStore keeps the blob in a local BadgerDB under one key
  - S3ArtifactStore keeps it in an S3 (or S3-compatible) bucket so that
    several instances share one build
  - NewArtifactStore selects a backend from configuration; "none" returns nil,
    which disables persistence

Example:

	store, closer, err := cache.NewArtifactStore(ctx, cfg.Artifact, logger)
	if err != nil {
		return err
	}
	defer closer()
	engine, err := recommend.NewEngine(recCfg, catalog, prefs, store, logger)

LRU:

LRU is generic over the value type. Expiry is lazy: expired entries are
dropped on access or by CleanupExpired.

	items := cache.NewLRU[recommend.Item](10000, 10*time.Minute)
	items.Add(item.ID, item)
	if it, ok := items.Get(id); ok {
		// use it
	}
*/
package cache
