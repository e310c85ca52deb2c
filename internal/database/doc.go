// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package database stores the media catalog and user preferences in DuckDB.
//
// # Overview
//
// DB implements both collaborators the recommendation engine reads from:
// recommend.Catalog (paged items, lookups, distinct categories, popularity
// order) and recommend.Preferences (explicit ratings per user). It also
// provides the write side used by the HTTP API (rating upserts and deletes)
// and bulk loading from IMDb TSV dumps.
//
// # Architecture
//
//   - database.go: connection lifecycle and initialization
//   - connection.go: pool configuration and close helpers
//   - schema.go: table and index creation
//   - migrations.go: versioned schema migrations
//   - catalog.go: read-only catalog queries
//   - preferences.go: rating reads and writes
//   - import.go: IMDb title.basics / title.ratings loading via read_csv
//   - seed.go: a small demo catalog for development
//
// # Categories
//
// Genres are stored as a comma-separated string, the format IMDb ships.
// DistinctCategories splits them in SQL with string_split and unnest.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	engine, err := recommend.NewEngine(recCfg, db, db, artifacts, logger)
package database
