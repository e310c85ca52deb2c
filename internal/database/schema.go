// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext bounds schema DDL.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the catalog and preference tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	tables := []struct {
		name string
		ddl  string
	}{
		{
			name: "media",
			ddl: `CREATE TABLE IF NOT EXISTS media (
				id TEXT PRIMARY KEY,
				title_type TEXT NOT NULL DEFAULT 'movie',
				primary_title TEXT NOT NULL,
				original_title TEXT,
				is_adult BOOLEAN NOT NULL DEFAULT FALSE,
				start_year INTEGER,
				end_year INTEGER,
				runtime_minutes INTEGER,
				genres TEXT NOT NULL DEFAULT '',
				num_votes BIGINT NOT NULL DEFAULT 0,
				average_rating DOUBLE
			)`,
		},
		{
			name: "preferences",
			ddl: `CREATE TABLE IF NOT EXISTS preferences (
				user_id TEXT NOT NULL,
				item_id TEXT NOT NULL,
				rating INTEGER NOT NULL,
				updated_at TIMESTAMP NOT NULL,
				PRIMARY KEY (user_id, item_id)
			)`,
		},
	}

	for _, t := range tables {
		if _, err := db.conn.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}
	return nil
}

// createIndexes creates secondary indexes. The media table has none: DuckDB's
// INSERT OR REPLACE does not rewrite indexed columns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_preferences_user ON preferences(user_id)`,
	}
	for _, ddl := range indexes {
		if _, err := db.conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
