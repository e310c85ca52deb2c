// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// Rating bounds accepted by UpsertRating.
const (
	MinRating = 1
	MaxRating = 10
)

// upsertRetries bounds retries on DuckDB transaction conflicts.
const upsertRetries = 3

// Preference is one stored rating.
type Preference struct {
	ItemID    string    `json:"item_id"`
	Rating    int       `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListPreferences returns the user's ratings, most recent first.
func (db *DB) ListPreferences(ctx context.Context, userID string) ([]Preference, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT item_id, rating, updated_at FROM preferences WHERE user_id = ? ORDER BY updated_at DESC, item_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.ItemID, &p.Rating, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return prefs, nil
}

// RatingsFor implements recommend.Preferences. Ratings come back in item id
// order so that profile construction is deterministic.
func (db *DB) RatingsFor(ctx context.Context, userID string) ([]recommend.Rating, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT item_id, rating FROM preferences WHERE user_id = ? ORDER BY item_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []recommend.Rating
	for rows.Next() {
		var (
			r      recommend.Rating
			rating int
		)
		if err := rows.Scan(&r.ItemID, &rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		r.Rating = float64(rating)
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// UpsertRating records or replaces a rating. Ratings outside MinRating..MaxRating are rejected.
func (db *DB) UpsertRating(ctx context.Context, userID, itemID string, rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating %d outside %d..%d", rating, MinRating, MaxRating)
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var err error
	for attempt := 0; attempt < upsertRetries; attempt++ {
		_, err = db.conn.ExecContext(ctx, `
			INSERT INTO preferences (user_id, item_id, rating, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, item_id) DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at`,
			userID, itemID, rating, db.now().UTC())
		if err == nil || !isTransactionConflict(err) {
			break
		}
		logging.Debug().Int("attempt", attempt+1).Str("user_id", userID).Msg("Retrying preference upsert after conflict")
	}
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// DeleteRating removes a rating. Deleting a missing rating wraps recommend.ErrNotFound.
func (db *DB) DeleteRating(ctx context.Context, userID, itemID string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM preferences WHERE user_id = ? AND item_id = ?`, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("preference %q: %w", itemID, recommend.ErrNotFound)
	}
	return nil
}
