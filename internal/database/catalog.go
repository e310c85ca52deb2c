// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/moviematch/internal/recommend"
)

const mediaColumns = `id, title_type, primary_title, COALESCE(original_title, ''), is_adult,
	start_year, end_year, runtime_minutes, genres, num_votes, average_rating`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (recommend.Item, error) {
	var (
		item       recommend.Item
		genres     string
		startYear  sql.NullInt32
		endYear    sql.NullInt32
		runtimeMin sql.NullInt32
		avgRating  sql.NullFloat64
	)
	if err := s.Scan(&item.ID, &item.TitleType, &item.PrimaryTitle, &item.OriginalTitle, &item.IsAdult,
		&startYear, &endYear, &runtimeMin, &genres, &item.Popularity, &avgRating); err != nil {
		return recommend.Item{}, err
	}
	item.StartYear = nullIntPtr(startYear)
	item.EndYear = nullIntPtr(endYear)
	item.RuntimeMinutes = nullIntPtr(runtimeMin)
	if avgRating.Valid {
		v := avgRating.Float64
		item.AverageRating = &v
	}
	item.Categories = splitGenres(genres)
	return item, nil
}

func nullIntPtr(n sql.NullInt32) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int32)
	return &v
}

// splitGenres parses the comma-separated genre column. An empty column yields nil.
func splitGenres(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]recommend.Item, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []recommend.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media rows: %w", err)
	}
	return items, nil
}

// ItemsByPage returns one page of the catalog in stable id order. page is zero-based.
func (db *DB) ItemsByPage(ctx context.Context, page, size int, minPopularity int64) ([]recommend.Item, error) {
	if page < 0 || size <= 0 {
		return nil, fmt.Errorf("invalid page %d or size %d", page, size)
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	items, err := db.queryItems(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE num_votes >= ? ORDER BY id LIMIT ? OFFSET ?`,
		minPopularity, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("query media page %d: %w", page, err)
	}
	return items, nil
}

// ItemByID returns one item or an error wrapping recommend.ErrNotFound.
func (db *DB) ItemByID(ctx context.Context, id string) (*recommend.Item, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("media %q: %w", id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query media %q: %w", id, err)
	}
	return &item, nil
}

// DistinctCategories returns every genre label in sorted order.
func (db *DB) DistinctCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT trim(category) AS category
		FROM (SELECT unnest(string_split(genres, ',')) AS category FROM media WHERE genres <> '')
		WHERE trim(category) <> ''
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// MostPopular returns up to limit items by descending vote count, ties by id.
func (db *DB) MostPopular(ctx context.Context, limit int) ([]recommend.Item, error) {
	if limit <= 0 {
		return nil, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	items, err := db.queryItems(ctx,
		`SELECT `+mediaColumns+` FROM media ORDER BY num_votes DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query popular media: %w", err)
	}
	return items, nil
}

// SearchTitles returns up to limit items whose primary or original title
// contains query, case-insensitively, most popular first.
func (db *DB) SearchTitles(ctx context.Context, query string, limit int) ([]recommend.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	items, err := db.queryItems(ctx,
		`SELECT `+mediaColumns+` FROM media
		WHERE lower(primary_title) LIKE ? ESCAPE '\' OR lower(COALESCE(original_title, '')) LIKE ? ESCAPE '\'
		ORDER BY num_votes DESC, id LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search media: %w", err)
	}
	return items, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// CountItems returns the catalog size.
func (db *DB) CountItems(ctx context.Context) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count media: %w", err)
	}
	return n, nil
}

// UpsertItems inserts or replaces items in one transaction.
func (db *DB) UpsertItems(ctx context.Context, items []recommend.Item) error {
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin media upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO media
		(id, title_type, primary_title, original_title, is_adult, start_year, end_year, runtime_minutes, genres, num_votes, average_rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare media upsert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i := range items {
		it := &items[i]
		titleType := it.TitleType
		if titleType == "" {
			titleType = "movie"
		}
		if _, err := stmt.ExecContext(ctx, it.ID, titleType, it.PrimaryTitle, nullString(it.OriginalTitle), it.IsAdult,
			intArg(it.StartYear), intArg(it.EndYear), intArg(it.RuntimeMinutes),
			strings.Join(it.Categories, ","), it.Popularity, floatArg(it.AverageRating)); err != nil {
			return fmt.Errorf("upsert media %q: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit media upsert: %w", err)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func intArg(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatArg(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
