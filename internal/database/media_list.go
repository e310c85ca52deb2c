// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package database

import (
	"context"
	"fmt"
	"strings"
)

// Sort keys accepted by ListMedia.
const (
	MediaSortTitle  = "primaryTitle"
	MediaSortRating = "averageRating"
)

// MediaFilter selects one page of the catalog listing. Page is 1-based.
// Categories are combined with AND: an item must carry every one.
type MediaFilter struct {
	Page       int
	PageSize   int
	SortBy     string
	SortDir    string
	MinRating  float64
	Search     string
	Categories []string
}

// MediaPage is one page of catalog ids.
type MediaPage struct {
	IDs     []string `json:"ids"`
	HasMore bool     `json:"has_more"`
}

// sortColumns whitelists the ORDER BY expression for each sort key.
var sortColumns = map[string]string{
	MediaSortTitle:  "primary_title",
	MediaSortRating: "average_rating",
}

// buildListMediaQuery renders the filter into SQL. It fetches one row past
// the page so the caller can tell whether another page follows.
func buildListMediaQuery(f MediaFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		where = append(where, `(lower(primary_title) LIKE ? ESCAPE '\' OR lower(COALESCE(original_title, '')) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if f.MinRating > 0 {
		where = append(where, "COALESCE(average_rating, 0) >= ?")
		args = append(args, f.MinRating)
	}
	for _, c := range f.Categories {
		if c = strings.TrimSpace(c); c == "" {
			continue
		}
		where = append(where, "list_contains(string_split(COALESCE(genres, ''), ','), ?)")
		args = append(args, c)
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns[MediaSortTitle]
	}
	dir := "ASC"
	if strings.EqualFold(f.SortDir, "desc") {
		dir = "DESC"
	}

	var b strings.Builder
	b.WriteString("SELECT id FROM media")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY %s %s NULLS LAST, id LIMIT ? OFFSET ?", col, dir)
	args = append(args, f.PageSize+1, (f.Page-1)*f.PageSize)
	return b.String(), args
}

// ListMedia returns one page of catalog ids matching f.
func (db *DB) ListMedia(ctx context.Context, f MediaFilter) (*MediaPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		return &MediaPage{IDs: []string{}}, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query, args := buildListMediaQuery(f)
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	page := &MediaPage{IDs: make([]string, 0, f.PageSize)}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan media id: %w", err)
		}
		if len(page.IDs) == f.PageSize {
			page.HasMore = true
			continue
		}
		page.IDs = append(page.IDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media ids: %w", err)
	}
	return page, nil
}
