// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package database

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestListMedia(t *testing.T) {
	db := setupTestDB(t)
	seedTestItems(t, db)

	tests := []struct {
		name        string
		filter      MediaFilter
		wantIDs     []string
		wantHasMore bool
	}{
		{
			name:    "title ascending",
			filter:  MediaFilter{Page: 1, PageSize: 10, SortBy: MediaSortTitle, SortDir: "asc"},
			wantIDs: []string{"tt0000005", "tt0000001", "tt0000002", "tt0000004", "tt0000003"},
		},
		{
			name:        "first page has more",
			filter:      MediaFilter{Page: 1, PageSize: 2, SortBy: MediaSortTitle},
			wantIDs:     []string{"tt0000005", "tt0000001"},
			wantHasMore: true,
		},
		{
			name:    "last page",
			filter:  MediaFilter{Page: 3, PageSize: 2, SortBy: MediaSortTitle},
			wantIDs: []string{"tt0000003"},
		},
		{
			name:    "past the end",
			filter:  MediaFilter{Page: 9, PageSize: 2},
			wantIDs: []string{},
		},
		{
			name:    "title descending",
			filter:  MediaFilter{Page: 1, PageSize: 2, SortBy: MediaSortTitle, SortDir: "desc"},
			wantIDs: []string{"tt0000003", "tt0000004"}, wantHasMore: true,
		},
		{
			name:    "rating descending puts unrated last",
			filter:  MediaFilter{Page: 1, PageSize: 2, SortBy: MediaSortRating, SortDir: "desc"},
			wantIDs: []string{"tt0000001", "tt0000002"}, wantHasMore: true,
		},
		{
			name:    "min rating",
			filter:  MediaFilter{Page: 1, PageSize: 10, MinRating: 7},
			wantIDs: []string{"tt0000001"},
		},
		{
			name:    "single category",
			filter:  MediaFilter{Page: 1, PageSize: 10, Categories: []string{"Comedy"}},
			wantIDs: []string{"tt0000001", "tt0000003"},
		},
		{
			name:    "categories must all match",
			filter:  MediaFilter{Page: 1, PageSize: 10, Categories: []string{"Comedy", "Action"}},
			wantIDs: []string{"tt0000001"},
		},
		{
			name:    "search matches original title",
			filter:  MediaFilter{Page: 1, PageSize: 10, Search: "bêta"},
			wantIDs: []string{"tt0000002"},
		},
		{
			name:    "search treats percent literally",
			filter:  MediaFilter{Page: 1, PageSize: 10, Search: "100%"},
			wantIDs: []string{"tt0000005"},
		},
		{
			name:    "unknown sort falls back to title",
			filter:  MediaFilter{Page: 1, PageSize: 1, SortBy: "num_votes; DROP TABLE media"},
			wantIDs: []string{"tt0000005"}, wantHasMore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := db.ListMedia(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("ListMedia() error = %v", err)
			}
			if !reflect.DeepEqual(page.IDs, tt.wantIDs) {
				t.Errorf("IDs = %v, want %v", page.IDs, tt.wantIDs)
			}
			if page.HasMore != tt.wantHasMore {
				t.Errorf("HasMore = %v, want %v", page.HasMore, tt.wantHasMore)
			}
		})
	}
}

func TestListMedia_ZeroPageSize(t *testing.T) {
	db := setupTestDB(t)
	seedTestItems(t, db)

	page, err := db.ListMedia(context.Background(), MediaFilter{Page: 1})
	if err != nil {
		t.Fatalf("ListMedia() error = %v", err)
	}
	if len(page.IDs) != 0 || page.HasMore {
		t.Errorf("page = %+v, want empty", page)
	}
}

func TestBuildListMediaQuery_WhitelistsSort(t *testing.T) {
	query, args := buildListMediaQuery(MediaFilter{Page: 2, PageSize: 5, SortBy: "id) --", SortDir: "sideways"})
	if strings.Contains(query, "--") {
		t.Errorf("query carries caller input: %s", query)
	}
	if !strings.Contains(query, "ORDER BY primary_title ASC NULLS LAST, id") {
		t.Errorf("query = %s, want default title ordering", query)
	}
	if want := []any{6, 5}; !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}
