// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"time"
)

// TitleTypeEpisode marks a single episode of a series. Episodes are never cold-start candidates.
const TitleTypeEpisode = "tvEpisode"

// Item is an immutable catalog record.
type Item struct {
	// ID is the opaque catalog key (IMDb tconst).
	ID string `json:"id"`

	// TitleType is the catalog title type (movie, tvSeries, tvEpisode, short, ...).
	TitleType string `json:"title_type"`

	PrimaryTitle  string `json:"primary_title"`
	OriginalTitle string `json:"original_title,omitempty"`
	IsAdult       bool   `json:"is_adult"`

	StartYear      *int `json:"start_year,omitempty"`
	EndYear        *int `json:"end_year,omitempty"`
	RuntimeMinutes *int `json:"runtime_minutes,omitempty"`

	// Categories is the unordered genre set. Items without categories are not ranked.
	Categories []string `json:"categories"`

	// Popularity is the vote count.
	Popularity int64 `json:"popularity"`

	// AverageRating is nil when the catalog has no rating for the item.
	AverageRating *float64 `json:"average_rating,omitempty"`
}

// IsEpisodic reports whether the item is a single series episode.
func (i *Item) IsEpisodic() bool {
	return i.TitleType == TitleTypeEpisode
}

// Rating is one explicit user rating.
type Rating struct {
	ItemID string  `json:"item_id"`
	Rating float64 `json:"rating"`
}

// RatedItem pairs a resolved catalog item with the user's rating of it.
type RatedItem struct {
	Item   Item
	Rating float64
}

// Result is a ranked recommendation list. IDs and Distances are parallel and
// index 0 is the most preferred candidate.
type Result struct {
	IDs       []string  `json:"ids"`
	Distances []float64 `json:"distances"`

	// Scores is only set for room-level results (summed inverse rank).
	Scores []float64 `json:"scores,omitempty"`

	// ColdStart is true when the list came from the popularity fallback.
	ColdStart bool `json:"cold_start"`
}

// Len returns the number of candidates.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.IDs)
}

// Catalog is the read-only catalog collaborator.
// ItemByID returns an error wrapping ErrNotFound when the item does not exist.
type Catalog interface {
	ItemsByPage(ctx context.Context, page, size int, minPopularity int64) ([]Item, error)
	ItemByID(ctx context.Context, id string) (*Item, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	MostPopular(ctx context.Context, limit int) ([]Item, error)
}

// Preferences is the user preference collaborator.
type Preferences interface {
	RatingsFor(ctx context.Context, userID string) ([]Rating, error)
}

// ArtifactStore persists the serialized feature set as one opaque blob.
// Load returns an error wrapping ErrArtifactNotFound when nothing is stored.
type ArtifactStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// Stats is a point-in-time view of engine counters.
type Stats struct {
	Requests    int64     `json:"requests"`
	ColdStarts  int64     `json:"cold_starts"`
	StaleIndex  int64     `json:"stale_index"`
	Errors      int64     `json:"errors"`
	Refreshes   int64     `json:"refreshes"`
	Items       int       `json:"items"`
	Dimensions  int       `json:"dimensions"`
	BuiltAt     time.Time `json:"built_at"`
	LastRefresh time.Time `json:"last_refresh"`
	Ready       bool      `json:"ready"`
	BuildSource string    `json:"build_source,omitempty"`
}

// Hooks receive engine events. Every field is optional.
type Hooks struct {
	// OnRecommend fires after every Recommend call with mode "personalized", "cold_start" or "room".
	OnRecommend func(mode string, d time.Duration, err error)

	// OnRefresh fires after a feature set and index are published.
	OnRefresh func(source string, items, dims int, d time.Duration)

	// OnStale fires when a request detects an inconsistent index.
	OnStale func()
}
