// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// mockCatalog implements Catalog over an in-memory item list.
type mockCatalog struct {
	mu         sync.Mutex
	items      []Item
	categories []string
	pageErr    error
	itemErr    error
	popularErr error

	pageCalls atomic.Int32
}

func newMockCatalog(items ...Item) *mockCatalog {
	return &mockCatalog{items: items}
}

func (m *mockCatalog) setItems(items ...Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
}

func (m *mockCatalog) ItemsByPage(_ context.Context, page, size int, minPopularity int64) ([]Item, error) {
	m.pageCalls.Add(1)
	if m.pageErr != nil {
		return nil, m.pageErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var filtered []Item
	for _, it := range m.items {
		if it.Popularity >= minPopularity {
			filtered = append(filtered, it)
		}
	}
	lo := page * size
	if lo >= len(filtered) {
		return nil, nil
	}
	hi := lo + size
	if hi > len(filtered) {
		hi = len(filtered)
	}
	return filtered[lo:hi], nil
}

func (m *mockCatalog) ItemByID(_ context.Context, id string) (*Item, error) {
	if m.itemErr != nil {
		return nil, m.itemErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			it := m.items[i]
			return &it, nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
}

func (m *mockCatalog) DistinctCategories(_ context.Context) ([]string, error) {
	if m.pageErr != nil {
		return nil, m.pageErr
	}
	return m.categories, nil
}

func (m *mockCatalog) MostPopular(_ context.Context, limit int) ([]Item, error) {
	if m.popularErr != nil {
		return nil, m.popularErr
	}
	m.mu.Lock()
	sorted := append([]Item(nil), m.items...)
	m.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Popularity > sorted[j].Popularity
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// mockPreferences implements Preferences.
type mockPreferences struct {
	mu      sync.Mutex
	ratings map[string][]Rating
	err     map[string]error
}

func newMockPreferences() *mockPreferences {
	return &mockPreferences{
		ratings: make(map[string][]Rating),
		err:     make(map[string]error),
	}
}

func (m *mockPreferences) rate(user, item string, rating float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[user] = append(m.ratings[user], Rating{ItemID: item, Rating: rating})
}

func (m *mockPreferences) fail(user string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err[user] = err
}

func (m *mockPreferences) RatingsFor(_ context.Context, userID string) ([]Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err[userID]; err != nil {
		return nil, err
	}
	return append([]Rating(nil), m.ratings[userID]...), nil
}

// memoryArtifacts implements ArtifactStore in memory.
type memoryArtifacts struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	loadErr error
}

func (m *memoryArtifacts) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.data == nil {
		return nil, ErrArtifactNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memoryArtifacts) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *memoryArtifacts) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return ErrArtifactNotFound
	}
	m.data = nil
	return nil
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func movie(id string, pop int64, categories ...string) Item {
	return Item{
		ID:           id,
		TitleType:    "movie",
		PrimaryTitle: id,
		StartYear:    intPtr(2000),
		Categories:   categories,
		Popularity:   pop,
	}
}

// scenarioCatalog is the three-item Action/Comedy catalog.
func scenarioCatalog() *mockCatalog {
	return newMockCatalog(
		movie("tt-action", 0, "Action"),
		movie("tt-comedy", 0, "Comedy"),
		movie("tt-mixed", 0, "Action", "Comedy"),
	)
}
