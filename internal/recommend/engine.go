// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Recommendation modes reported to Hooks.OnRecommend.
const (
	ModePersonalized = "personalized"
	ModeColdStart    = "cold_start"
	ModeRoom         = "room"
)

// Engine is the recommendation service. It owns the FeatureStore and the
// published NeighborIndex and answers per-user and per-room queries.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	hooks   Hooks
	catalog Catalog
	prefs   Preferences
	store   *FeatureStore
	profile *ProfileBuilder

	index     atomic.Pointer[NeighborIndex]
	refreshMu sync.Mutex
	staleCh   chan struct{}

	requests   atomic.Int64
	coldStarts atomic.Int64
	stale      atomic.Int64
	failures   atomic.Int64
	refreshes  atomic.Int64

	statsMu     sync.RWMutex
	lastRefresh time.Time
	lastSource  string
}

// NewEngine creates a recommendation engine. artifacts may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, catalog Catalog, prefs Preferences, artifacts ArtifactStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if prefs == nil {
		return nil, fmt.Errorf("preferences are required")
	}

	cfg = cfg.Clone()
	return &Engine{
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		catalog: catalog,
		prefs:   prefs,
		store:   NewFeatureStore(catalog, artifacts, cfg, logger),
		profile: NewProfileBuilder(cfg.Alpha, cfg.Beta),
		staleCh: make(chan struct{}, 1),
	}, nil
}

// SetHooks installs event hooks. Call before serving traffic.
func (e *Engine) SetHooks(h Hooks) {
	e.hooks = h
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Refresh makes sure a feature set is built and an index is trained on it.
// When the feature store already holds a set that the index was trained on,
// Refresh is a no-op.
func (e *Engine) Refresh(ctx context.Context) error {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()
	return e.refreshLocked(ctx)
}

func (e *Engine) refreshLocked(ctx context.Context) error {
	start := time.Now()

	set, source, err := e.store.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("rebuild features: %w", err)
	}
	if idx := e.index.Load(); idx != nil && idx.FeatureSet() == set {
		return nil
	}

	idx, err := Train(set, e.config.workerCount())
	if err != nil {
		return fmt.Errorf("train index: %w", err)
	}
	e.index.Store(idx)
	e.refreshes.Add(1)

	e.statsMu.Lock()
	e.lastRefresh = time.Now()
	e.lastSource = source
	e.statsMu.Unlock()

	d := time.Since(start)
	e.logger.Info().
		Str("source", source).
		Int("items", set.Len()).
		Int("dimensions", set.Dimensions()).
		Dur("duration", d).
		Msg("Recommendation index published")

	if e.hooks.OnRefresh != nil {
		e.hooks.OnRefresh(source, set.Len(), set.Dimensions(), d)
	}
	return nil
}

// Reload invalidates the cached feature set and rebuilds it from the catalog.
// The previous index keeps serving until the new one is published.
func (e *Engine) Reload(ctx context.Context) error {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	if err := e.store.DeleteCache(ctx); err != nil {
		return err
	}
	return e.refreshLocked(ctx)
}

// Ready reports whether an index is published.
func (e *Engine) Ready() bool {
	return e.index.Load() != nil
}

// StaleSignal delivers a value whenever a request detects an inconsistent
// index. Consumers should call Reload.
func (e *Engine) StaleSignal() <-chan struct{} {
	return e.staleCh
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		Requests:   e.requests.Load(),
		ColdStarts: e.coldStarts.Load(),
		StaleIndex: e.stale.Load(),
		Errors:     e.failures.Load(),
		Refreshes:  e.refreshes.Load(),
	}
	if idx := e.index.Load(); idx != nil {
		set := idx.FeatureSet()
		s.Ready = true
		s.Items = set.Len()
		s.Dimensions = set.Dimensions()
		s.BuiltAt = set.BuiltAt
	}
	e.statsMu.RLock()
	s.LastRefresh = e.lastRefresh
	s.BuildSource = e.lastSource
	e.statsMu.RUnlock()
	return s
}

// Recommend returns up to k items for userID, most preferred first. Users
// without resolvable ratings get the popularity fallback with ColdStart set.
func (e *Engine) Recommend(ctx context.Context, userID string, k int) (*Result, error) {
	start := time.Now()
	e.requests.Add(1)

	res, err := e.recommend(ctx, userID, e.config.clampK(k))

	mode := ModePersonalized
	if res != nil && res.ColdStart {
		mode = ModeColdStart
	}
	if err != nil {
		e.failures.Add(1)
	}
	if e.hooks.OnRecommend != nil {
		e.hooks.OnRecommend(mode, time.Since(start), err)
	}
	return res, err
}

func (e *Engine) recommend(ctx context.Context, userID string, k int) (*Result, error) {
	ratings, err := e.prefs.RatingsFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: ratings for %s: %w", ErrCollaboratorUnavailable, userID, err)
	}
	if len(ratings) == 0 {
		return e.coldStart(ctx, k)
	}

	rated, err := e.resolve(ctx, ratings)
	if err != nil {
		return nil, err
	}
	if len(rated) == 0 {
		return e.coldStart(ctx, k)
	}

	idx, err := e.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}
	set := idx.FeatureSet()

	profile, err := e.profile.Build(set, rated)
	if errors.Is(err, ErrColdStart) {
		return e.coldStart(ctx, k)
	}
	if err != nil {
		return nil, err
	}

	neighbors, err := idx.Query(profile, k+e.config.DedupSlack)
	if err != nil {
		if errors.Is(err, ErrStaleIndex) {
			return nil, e.markStale(err)
		}
		return nil, err
	}

	res := &Result{
		IDs:       make([]string, 0, k),
		Distances: make([]float64, 0, k),
	}
	seen := make(map[string]struct{}, k)
	for _, n := range neighbors {
		if n.Row < 0 || n.Row >= set.Len() {
			return nil, e.markStale(fmt.Errorf("%w: row %d outside %d item ids", ErrStaleIndex, n.Row, set.Len()))
		}
		id := set.ItemIDs[n.Row]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res.IDs = append(res.IDs, id)
		res.Distances = append(res.Distances, n.Distance)
		if len(res.IDs) == k {
			break
		}
	}
	return res, nil
}

// resolve looks up every rated item. Ratings for items that left the catalog are skipped.
func (e *Engine) resolve(ctx context.Context, ratings []Rating) ([]RatedItem, error) {
	rated := make([]RatedItem, 0, len(ratings))
	for _, r := range ratings {
		item, err := e.catalog.ItemByID(ctx, r.ItemID)
		if errors.Is(err, ErrNotFound) {
			e.logger.Debug().Str("item_id", r.ItemID).Msg("Skipping rating for unknown item")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: item %s: %w", ErrCollaboratorUnavailable, r.ItemID, err)
		}
		rated = append(rated, RatedItem{Item: *item, Rating: r.Rating})
	}
	return rated, nil
}

// ensureIndex returns the published index, building one on first use.
func (e *Engine) ensureIndex(ctx context.Context) (*NeighborIndex, error) {
	if idx := e.index.Load(); idx != nil {
		return idx, nil
	}
	if err := e.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	idx := e.index.Load()
	if idx == nil {
		return nil, ErrNotReady
	}
	return idx, nil
}

// markStale records an inconsistent index and asks for a rebuild.
func (e *Engine) markStale(err error) error {
	e.stale.Add(1)
	if e.hooks.OnStale != nil {
		e.hooks.OnStale()
	}
	select {
	case e.staleCh <- struct{}{}:
	default:
	}
	e.logger.Error().Err(err).Msg("Stale recommendation index detected, rebuild scheduled")
	return err
}

// coldStart returns the k most popular eligible items with zero distances.
func (e *Engine) coldStart(ctx context.Context, k int) (*Result, error) {
	e.coldStarts.Add(1)

	res := &Result{
		IDs:       make([]string, 0, k),
		Distances: make([]float64, 0, k),
		ColdStart: true,
	}
	seen := make(map[string]struct{}, k)

	limit := 2*k + e.config.DedupSlack
	for {
		items, err := e.catalog.MostPopular(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("%w: most popular: %w", ErrCollaboratorUnavailable, err)
		}

		res.IDs = res.IDs[:0]
		res.Distances = res.Distances[:0]
		clear(seen)
		for i := range items {
			if items[i].IsEpisodic() || items[i].Popularity <= 0 {
				continue
			}
			if _, dup := seen[items[i].ID]; dup {
				continue
			}
			seen[items[i].ID] = struct{}{}
			res.IDs = append(res.IDs, items[i].ID)
			res.Distances = append(res.Distances, 0)
			if len(res.IDs) == k {
				return res, nil
			}
		}

		// The catalog ran out before k eligible items were found.
		if len(items) < limit {
			return res, nil
		}
		limit *= 2
	}
}
