// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moviematch/internal/cache"
	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// itemCacheType labels item cache lookups in metrics.
const itemCacheType = "catalog_item"

// Settings controls the breaker and the item cache.
type Settings struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// CacheSize and CacheTTL bound the item cache.
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultSettings returns the production defaults.
func DefaultSettings() Settings {
	return Settings{
		Name:      "catalog",
		Timeout:   30 * time.Second,
		CacheSize: 10000,
		CacheTTL:  10 * time.Minute,
	}
}

// Guarded implements recommend.Catalog and recommend.Preferences on top of
// another implementation, adding a circuit breaker and an item cache.
type Guarded struct {
	catalog recommend.Catalog
	prefs   recommend.Preferences
	cb      *gobreaker.CircuitBreaker[interface{}]
	items   *cache.LRU[recommend.Item]
	name    string
	logger  zerolog.Logger
}

// NewGuarded wraps catalog and prefs. Zero fields in s take their defaults.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewGuarded(catalog recommend.Catalog, prefs recommend.Preferences, s Settings, logger zerolog.Logger) *Guarded {
	def := DefaultSettings()
	if s.Name == "" {
		s.Name = def.Name
	}
	if s.Timeout <= 0 {
		s.Timeout = def.Timeout
	}
	if s.CacheSize <= 0 {
		s.CacheSize = def.CacheSize
	}
	if s.CacheTTL <= 0 {
		s.CacheTTL = def.CacheTTL
	}

	g := &Guarded{
		catalog: catalog,
		prefs:   prefs,
		items:   cache.NewLRU[recommend.Item](s.CacheSize, s.CacheTTL),
		name:    s.Name,
		logger:  logger.With().Str("component", "catalog").Str("breaker", s.Name).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.Name).Set(0)

	g.cb = gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				g.logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("Opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			g.logger.Info().Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		IsSuccessful: isSuccessful,
	})
	return g
}

// isSuccessful keeps caller-side outcomes out of the failure counts.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, recommend.ErrNotFound) ||
		errors.Is(err, context.Canceled)
}

// execute runs fn through the breaker. Rejections wrap
// recommend.ErrCollaboratorUnavailable; fn's own errors pass through.
func (g *Guarded) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := g.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
			g.logger.Debug().Err(err).Msg("Request rejected by circuit breaker")
			return nil, fmt.Errorf("%w: %s: %w", recommend.ErrCollaboratorUnavailable, g.name, err)
		}
		if isSuccessful(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(float64(g.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(0)
	return result, nil
}

// castResult type-casts a breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// ItemsByPage implements recommend.Catalog.
func (g *Guarded) ItemsByPage(ctx context.Context, page, size int, minPopularity int64) ([]recommend.Item, error) {
	return castResult[[]recommend.Item](g.execute(func() (interface{}, error) {
		return g.catalog.ItemsByPage(ctx, page, size, minPopularity)
	}))
}

// ItemByID implements recommend.Catalog. Resolved items are cached; misses are not.
func (g *Guarded) ItemByID(ctx context.Context, id string) (*recommend.Item, error) {
	if item, ok := g.items.Get(id); ok {
		metrics.RecordCacheLookup(itemCacheType, true)
		return &item, nil
	}
	metrics.RecordCacheLookup(itemCacheType, false)

	item, err := castResult[*recommend.Item](g.execute(func() (interface{}, error) {
		return g.catalog.ItemByID(ctx, id)
	}))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %q: %w", id, recommend.ErrNotFound)
	}
	g.items.Add(id, *item)
	return item, nil
}

// DistinctCategories implements recommend.Catalog.
func (g *Guarded) DistinctCategories(ctx context.Context) ([]string, error) {
	return castResult[[]string](g.execute(func() (interface{}, error) {
		return g.catalog.DistinctCategories(ctx)
	}))
}

// MostPopular implements recommend.Catalog.
func (g *Guarded) MostPopular(ctx context.Context, limit int) ([]recommend.Item, error) {
	return castResult[[]recommend.Item](g.execute(func() (interface{}, error) {
		return g.catalog.MostPopular(ctx, limit)
	}))
}

// RatingsFor implements recommend.Preferences.
func (g *Guarded) RatingsFor(ctx context.Context, userID string) ([]recommend.Rating, error) {
	return castResult[[]recommend.Rating](g.execute(func() (interface{}, error) {
		return g.prefs.RatingsFor(ctx, userID)
	}))
}

// InvalidateItems drops every cached item. Call after the catalog changes.
func (g *Guarded) InvalidateItems() {
	g.items.Clear()
}

// CleanupExpired removes expired cache entries and returns how many were dropped.
func (g *Guarded) CleanupExpired() int {
	return g.items.CleanupExpired()
}

// State returns the breaker state as "closed", "half-open" or "open".
func (g *Guarded) State() string {
	return stateToString(g.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
