// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Build sources reported by FeatureStore.Rebuild.
const (
	SourceCache    = "cache"
	SourceArtifact = "artifact"
	SourceCatalog  = "catalog"
)

// FeatureSet is an immutable snapshot of the catalog feature space.
// Matrix rows and ItemIDs are positionally correlated and never reordered
// independently. CategoryIndex maps each label in Categories to its column.
type FeatureSet struct {
	Matrix        [][]float64
	ItemIDs       []string
	Categories    []string
	CategoryIndex map[string]int
	BuiltAt       time.Time
}

// Len returns the number of rows.
func (fs *FeatureSet) Len() int {
	return len(fs.ItemIDs)
}

// Dimensions returns the number of columns.
func (fs *FeatureSet) Dimensions() int {
	return len(fs.Categories)
}

// Validate checks the shape invariants between matrix, item IDs and category index.
func (fs *FeatureSet) Validate() error {
	if len(fs.Matrix) != len(fs.ItemIDs) {
		return fmt.Errorf("matrix has %d rows but %d item ids", len(fs.Matrix), len(fs.ItemIDs))
	}
	if len(fs.CategoryIndex) != len(fs.Categories) {
		return fmt.Errorf("category index has %d entries but %d categories", len(fs.CategoryIndex), len(fs.Categories))
	}
	for i, c := range fs.Categories {
		if col, ok := fs.CategoryIndex[c]; !ok || col != i {
			return fmt.Errorf("category %q maps to column %d, want %d", c, col, i)
		}
	}
	dims := len(fs.Categories)
	for i, row := range fs.Matrix {
		if len(row) != dims {
			return fmt.Errorf("row %d has %d columns, want %d", i, len(row), dims)
		}
	}
	return nil
}

// OneHot returns the 0/1 category vector for categories. Labels outside the index are ignored.
func (fs *FeatureSet) OneHot(categories []string) []float64 {
	vec := make([]float64, len(fs.Categories))
	for _, c := range categories {
		if col, ok := fs.CategoryIndex[c]; ok {
			vec[col] = 1
		}
	}
	return vec
}

// popularityWeight is ln(1+popularity), or 1 for items without votes.
func popularityWeight(popularity int64) float64 {
	if popularity <= 0 {
		return 1
	}
	return math.Log1p(float64(popularity))
}

// FeatureStore builds and caches the FeatureSet.
//
// The store keeps a single process-wide slot. Rebuild short-circuits when the
// slot is populated; DeleteCache must be called first to pick up new catalog
// data. The store never detects staleness on its own.
type FeatureStore struct {
	catalog   Catalog
	artifacts ArtifactStore
	config    *Config
	logger    zerolog.Logger
	now       func() time.Time

	current atomic.Pointer[FeatureSet]
	buildMu sync.Mutex
}

// NewFeatureStore creates a feature store. artifacts may be nil to disable persistence.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewFeatureStore(catalog Catalog, artifacts ArtifactStore, cfg *Config, logger zerolog.Logger) *FeatureStore {
	return &FeatureStore{
		catalog:   catalog,
		artifacts: artifacts,
		config:    cfg,
		logger:    logger.With().Str("component", "feature_store").Logger(),
		now:       time.Now,
	}
}

// Snapshot returns the published FeatureSet, or nil.
func (s *FeatureStore) Snapshot() *FeatureSet {
	return s.current.Load()
}

// Rebuild returns the cached FeatureSet, loading it from the artifact store or
// building it from the catalog when the slot is empty. The returned source is
// one of SourceCache, SourceArtifact or SourceCatalog.
func (s *FeatureStore) Rebuild(ctx context.Context) (*FeatureSet, string, error) {
	if fs := s.current.Load(); fs != nil {
		return fs, SourceCache, nil
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	// Another caller may have finished a build while we waited.
	if fs := s.current.Load(); fs != nil {
		return fs, SourceCache, nil
	}

	if fs := s.loadArtifact(ctx); fs != nil {
		s.current.Store(fs)
		return fs, SourceArtifact, nil
	}

	fs, err := s.buildFromCatalog(ctx)
	if err != nil {
		return nil, "", err
	}
	s.current.Store(fs)
	s.saveArtifact(ctx, fs)

	return fs, SourceCatalog, nil
}

// DeleteCache clears the cache slot and the persisted artifact.
func (s *FeatureStore) DeleteCache(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	s.current.Store(nil)
	if s.artifacts == nil {
		return nil
	}
	if err := s.artifacts.Delete(ctx); err != nil && !errors.Is(err, ErrArtifactNotFound) {
		return fmt.Errorf("delete feature artifact: %w", err)
	}
	return nil
}

// loadArtifact returns nil on any failure; callers fall back to a full rebuild.
func (s *FeatureStore) loadArtifact(ctx context.Context) *FeatureSet {
	if s.artifacts == nil {
		return nil
	}

	data, err := s.artifacts.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrArtifactNotFound) {
			s.logger.Info().Msg("No feature artifact stored, building from catalog")
		} else {
			s.logger.Warn().Err(err).Msg("Failed to read feature artifact, building from catalog")
		}
		return nil
	}

	fs, err := DecodeFeatureSet(data)
	if err != nil {
		s.logger.Warn().Err(err).Int("bytes", len(data)).Msg("Discarding unreadable feature artifact")
		return nil
	}

	s.logger.Info().
		Int("items", fs.Len()).
		Int("dimensions", fs.Dimensions()).
		Time("built_at", fs.BuiltAt).
		Msg("Loaded feature set from artifact")
	return fs
}

func (s *FeatureStore) saveArtifact(ctx context.Context, fs *FeatureSet) {
	if s.artifacts == nil {
		return
	}
	data, err := EncodeFeatureSet(fs)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode feature artifact")
		return
	}
	if err := s.artifacts.Save(ctx, data); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist feature artifact")
	}
}

// catalogRow is the compact per-item state kept between paging and matrix assembly.
type catalogRow struct {
	id         string
	categories []string
	popularity int64
}

func (s *FeatureStore) buildFromCatalog(ctx context.Context) (*FeatureSet, error) {
	distinct, err := s.catalog.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: distinct categories: %w", ErrCollaboratorUnavailable, err)
	}

	labels := make(map[string]struct{}, len(distinct))
	for _, c := range distinct {
		if c != "" {
			labels[c] = struct{}{}
		}
	}

	var rows []catalogRow
	for page := 0; ; page++ {
		items, err := s.catalog.ItemsByPage(ctx, page, s.config.PageSize, s.config.MinPopularity)
		if err != nil {
			return nil, fmt.Errorf("%w: catalog page %d: %w", ErrCollaboratorUnavailable, page, err)
		}
		for i := range items {
			if len(items[i].Categories) == 0 {
				continue
			}
			for _, c := range items[i].Categories {
				if c != "" {
					labels[c] = struct{}{}
				}
			}
			rows = append(rows, catalogRow{
				id:         items[i].ID,
				categories: items[i].Categories,
				popularity: items[i].Popularity,
			})
		}
		if len(items) < s.config.PageSize {
			break
		}
	}

	categories := make([]string, 0, len(labels))
	for c := range labels {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}

	fs := &FeatureSet{
		Matrix:        make([][]float64, len(rows)),
		ItemIDs:       make([]string, len(rows)),
		Categories:    categories,
		CategoryIndex: index,
		BuiltAt:       s.now().UTC(),
	}
	for i, r := range rows {
		w := popularityWeight(r.popularity)
		vec := make([]float64, len(categories))
		for _, c := range r.categories {
			if col, ok := index[c]; ok {
				vec[col] = w
			}
		}
		fs.Matrix[i] = vec
		fs.ItemIDs[i] = r.id
	}

	s.logger.Info().
		Int("items", fs.Len()).
		Int("dimensions", fs.Dimensions()).
		Msg("Built feature set from catalog")

	return fs, nil
}
