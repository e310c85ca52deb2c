// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package recommend turns sparse per-user ratings into ranked candidate lists.
//
// # Pipeline
//
//	Catalog --pages--> FeatureStore.Rebuild --> FeatureSet (immutable)
//	                                               |
//	                                     Train ----+--> NeighborIndex (immutable)
//	Preferences --ratings--> ProfileBuilder --profile--> NeighborIndex.Query --> Result
//
// A FeatureSet holds one row per catalog item. Each row is a one-hot category
// vector scaled by ln(1+popularity), or by 1 for items with no votes. The
// NeighborIndex is bound to the exact FeatureSet it was trained on and the
// Engine publishes it through an atomic pointer. Queries never lock against
// each other and a refresh never mutates a structure a query can see.
//
// # Cold Start
//
// Users without resolvable ratings receive the most popular non-episodic
// items with zero distances. This is a defined result, not an error.
//
// # Rooms
//
// RecommendForRoom merges per-member lists by summed inverse rank,
// tie-breaking on lowest total distance and then item ID, so every member of a
// room sees the same candidate list.
//
// # Persistence
//
// The FeatureSet is serialized into a single versioned, checksummed blob and
// kept in an ArtifactStore. A missing or corrupt artifact causes a full
// rebuild from the catalog.
//
// This package does not import other internal packages. Catalog, preference
// and artifact access are injected through interfaces.
package recommend
