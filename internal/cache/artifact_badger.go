// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/moviematch/internal/recommend"
)

// artifactKeyPrefix namespaces artifact keys inside a shared BadgerDB.
const artifactKeyPrefix = "artifact:"

// BadgerArtifactStore implements recommend.ArtifactStore using BadgerDB.
type BadgerArtifactStore struct {
	db  *badger.DB
	key []byte
}

// NewBadgerArtifactStore stores the artifact under key in db.
func NewBadgerArtifactStore(db *badger.DB, key string) *BadgerArtifactStore {
	return &BadgerArtifactStore{db: db, key: []byte(artifactKeyPrefix + key)}
}

// OpenBadger opens a BadgerDB at dir with logging routed away from stderr.
// An empty dir opens an in-memory database.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return db, nil
}

// Load returns the stored blob.
func (s *BadgerArtifactStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return recommend.ErrArtifactNotFound
		}
		if err != nil {
			return fmt.Errorf("get artifact: %w", err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save replaces the stored blob.
func (s *BadgerArtifactStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(s.key, data); err != nil {
			return fmt.Errorf("set artifact: %w", err)
		}
		return nil
	})
}

// Delete removes the stored blob. Deleting a missing blob is not an error.
func (s *BadgerArtifactStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(s.key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete artifact: %w", err)
		}
		return nil
	})
}
