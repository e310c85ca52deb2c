// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package database

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

// testDBSemaphore serializes DuckDB use across tests. Concurrent CGO calls
// from many in-memory databases can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory database held for the whole test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("New() error = %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatal("timed out creating test database")
	}
	return nil
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// testItems is a small catalog with one item of every shape the queries handle.
func testItems() []recommend.Item {
	return []recommend.Item{
		{ID: "tt0000001", TitleType: "movie", PrimaryTitle: "Alpha", Categories: []string{"Action", "Comedy"}, Popularity: 500, StartYear: intPtr(1999), AverageRating: floatPtr(7.5)},
		{ID: "tt0000002", TitleType: "movie", PrimaryTitle: "Beta", OriginalTitle: "Bêta", Categories: []string{"Drama"}, Popularity: 900},
		{ID: "tt0000003", TitleType: "tvEpisode", PrimaryTitle: "Gamma Pilot", Categories: []string{"Comedy"}, Popularity: 900},
		{ID: "tt0000004", TitleType: "movie", PrimaryTitle: "Delta", Popularity: 10},
		{ID: "tt0000005", TitleType: "short", PrimaryTitle: "100% Epsilon", Categories: []string{"Documentary", "Short"}, Popularity: 0, RuntimeMinutes: intPtr(12)},
	}
}

func seedTestItems(t *testing.T, db *DB) {
	t.Helper()
	if err := db.UpsertItems(context.Background(), testItems()); err != nil {
		t.Fatalf("UpsertItems() error = %v", err)
	}
}

func TestNew_InMemory(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	version, err := db.GetCurrentSchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentSchemaVersion() error = %v", err)
	}
	if want := len(db.getMigrations()); version != want {
		t.Errorf("schema version = %d, want %d", version, want)
	}
}

func TestNew_MediaHasNoSecondaryIndexes(t *testing.T) {
	db := setupTestDB(t)

	var n int
	err := db.conn.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM duckdb_indexes() WHERE table_name = 'media'`).Scan(&n)
	if err != nil {
		t.Fatalf("query duckdb_indexes() error = %v", err)
	}
	if n != 0 {
		t.Errorf("media secondary indexes = %d, want 0", n)
	}
}

func TestNew_ReopenSkipsAppliedMigrations(t *testing.T) {
	db := setupTestDB(t)

	// A second run over the same connection must be a no-op.
	if err := db.runVersionedMigrations(); err != nil {
		t.Fatalf("runVersionedMigrations() error = %v", err)
	}
	applied, err := db.getAppliedMigrations(context.Background())
	if err != nil {
		t.Fatalf("getAppliedMigrations() error = %v", err)
	}
	if len(applied) != len(db.getMigrations()) {
		t.Errorf("applied = %d, want %d", len(applied), len(db.getMigrations()))
	}
}

func TestConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want []string
		omit []string
	}{
		{
			name: "memory default",
			cfg:  config.DatabaseConfig{Threads: 2},
			want: []string{":memory:?", "threads=2", "autoload_known_extensions=false"},
			omit: []string{"max_memory"},
		},
		{
			name: "file with memory limit",
			cfg:  config.DatabaseConfig{Path: "/data/moviematch.duckdb", MaxMemory: "2GB", Threads: 4},
			want: []string{"/data/moviematch.duckdb?", "max_memory=2GB", "threads=4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := connectionString(&tt.cfg)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("connectionString() = %q, missing %q", got, w)
				}
			}
			for _, o := range tt.omit {
				if strings.Contains(got, o) {
					t.Errorf("connectionString() = %q, should not contain %q", got, o)
				}
			}
		})
	}
}

func TestIsTransactionConflict(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{io.EOF, false},
		{errString("TransactionContext Error: Transaction conflict: cannot update"), true},
		{errString("Conflict on update!"), true},
	}
	for _, tt := range tests {
		if got := isTransactionConflict(tt.err); got != tt.want {
			t.Errorf("isTransactionConflict(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }
