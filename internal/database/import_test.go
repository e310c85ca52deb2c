// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package database

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const basicsTSV = "tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres\n" +
	"tt0000001\tmovie\tCarmencita\tCarmencita\t0\t1894\t\\N\t1\tDocumentary,Short\n" +
	"tt0000002\tshort\tLe clown et ses chiens\tLe clown et ses chiens\t0\t1892\t\\N\t5\tAnimation,Short\n" +
	"tt0000003\tmovie\tAdult Title\tAdult Title\t1\t1990\t\\N\t90\tDrama\n" +
	"tt0000004\ttvEpisode\tPilot\tPilot\t0\t2001\t\\N\t\\N\t\\N\n" +
	"tt0000005\tmovie\tUnrated Feature\tUnrated Feature\t0\t\\N\t\\N\t\\N\tComedy\n"

const ratingsTSV = "tconst\taverageRating\tnumVotes\n" +
	"tt0000001\t5.7\t2100\n" +
	"tt0000002\t5.6\t290\n" +
	"tt0000003\t6.0\t10\n"

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestImportIMDb(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	basics := writeFixture(t, "title.basics.tsv", basicsTSV)
	ratings := writeFixture(t, "title.ratings.tsv", ratingsTSV)

	n, err := db.ImportIMDb(ctx, ImportOptions{BasicsPath: basics, RatingsPath: ratings})
	if err != nil {
		t.Fatalf("ImportIMDb() error = %v", err)
	}
	if n != 4 {
		t.Errorf("ImportIMDb() = %d items, want 4 (adult title skipped)", n)
	}

	item, err := db.ItemByID(ctx, "tt0000001")
	if err != nil {
		t.Fatalf("ItemByID() error = %v", err)
	}
	if item.Popularity != 2100 {
		t.Errorf("Popularity = %d, want 2100", item.Popularity)
	}
	if item.AverageRating == nil || *item.AverageRating != 5.7 {
		t.Errorf("AverageRating = %v, want 5.7", item.AverageRating)
	}
	if item.StartYear == nil || *item.StartYear != 1894 {
		t.Errorf("StartYear = %v, want 1894", item.StartYear)
	}
	if item.EndYear != nil {
		t.Errorf("EndYear = %v, want nil", *item.EndYear)
	}
	if !reflect.DeepEqual(item.Categories, []string{"Documentary", "Short"}) {
		t.Errorf("Categories = %v", item.Categories)
	}

	unrated, err := db.ItemByID(ctx, "tt0000005")
	if err != nil {
		t.Fatalf("ItemByID() error = %v", err)
	}
	if unrated.Popularity != 0 || unrated.AverageRating != nil {
		t.Errorf("unrated item = %+v, want zero votes and no rating", unrated)
	}

	episode, err := db.ItemByID(ctx, "tt0000004")
	if err != nil {
		t.Fatalf("ItemByID() error = %v", err)
	}
	if !episode.IsEpisodic() || episode.Categories != nil {
		t.Errorf("episode = %+v", episode)
	}
}

func TestImportIMDb_ReimportUpdatesVotes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	basics := writeFixture(t, "title.basics.tsv", basicsTSV)
	ratings := writeFixture(t, "title.ratings.tsv", ratingsTSV)
	if _, err := db.ImportIMDb(ctx, ImportOptions{BasicsPath: basics, RatingsPath: ratings}); err != nil {
		t.Fatalf("ImportIMDb() error = %v", err)
	}

	renamed := writeFixture(t, "title.basics.tsv", strings.Replace(basicsTSV, "\tCarmencita\tCarmencita", "\tCarmencita Restored\tCarmencita", 1))
	updated := writeFixture(t, "title.ratings.tsv", strings.Replace(ratingsTSV, "5.7\t2100", "7.9\t9999", 1))
	n, err := db.ImportIMDb(ctx, ImportOptions{BasicsPath: renamed, RatingsPath: updated})
	if err != nil {
		t.Fatalf("ImportIMDb() second run error = %v", err)
	}
	if n != 4 {
		t.Errorf("ImportIMDb() = %d items after re-import, want 4", n)
	}

	item, err := db.ItemByID(ctx, "tt0000001")
	if err != nil {
		t.Fatalf("ItemByID() error = %v", err)
	}
	if item.Popularity != 9999 {
		t.Errorf("Popularity = %d, want 9999", item.Popularity)
	}
	if item.AverageRating == nil || *item.AverageRating != 7.9 {
		t.Errorf("AverageRating = %v, want 7.9", item.AverageRating)
	}
	if item.PrimaryTitle != "Carmencita Restored" {
		t.Errorf("PrimaryTitle = %q, want %q", item.PrimaryTitle, "Carmencita Restored")
	}

	top, err := db.MostPopular(ctx, 1)
	if err != nil || len(top) != 1 || top[0].Popularity != 9999 {
		t.Errorf("MostPopular(1) = %+v, %v; want the updated vote count", top, err)
	}
}

func TestImportIMDb_TitleTypesAndAdult(t *testing.T) {
	db := setupTestDB(t)
	basics := writeFixture(t, "title.basics.tsv", basicsTSV)

	n, err := db.ImportIMDb(context.Background(), ImportOptions{
		BasicsPath:   basics,
		TitleTypes:   []string{"movie"},
		IncludeAdult: true,
	})
	if err != nil {
		t.Fatalf("ImportIMDb() error = %v", err)
	}
	if n != 3 {
		t.Errorf("ImportIMDb() = %d items, want 3 movies", n)
	}
}

func TestImportIMDb_MissingFile(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.ImportIMDb(context.Background(), ImportOptions{BasicsPath: "/nonexistent/title.basics.tsv"}); err == nil {
		t.Error("ImportIMDb() error = nil, want error for a missing file")
	}
	if _, err := db.ImportIMDb(context.Background(), ImportOptions{}); err == nil {
		t.Error("ImportIMDb() error = nil, want error without a basics path")
	}
}

func TestBuildImportQuery_EscapesLiterals(t *testing.T) {
	q := buildImportQuery(ImportOptions{BasicsPath: "/tmp/it's.tsv", TitleTypes: []string{"movie", "o'neil"}})
	if !strings.Contains(q, "'/tmp/it''s.tsv'") {
		t.Errorf("query does not escape the path:\n%s", q)
	}
	if !strings.Contains(q, "'o''neil'") {
		t.Errorf("query does not escape title types:\n%s", q)
	}
	if strings.Contains(q, "JOIN") {
		t.Errorf("query joins ratings without a ratings path:\n%s", q)
	}
}

func TestSeedDemoData(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData() error = %v", err)
	}
	// Seeding twice replaces rows rather than duplicating them.
	if err := db.SeedDemoData(ctx); err != nil {
		t.Fatalf("second SeedDemoData() error = %v", err)
	}
	n, err := db.CountItems(ctx)
	if err != nil {
		t.Fatalf("CountItems() error = %v", err)
	}
	if n != int64(len(demoCatalog)) {
		t.Errorf("CountItems() = %d, want %d", n, len(demoCatalog))
	}
}
