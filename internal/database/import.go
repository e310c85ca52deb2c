// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/moviematch/internal/logging"
)

// importTimeout bounds a full IMDb load, which can take minutes on the real dumps.
const importTimeout = 30 * time.Minute

// ImportOptions selects which IMDb rows are loaded.
type ImportOptions struct {
	// BasicsPath is title.basics.tsv (required).
	BasicsPath string

	// RatingsPath is title.ratings.tsv. Without it every item has zero votes.
	RatingsPath string

	// TitleTypes restricts the load to these title types. Empty loads all of them.
	TitleTypes []string

	// IncludeAdult keeps titles flagged as adult.
	IncludeAdult bool
}

// ImportIMDb loads IMDb TSV dumps into the media table with DuckDB's
// read_csv, replacing rows with the same id. It returns the number of rows
// in the table afterwards.
func (db *DB) ImportIMDb(ctx context.Context, opts ImportOptions) (int64, error) {
	if opts.BasicsPath == "" {
		return 0, fmt.Errorf("basics path is required")
	}
	for _, p := range []string{opts.BasicsPath, opts.RatingsPath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return 0, fmt.Errorf("import source: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	query := buildImportQuery(opts)
	start := time.Now()
	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return 0, fmt.Errorf("import imdb: %w", err)
	}

	n, err := db.CountItems(ctx)
	if err != nil {
		return 0, err
	}
	logging.Info().
		Str("basics", opts.BasicsPath).
		Str("ratings", opts.RatingsPath).
		Int64("items", n).
		Dur("duration", time.Since(start)).
		Msg("Imported IMDb catalog")
	return n, nil
}

// buildImportQuery renders the INSERT ... SELECT. read_csv does not accept
// bound parameters for its path, so paths are inlined as escaped literals.
func buildImportQuery(opts ImportOptions) string {
	var b strings.Builder
	b.WriteString(`INSERT OR REPLACE INTO media
		(id, title_type, primary_title, original_title, is_adult, start_year, end_year, runtime_minutes, genres, num_votes, average_rating)
		SELECT
			b.tconst,
			b.titleType,
			COALESCE(b.primaryTitle, b.tconst),
			b.originalTitle,
			COALESCE(b.isAdult = '1', FALSE),
			TRY_CAST(b.startYear AS INTEGER),
			TRY_CAST(b.endYear AS INTEGER),
			TRY_CAST(b.runtimeMinutes AS INTEGER),
			COALESCE(b.genres, ''),
			`)
	if opts.RatingsPath != "" {
		b.WriteString(`COALESCE(TRY_CAST(r.numVotes AS BIGINT), 0), TRY_CAST(r.averageRating AS DOUBLE)`)
	} else {
		b.WriteString(`0, NULL`)
	}
	b.WriteString("\n\t\tFROM ")
	b.WriteString(readTSV(opts.BasicsPath))
	b.WriteString(" b")
	if opts.RatingsPath != "" {
		b.WriteString(" LEFT JOIN ")
		b.WriteString(readTSV(opts.RatingsPath))
		b.WriteString(" r ON r.tconst = b.tconst")
	}

	var where []string
	where = append(where, "b.tconst IS NOT NULL")
	if !opts.IncludeAdult {
		where = append(where, "COALESCE(b.isAdult, '0') <> '1'")
	}
	if len(opts.TitleTypes) > 0 {
		quoted := make([]string, len(opts.TitleTypes))
		for i, t := range opts.TitleTypes {
			quoted[i] = sqlLiteral(t)
		}
		where = append(where, "b.titleType IN ("+strings.Join(quoted, ", ")+")")
	}
	b.WriteString("\n\t\tWHERE ")
	b.WriteString(strings.Join(where, " AND "))
	return b.String()
}

// readTSV reads an IMDb dump: tab separated, \N for NULL, no quoting.
func readTSV(path string) string {
	return "read_csv(" + sqlLiteral(path) + `, delim = '\t', header = true, quote = '', nullstr = '\N', all_varchar = true)`
}

func sqlLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
