// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
)

type seedTitle struct {
	id      string
	title   string
	year    int
	runtime int
	genres  []string
	votes   int64
	rating  float64
}

// demoCatalog is a small slice of well-known titles for development and demos.
var demoCatalog = []seedTitle{
	{"tt0111161", "The Shawshank Redemption", 1994, 142, []string{"Drama"}, 2900000, 9.3},
	{"tt0068646", "The Godfather", 1972, 175, []string{"Crime", "Drama"}, 2000000, 9.2},
	{"tt0468569", "The Dark Knight", 2008, 152, []string{"Action", "Crime", "Drama"}, 2900000, 9.0},
	{"tt0108052", "Schindler's List", 1993, 195, []string{"Biography", "Drama", "History"}, 1450000, 9.0},
	{"tt0167260", "The Lord of the Rings: The Return of the King", 2003, 201, []string{"Action", "Adventure", "Drama"}, 2000000, 9.0},
	{"tt0110912", "Pulp Fiction", 1994, 154, []string{"Crime", "Drama"}, 2200000, 8.9},
	{"tt0109830", "Forrest Gump", 1994, 142, []string{"Drama", "Romance"}, 2250000, 8.8},
	{"tt1375666", "Inception", 2010, 148, []string{"Action", "Adventure", "Sci-Fi"}, 2600000, 8.8},
	{"tt0137523", "Fight Club", 1999, 139, []string{"Drama"}, 2350000, 8.8},
	{"tt0133093", "The Matrix", 1999, 136, []string{"Action", "Sci-Fi"}, 2100000, 8.7},
	{"tt0816692", "Interstellar", 2014, 169, []string{"Adventure", "Drama", "Sci-Fi"}, 2200000, 8.7},
	{"tt0245429", "Spirited Away", 2001, 125, []string{"Adventure", "Animation", "Family"}, 850000, 8.6},
	{"tt0114369", "Se7en", 1995, 127, []string{"Crime", "Drama", "Mystery"}, 1800000, 8.6},
	{"tt0102926", "The Silence of the Lambs", 1991, 118, []string{"Crime", "Drama", "Thriller"}, 1550000, 8.6},
	{"tt6751668", "Parasite", 2019, 132, []string{"Drama", "Thriller"}, 950000, 8.5},
	{"tt0110357", "The Lion King", 1994, 88, []string{"Adventure", "Animation", "Drama"}, 1150000, 8.5},
	{"tt0088763", "Back to the Future", 1985, 116, []string{"Adventure", "Comedy", "Sci-Fi"}, 1300000, 8.5},
	{"tt0114709", "Toy Story", 1995, 81, []string{"Adventure", "Animation", "Comedy"}, 1100000, 8.3},
	{"tt0107048", "Groundhog Day", 1993, 101, []string{"Comedy", "Drama", "Fantasy"}, 680000, 8.0},
	{"tt0118715", "The Big Lebowski", 1998, 117, []string{"Comedy", "Crime"}, 850000, 8.1},
	{"tt0265666", "The Royal Tenenbaums", 2001, 110, []string{"Comedy", "Drama"}, 310000, 7.6},
	{"tt2278388", "The Grand Budapest Hotel", 2014, 99, []string{"Adventure", "Comedy", "Crime"}, 900000, 8.1},
	{"tt0071853", "Monty Python and the Holy Grail", 1975, 91, []string{"Adventure", "Comedy", "Fantasy"}, 570000, 8.2},
	{"tt1119646", "The Hangover", 2009, 100, []string{"Comedy"}, 850000, 7.7},
	{"tt0829482", "Superbad", 2007, 113, []string{"Comedy"}, 620000, 7.6},
	{"tt0081505", "The Shining", 1980, 146, []string{"Drama", "Horror"}, 1100000, 8.4},
	{"tt0078748", "Alien", 1979, 117, []string{"Horror", "Sci-Fi"}, 950000, 8.5},
	{"tt5052448", "Get Out", 2017, 104, []string{"Horror", "Mystery", "Thriller"}, 700000, 7.8},
	{"tt0332280", "The Notebook", 2004, 123, []string{"Drama", "Romance"}, 600000, 7.8},
	{"tt0338013", "Eternal Sunshine of the Spotless Mind", 2004, 108, []string{"Drama", "Romance", "Sci-Fi"}, 1050000, 8.3},
}

// SeedDemoData loads the demo catalog. Existing rows with the same ids are replaced.
func (db *DB) SeedDemoData(ctx context.Context) error {
	items := make([]recommend.Item, len(demoCatalog))
	for i, s := range demoCatalog {
		year, runtime, rating := s.year, s.runtime, s.rating
		items[i] = recommend.Item{
			ID:             s.id,
			TitleType:      "movie",
			PrimaryTitle:   s.title,
			StartYear:      &year,
			RuntimeMinutes: &runtime,
			Categories:     s.genres,
			Popularity:     s.votes,
			AverageRating:  &rating,
		}
	}
	if err := db.UpsertItems(ctx, items); err != nil {
		return fmt.Errorf("seed demo catalog: %w", err)
	}
	logging.Info().Int("items", len(items)).Msg("Seeded demo catalog")
	return nil
}
