// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"math"
)

// ProfileBuilder folds a user's rated items into one vector in the feature space.
type ProfileBuilder struct {
	alpha float64
	beta  float64
}

// NewProfileBuilder creates a builder with the given average-rating (alpha)
// and popularity (beta) weights.
func NewProfileBuilder(alpha, beta float64) *ProfileBuilder {
	return &ProfileBuilder{alpha: alpha, beta: beta}
}

// Build returns the normalized profile for rated. Each item contributes its
// category one-hot scaled by the user's rating, plus alpha times its average
// rating and beta times ln(1+popularity) when those are present. The sum is
// divided by the total rating weight and then by its largest coordinate.
//
// It returns ErrColdStart when rated is empty or the rating weights do not sum
// to a positive value.
func (b *ProfileBuilder) Build(set *FeatureSet, rated []RatedItem) ([]float64, error) {
	if set == nil {
		return nil, ErrNotReady
	}
	if len(rated) == 0 {
		return nil, ErrColdStart
	}

	profile := make([]float64, set.Dimensions())
	var total float64
	for i := range rated {
		onehot := set.OneHot(rated[i].Item.Categories)

		scale := rated[i].Rating
		if avg := rated[i].Item.AverageRating; avg != nil {
			scale += b.alpha * *avg
		}
		if pop := rated[i].Item.Popularity; pop > 0 {
			scale += b.beta * math.Log1p(float64(pop))
		}
		for col, v := range onehot {
			profile[col] += v * scale
		}
		total += rated[i].Rating
	}
	if total <= 0 {
		return nil, ErrColdStart
	}

	var peak float64
	for col := range profile {
		profile[col] /= total
		if profile[col] > peak {
			peak = profile[col]
		}
	}
	if peak > 0 {
		for col := range profile {
			profile[col] /= peak
		}
	}
	return profile, nil
}
