// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"fmt"
	"runtime"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// PageSize bounds how many catalog items are fetched per page during a rebuild.
	PageSize int `json:"page_size"`

	// MinPopularity filters catalog pages during a rebuild. 0 keeps every item.
	MinPopularity int64 `json:"min_popularity"`

	// Workers is the number of goroutines a neighbor query fans out to.
	// 0 means runtime.NumCPU().
	Workers int `json:"workers"`

	// Alpha weights the catalog average rating into the profile.
	Alpha float64 `json:"alpha"`

	// Beta weights ln(1+popularity) into the profile.
	Beta float64 `json:"beta"`

	// DedupSlack is how many extra neighbors are requested so that
	// deduplication by item ID can still fill k slots.
	DedupSlack int `json:"dedup_slack"`

	// DefaultK is used when a caller asks for k <= 0.
	DefaultK int `json:"default_k"`

	// MaxK caps k for a single request.
	MaxK int `json:"max_k"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		PageSize:      5000,
		MinPopularity: 0,
		Workers:       0,
		Alpha:         0.2,
		Beta:          0.1,
		DedupSlack:    10,
		DefaultK:      10,
		MaxK:          100,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1, got %d", c.PageSize)
	}
	if c.MinPopularity < 0 {
		return fmt.Errorf("min_popularity must not be negative, got %d", c.MinPopularity)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Alpha < 0 {
		return fmt.Errorf("alpha must not be negative, got %v", c.Alpha)
	}
	if c.Beta < 0 {
		return fmt.Errorf("beta must not be negative, got %v", c.Beta)
	}
	if c.DedupSlack < 0 {
		return fmt.Errorf("dedup_slack must not be negative, got %d", c.DedupSlack)
	}
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be at least 1, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k (%d) must be >= default_k (%d)", c.MaxK, c.DefaultK)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// workerCount resolves Workers against the CPU count.
func (c *Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// clampK applies DefaultK and MaxK.
func (c *Config) clampK(k int) int {
	if k <= 0 {
		return c.DefaultK
	}
	if k > c.MaxK {
		return c.MaxK
	}
	return k
}
