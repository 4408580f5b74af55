// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import "fmt"

// Config holds the tuning knobs of the engine and the search endpoint.
type Config struct {
	// MinRatings is the minimum number of pool rows a candidate title
	// needs to be correlated.
	MinRatings int `json:"min_ratings"`

	// SearchMinLength is the minimum query length, in runes, for Search.
	SearchMinLength int `json:"search_min_length"`

	// SearchLimit is the number of suggestions returned when the caller
	// does not ask for a specific limit.
	SearchLimit int `json:"search_limit"`

	// MaxSearchLimit caps caller-supplied limits.
	MaxSearchLimit int `json:"max_search_limit"`
}

// DefaultConfig returns the defaults used by the HTTP service.
func DefaultConfig() Config {
	return Config{
		MinRatings:      8,
		SearchMinLength: 3,
		SearchLimit:     10,
		MaxSearchLimit:  100,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.MinRatings < 1 {
		return fmt.Errorf("min_ratings must be at least 1, got %d", c.MinRatings)
	}
	if c.SearchMinLength < 1 {
		return fmt.Errorf("search_min_length must be at least 1, got %d", c.SearchMinLength)
	}
	if c.MaxSearchLimit < 1 {
		return fmt.Errorf("max_search_limit must be at least 1, got %d", c.MaxSearchLimit)
	}
	if c.SearchLimit < 1 || c.SearchLimit > c.MaxSearchLimit {
		return fmt.Errorf("search_limit must be between 1 and %d, got %d", c.MaxSearchLimit, c.SearchLimit)
	}
	return nil
}
