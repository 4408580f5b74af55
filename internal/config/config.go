// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package config loads Folio's runtime configuration.
//
// Values are layered by koanf: built-in defaults, then an optional YAML file
// (CONFIG_PATH or ./config.yaml), then environment variables. See
// envTransformFunc for the accepted variable names.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Ingest    IngestConfig    `koanf:"ingest"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Breaker   BreakerConfig   `koanf:"breaker"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path                   string `koanf:"path"`                     // ":memory:" for an ephemeral store
	MaxMemory              string `koanf:"max_memory"`               // DuckDB max_memory, e.g. "1GB"
	Threads                int    `koanf:"threads"`                  // 0 = runtime.NumCPU()
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // DuckDB default is true
}

// IngestConfig locates the Book-Crossing CSV exports loaded into an empty store.
type IngestConfig struct {
	OnStartup  bool   `koanf:"on_startup"`
	BooksCSV   string `koanf:"books_csv"`
	RatingsCSV string `koanf:"ratings_csv"`
	// BooksEncoding is the charset of BooksCSV: "cp1251", "latin1" or "utf-8".
	BooksEncoding string `koanf:"books_encoding"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int           `koanf:"port"`
	Host           string        `koanf:"host"`
	Timeout        time.Duration `koanf:"timeout"`         // read/write timeout
	RequestTimeout time.Duration `koanf:"request_timeout"` // per-request context deadline
	Environment    string        `koanf:"environment"`     // development, staging, production
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig tunes the correlation engine and title search.
type RecommendConfig struct {
	// MinRatings is the minimum number of ratings a candidate title needs
	// among the seed's readers.
	// Default: 8
	MinRatings int `koanf:"min_ratings"`

	// SearchMinLength is the shortest accepted autocomplete query, in runes.
	// Default: 3
	SearchMinLength int `koanf:"search_min_length"`

	// SearchLimit is the number of suggestions returned when the caller
	// does not ask for a specific count.
	// Default: 10
	SearchLimit int `koanf:"search_limit"`

	// IndexRefreshInterval controls how often the title prefix index is
	// rebuilt from the store. 0 builds it once at startup only.
	// Default: 1h
	IndexRefreshInterval time.Duration `koanf:"index_refresh_interval"`
}

// BreakerConfig configures the circuit breaker around store reads.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`  // probes allowed while half-open
	Interval     time.Duration `koanf:"interval"`      // closed-state counter reset period
	Timeout      time.Duration `koanf:"timeout"`       // open → half-open delay
	MinRequests  uint32        `koanf:"min_requests"`  // requests before the ratio is considered
	FailureRatio float64       `koanf:"failure_ratio"` // trip threshold in (0,1]
}

// Load is the entry point used by main. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
