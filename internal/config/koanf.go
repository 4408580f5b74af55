// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/folio/config.yaml",
	"/etc/folio/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/folio.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Ingest: IngestConfig{
			OnStartup:     true,
			BooksCSV:      "/data/Books.csv",
			RatingsCSV:    "/data/Ratings.csv",
			BooksEncoding: "cp1251", // the Kaggle Book-Crossing export
		},
		Server: ServerConfig{
			Port:           8000,
			Host:           "0.0.0.0",
			Timeout:        30 * time.Second,
			RequestTimeout: 10 * time.Second,
			Environment:    "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"http://localhost:8000", "http://127.0.0.1:8000"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			MinRatings:           8,
			SearchMinLength:      3,
			SearchLimit:          10,
			IndexRefreshInterval: time.Hour,
		},
		Breaker: BreakerConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
	}
}

// LoadWithKoanf layers defaults, the optional YAML file and the environment,
// in increasing priority, then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue // unset, or already a list from YAML
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"duckdb_path":            "database.path",
	"duckdb_max_memory":      "database.max_memory",
	"duckdb_threads":         "database.threads",
	"duckdb_preserve_order":  "database.preserve_insertion_order",
	"ingest_on_startup":      "ingest.on_startup",
	"books_csv":              "ingest.books_csv",
	"ratings_csv":            "ingest.ratings_csv",
	"books_encoding":         "ingest.books_encoding",
	"http_port":              "server.port",
	"http_host":              "server.host",
	"http_timeout":           "server.timeout",
	"request_timeout":        "server.request_timeout",
	"environment":            "server.environment",
	"rate_limit_requests":    "security.rate_limit_reqs",
	"rate_limit_window":      "security.rate_limit_window",
	"disable_rate_limit":     "security.rate_limit_disabled",
	"cors_origins":           "security.cors_origins",
	"log_level":              "logging.level",
	"log_format":             "logging.format",
	"log_caller":             "logging.caller",
	"min_n_ratings":          "recommend.min_ratings",
	"search_min_length":      "recommend.search_min_length",
	"search_limit":           "recommend.search_limit",
	"index_refresh_interval": "recommend.index_refresh_interval",
	"breaker_max_requests":   "breaker.max_requests",
	"breaker_interval":       "breaker.interval",
	"breaker_timeout":        "breaker.timeout",
	"breaker_min_requests":   "breaker.min_requests",
	"breaker_failure_ratio":  "breaker.failure_ratio",
}

// envTransformFunc maps an environment variable to its koanf path, or ""
// to skip it:
//
//	DUCKDB_PATH   -> database.path
//	MIN_N_RATINGS -> recommend.min_ratings
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
