// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

var validEncodings = map[string]bool{
	"cp1251": true, "windows-1251": true, "latin1": true, "iso-8859-1": true, "utf-8": true, "utf8": true,
}

// NormalizeEncoding is the form BOOKS_ENCODING is compared in, both here
// and when the CSV is decoded.
func NormalizeEncoding(encoding string) string {
	return strings.ToLower(strings.TrimSpace(encoding))
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateBreaker(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	return nil
}

func (c *Config) validateIngest() error {
	if !c.Ingest.OnStartup {
		return nil
	}
	if c.Ingest.BooksCSV == "" || c.Ingest.RatingsCSV == "" {
		return fmt.Errorf("BOOKS_CSV and RATINGS_CSV are required when INGEST_ON_STARTUP=true")
	}
	if !validEncodings[NormalizeEncoding(c.Ingest.BooksEncoding)] {
		return fmt.Errorf("BOOKS_ENCODING must be one of: cp1251, latin1, utf-8")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitReqs > 100000 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	for _, o := range c.Security.CORSOrigins {
		if o == "*" && c.Server.Environment == "production" {
			return fmt.Errorf("CORS_ORIGINS must not contain * in production")
		}
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MinRatings < 1 {
		return fmt.Errorf("MIN_N_RATINGS must be >= 1")
	}
	if r.SearchMinLength < 1 {
		return fmt.Errorf("SEARCH_MIN_LENGTH must be >= 1")
	}
	if r.SearchLimit < 1 || r.SearchLimit > 100 {
		return fmt.Errorf("SEARCH_LIMIT must be between 1 and 100")
	}
	if r.IndexRefreshInterval < 0 {
		return fmt.Errorf("INDEX_REFRESH_INTERVAL must be >= 0")
	}
	return nil
}

func (c *Config) validateBreaker() error {
	b := c.Breaker
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
