// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/database"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend"
)

// captureLogs routes the global logger into a buffer for the test.
// Callers must not run in parallel.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Output: &buf, NoTimestamp: true})
	t.Cleanup(func() { logging.Init(logging.Config{}) })
	return &buf
}

// logEntries decodes one JSON object per line.
func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var e map[string]any
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("log line is not JSON: %v: %s", err, sc.Text())
		}
		entries = append(entries, e)
	}
	return entries
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Path: database.MemoryPath, MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func TestIngestIfEmpty_SingleSummary(t *testing.T) {
	dir := t.TempDir()
	books := filepath.Join(dir, "Books.csv")
	ratings := filepath.Join(dir, "Ratings.csv")
	if err := os.WriteFile(books, []byte("ISBN,Book-Title\n0451524934,1984\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ratings, []byte("User-ID,ISBN,Book-Rating\n1,0451524934,7\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	buf := captureLogs(t)
	cfg := &config.Config{Ingest: config.IngestConfig{
		OnStartup: true, BooksCSV: books, RatingsCSV: ratings, BooksEncoding: "utf-8",
	}}
	if err := ingestIfEmpty(context.Background(), cfg, openTestDB(t)); err != nil {
		t.Fatalf("ingestIfEmpty() error = %v", err)
	}

	summaries := 0
	for _, e := range logEntries(t, buf) {
		if msg, _ := e["message"].(string); strings.Contains(strings.ToLower(msg), "ingestion complete") {
			summaries++
		}
	}
	if summaries != 1 {
		t.Errorf("ingestion summary logged %d times, want 1", summaries)
	}
}

func TestInitRecommend_LogsEffectiveConfig(t *testing.T) {
	buf := captureLogs(t)

	cfg := &config.Config{
		Recommend: config.RecommendConfig{SearchLimit: 500},
		Breaker:   config.BreakerConfig{MaxRequests: 1, FailureRatio: 0.5, MinRequests: 5},
	}
	if _, _, err := initRecommend(cfg, openTestDB(t)); err != nil {
		t.Fatalf("initRecommend() error = %v", err)
	}

	want := recommend.DefaultConfig()
	for _, e := range logEntries(t, buf) {
		if e["message"] != "Recommendation service initialized" {
			continue
		}
		// JSON numbers decode as float64.
		if e["min_ratings"] != float64(want.MinRatings) ||
			e["search_min_length"] != float64(want.SearchMinLength) ||
			e["search_limit"] != float64(want.MaxSearchLimit) {
			t.Errorf("logged config = %v, want effective %+v", e, want)
		}
		return
	}
	t.Error("initialization log line not found")
}

func TestRecommendConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   config.RecommendConfig
		want recommend.Config
	}{
		{
			name: "zero values keep defaults",
			in:   config.RecommendConfig{},
			want: recommend.DefaultConfig(),
		},
		{
			name: "overrides",
			in:   config.RecommendConfig{MinRatings: 3, SearchMinLength: 2, SearchLimit: 20},
			want: recommend.Config{MinRatings: 3, SearchMinLength: 2, SearchLimit: 20, MaxSearchLimit: 100},
		},
		{
			name: "search limit capped",
			in:   config.RecommendConfig{SearchLimit: 500},
			want: recommend.Config{MinRatings: 8, SearchMinLength: 3, SearchLimit: 100, MaxSearchLimit: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := recommendConfig(tt.in)
			if got != tt.want {
				t.Errorf("recommendConfig() = %+v, want %+v", got, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}
