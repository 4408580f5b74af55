// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// Service exposes recommendation and title search to the request layer.
type Service struct {
	engine *Engine
	store  RatingStore
	config Config
	logger zerolog.Logger
}

// NewService creates a service and its engine over store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(store RatingStore, cfg Config, logger zerolog.Logger) (*Service, error) {
	engine, err := NewEngine(store, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Service{
		engine: engine,
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "recommend_service").Logger(),
	}, nil
}

// Stats returns the correlation engine counters.
func (s *Service) Stats() Stats {
	return s.engine.Stats()
}

// Recommend returns up to topN books similar to title. topN == 0 returns
// every candidate.
func (s *Service) Recommend(ctx context.Context, title string, topN int) (*Result, error) {
	start := time.Now()
	res, candidates, err := s.recommend(ctx, title, topN)

	outcome := "success"
	if err != nil {
		outcome = strings.ToLower(KindOf(err).String())
		if KindOf(err) == KindInternal {
			s.logger.Error().Err(err).Str("title", title).Msg("recommendation failed")
		}
	}
	metrics.RecordRecommendation(outcome, time.Since(start), candidates)
	return res, err
}

func (s *Service) recommend(ctx context.Context, title string, topN int) (*Result, int, error) {
	if strings.TrimSpace(title) == "" {
		return nil, -1, invalidInput(title, "book_title must not be empty")
	}
	if topN < 0 {
		return nil, -1, invalidInput(title, "top_n must be >= 0, got %d", topN)
	}

	records, err := s.engine.FindSimilarBooks(ctx, title)
	if err != nil {
		return nil, -1, err
	}
	candidates := len(records)

	if topN > 0 && len(records) > topN {
		records = records[:topN]
	}
	if len(records) == 0 {
		return &Result{SeedTitle: title, Items: []Recommendation{}}, candidates, nil
	}

	titles := make([]string, len(records))
	for i, r := range records {
		titles[i] = r.TitleLC
	}
	books, err := s.store.BooksByTitles(ctx, titles)
	if err != nil {
		return nil, candidates, internal(title, fmt.Errorf("books by %d titles: %w", len(titles), err))
	}
	representative := representativeBooks(books)

	items := make([]Recommendation, 0, len(records))
	for _, r := range records {
		book, ok := representative[r.TitleLC]
		if !ok {
			return nil, candidates, internal(title, fmt.Errorf("%w for %q", ErrMissingMetadata, r.TitleLC))
		}
		items = append(items, Recommendation{
			Book:          book,
			Correlation:   r.Correlation,
			AverageRating: r.AverageRating,
		})
	}

	return &Result{SeedTitle: title, Count: len(items), Items: items}, candidates, nil
}

// representativeBooks picks one row per title_lc: the lowest ISBN.
func representativeBooks(books []models.Book) map[string]models.Book {
	out := make(map[string]models.Book, len(books))
	for _, b := range books {
		cur, ok := out[b.TitleLC]
		if !ok || b.ISBN < cur.ISBN {
			out[b.TitleLC] = b
		}
	}
	return out
}

// Search returns up to limit titles matching query case-insensitively.
// limit <= 0 selects the configured default.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < s.config.SearchMinLength {
		metrics.RecordSearch("invalid_input")
		return nil, invalidInput(query, "query must be at least %d characters", s.config.SearchMinLength)
	}

	switch {
	case limit <= 0:
		limit = s.config.SearchLimit
	case limit > s.config.MaxSearchLimit:
		limit = s.config.MaxSearchLimit
	}

	titles, err := s.store.TitlesMatching(ctx, q, limit)
	if err != nil {
		metrics.RecordSearch("error")
		return nil, internal(query, fmt.Errorf("titles matching %q: %w", q, err))
	}
	if titles == nil {
		titles = []string{}
	}
	if len(titles) > limit {
		titles = titles[:limit]
	}
	metrics.RecordSearch("success")
	return titles, nil
}
