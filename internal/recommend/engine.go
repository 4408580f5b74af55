// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
)

// Engine computes ranked correlations for a seed title.
// It is safe for concurrent use.
type Engine struct {
	store  RatingStore
	config Config
	logger zerolog.Logger

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// Stats reports engine counters since startup.
type Stats struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
}

// NewEngine creates an engine reading from store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store RatingStore, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if store == nil {
		return nil, errors.New("rating store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// FindSimilarBooks returns the titles whose ratings correlate with
// seedTitle among the seed's readers, best first. An empty slice means
// candidates existed but none correlated non-negatively.
func (e *Engine) FindSimilarBooks(ctx context.Context, seedTitle string) ([]CorrelationRecord, error) {
	e.requestCount.Add(1)
	ranked, err := e.rank(ctx, seedTitle)
	if err != nil {
		if KindOf(err) == KindInternal {
			e.errorCount.Add(1)
		}
		return nil, err
	}

	out := make([]CorrelationRecord, len(ranked))
	for i, c := range ranked {
		out[i] = CorrelationRecord{
			TitleLC:       c.title,
			Correlation:   round2(c.correlation),
			AverageRating: round2(c.average),
		}
	}
	return out, nil
}

func (e *Engine) rank(ctx context.Context, seedTitle string) ([]scored, error) {
	seedKey := strings.ToLower(seedTitle)

	readers, err := e.store.UsersWhoRated(ctx, seedKey)
	if err != nil {
		return nil, internal(seedTitle, fmt.Errorf("users who rated %q: %w", seedKey, err))
	}
	if len(readers) == 0 {
		return nil, &Error{Kind: KindBookNotFound, Input: seedTitle}
	}

	pool, err := e.store.RatingsByUsers(ctx, readers)
	if err != nil {
		return nil, internal(seedTitle, fmt.Errorf("ratings by %d users: %w", len(readers), err))
	}
	metrics.CoRatingPoolSize.Observe(float64(len(pool)))

	stats := aggregatePool(pool, seedKey, e.config.MinRatings)
	if _, ok := stats.matrix[seedKey]; !ok {
		// Readers were found but their history no longer contains the
		// seed, e.g. data changed between the two reads.
		return nil, &Error{Kind: KindBookNotFound, Input: seedTitle}
	}
	if stats.candidates == 0 {
		e.logger.Debug().
			Str("seed", seedKey).
			Int("readers", len(readers)).
			Int("pool_rows", len(pool)).
			Int("min_ratings", e.config.MinRatings).
			Msg("no candidate title meets minimum support")
		return nil, &Error{Kind: KindNotEnoughRatings, Input: seedTitle}
	}

	ranked := rankCandidates(stats, seedKey)
	e.logger.Debug().
		Str("seed", seedKey).
		Int("readers", len(readers)).
		Int("pool_rows", len(pool)).
		Int("eligible", stats.candidates).
		Int("correlated", len(ranked)).
		Msg("correlations computed")
	return ranked, nil
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests: e.requestCount.Load(),
		Errors:   e.errorCount.Load(),
	}
}
