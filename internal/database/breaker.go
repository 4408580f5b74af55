// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package database

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// ErrStoreUnavailable is returned while the circuit is open or saturated.
// It wraps the underlying gobreaker error.
var ErrStoreUnavailable = errors.New("rating store unavailable")

// RatingReader is the read surface protected by ResilientStore.
type RatingReader interface {
	UsersWhoRated(ctx context.Context, titleLC string) ([]int64, error)
	RatingsByUsers(ctx context.Context, userIDs []int64) ([]models.Rating, error)
	BooksByTitles(ctx context.Context, titleLCs []string) ([]models.Book, error)
	TitlesMatching(ctx context.Context, partial string, limit int) ([]string, error)
}

// ResilientStore wraps a RatingReader with a circuit breaker.
//
// The breaker uses real time (via sony/gobreaker) for its interval and
// timeout. Tests that exercise tripping use short timeouts.
type ResilientStore struct {
	store RatingReader
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

// NewResilientStore wraps store with a breaker configured by cfg. The
// circuit opens when at least MinRequests were seen in the current
// interval and the failure ratio reaches FailureRatio.
func NewResilientStore(store RatingReader, cfg config.BreakerConfig) *ResilientStore {
	name := "duckdb-store"

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.FailureRatio
			if trip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		// A caller giving up is not a store failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &ResilientStore{store: store, cb: cb, name: name}
}

// execute runs fn through the breaker and records the outcome.
func (r *ResilientStore) execute(fn func() (any, error)) (any, error) {
	result, err := r.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(r.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(r.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(r.name, "success").Inc()
	return result, nil
}

// castResult type-asserts the breaker result.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// UsersWhoRated implements the store contract with breaker protection.
func (r *ResilientStore) UsersWhoRated(ctx context.Context, titleLC string) ([]int64, error) {
	return castResult[[]int64](r.execute(func() (any, error) {
		return r.store.UsersWhoRated(ctx, titleLC)
	}))
}

// RatingsByUsers implements the store contract with breaker protection.
func (r *ResilientStore) RatingsByUsers(ctx context.Context, userIDs []int64) ([]models.Rating, error) {
	return castResult[[]models.Rating](r.execute(func() (any, error) {
		return r.store.RatingsByUsers(ctx, userIDs)
	}))
}

// BooksByTitles implements the store contract with breaker protection.
func (r *ResilientStore) BooksByTitles(ctx context.Context, titleLCs []string) ([]models.Book, error) {
	return castResult[[]models.Book](r.execute(func() (any, error) {
		return r.store.BooksByTitles(ctx, titleLCs)
	}))
}

// TitlesMatching implements the store contract with breaker protection.
func (r *ResilientStore) TitlesMatching(ctx context.Context, partial string, limit int) ([]string, error) {
	return castResult[[]string](r.execute(func() (any, error) {
		return r.store.TitlesMatching(ctx, partial, limit)
	}))
}

// State returns the breaker state: closed, half-open or open.
func (r *ResilientStore) State() string {
	return stateToString(r.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
