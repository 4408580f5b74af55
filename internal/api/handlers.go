// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend"
)

// Recommender is the service surface the handlers call.
// *recommend.Service satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, title string, topN int) (*recommend.Result, error)
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// statsReporter is implemented by recommenders that count engine runs.
// *recommend.Service satisfies it.
type statsReporter interface {
	Stats() recommend.Stats
}

// StoreHealth reports on the backing store. *database.DB satisfies it.
type StoreHealth interface {
	Ping(ctx context.Context) error
	Counts(ctx context.Context) (books, ratings int64, err error)
	IndexedTitles() int
}

// BreakerState reports the circuit breaker state. *database.ResilientStore
// satisfies it.
type BreakerState interface {
	State() string
}

// Handler holds the dependencies of the HTTP handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response envelope and request decoding
//   - handlers_recommend.go: recommend and autocomplete
//   - handlers_health.go: health
type Handler struct {
	recommender Recommender
	store       StoreHealth
	breaker     BreakerState
	logger      zerolog.Logger
}

// NewHandler returns a Handler. store and breaker may be nil; health then
// reports them as unknown.
func NewHandler(rec Recommender, store StoreHealth, breaker BreakerState) (*Handler, error) {
	if rec == nil {
		return nil, errors.New("api: recommender is required")
	}
	return &Handler{
		recommender: rec,
		store:       store,
		breaker:     breaker,
		logger:      logging.WithComponent("api"),
	}, nil
}
