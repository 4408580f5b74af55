// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/database"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/supervisor"
	"github.com/tomtom215/folio/internal/supervisor/services"
)

// ingestIfEmpty loads the CSV exports when configured. A populated store
// is left untouched.
func ingestIfEmpty(ctx context.Context, cfg *config.Config, db *database.DB) error {
	if !cfg.Ingest.OnStartup {
		logging.Info().Msg("CSV ingestion disabled (INGEST_ON_STARTUP=false)")
		return nil
	}

	_, err := db.Ingest(ctx, database.IngestOptions{
		BooksPath:     cfg.Ingest.BooksCSV,
		RatingsPath:   cfg.Ingest.RatingsCSV,
		BooksEncoding: cfg.Ingest.BooksEncoding,
	})
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	// Ingest logs its own summary.
	return nil
}

// recommendConfig maps the loaded configuration onto the service config.
func recommendConfig(cfg config.RecommendConfig) recommend.Config {
	rc := recommend.DefaultConfig()
	if cfg.MinRatings > 0 {
		rc.MinRatings = cfg.MinRatings
	}
	if cfg.SearchMinLength > 0 {
		rc.SearchMinLength = cfg.SearchMinLength
	}
	if cfg.SearchLimit > 0 {
		rc.SearchLimit = min(cfg.SearchLimit, rc.MaxSearchLimit)
	}
	return rc
}

// initRecommend builds the breaker-wrapped store and the service on top.
func initRecommend(cfg *config.Config, db *database.DB) (*recommend.Service, *database.ResilientStore, error) {
	store := database.NewResilientStore(db, cfg.Breaker)

	rc := recommendConfig(cfg.Recommend)
	svc, err := recommend.NewService(store, rc, logging.Logger())
	if err != nil {
		return nil, nil, fmt.Errorf("recommend service: %w", err)
	}

	logging.Info().
		Int("min_ratings", rc.MinRatings).
		Int("search_min_length", rc.SearchMinLength).
		Int("search_limit", rc.SearchLimit).
		Msg("Recommendation service initialized")
	return svc, store, nil
}

// addIndexService keeps the autocomplete index fresh under the data layer.
func addIndexService(cfg *config.Config, db *database.DB, tree *supervisor.SupervisorTree) {
	svc := services.NewIndexService(db, services.IndexServiceConfig{
		BuildOnStartup:  true,
		RefreshInterval: cfg.Recommend.IndexRefreshInterval,
	}, logging.Logger())
	tree.AddDataService(svc)
	logging.Info().
		Dur("refresh_interval", cfg.Recommend.IndexRefreshInterval).
		Msg("Title index service added to supervisor tree")
}
