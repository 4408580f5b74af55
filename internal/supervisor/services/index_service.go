// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package services provides suture service wrappers for Folio components.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TitleIndexer rebuilds the in-memory title prefix index.
// *database.DB satisfies it.
type TitleIndexer interface {
	RebuildTitleIndex(ctx context.Context) (int, error)
}

// IndexServiceConfig configures IndexService.
type IndexServiceConfig struct {
	// BuildOnStartup rebuilds the index as soon as the service starts.
	BuildOnStartup bool

	// RefreshInterval is the rebuild period. <= 0 disables periodic
	// rebuilds; the service then idles until shutdown.
	RefreshInterval time.Duration

	// BuildTimeout bounds a single rebuild. Default: 5m
	BuildTimeout time.Duration
}

// IndexService keeps the title autocomplete index fresh.
type IndexService struct {
	indexer TitleIndexer
	config  IndexServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewIndexService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIndexService(indexer TitleIndexer, cfg IndexServiceConfig, logger zerolog.Logger) *IndexService {
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = 5 * time.Minute
	}
	return &IndexService{
		indexer: indexer,
		config:  cfg,
		logger:  logger.With().Str("service", "title-index").Logger(),
		name:    "title-index-service",
	}
}

// Serve implements suture.Service. Rebuild failures are logged and retried
// on the next tick; they never stop the service.
func (s *IndexService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("build_on_startup", s.config.BuildOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("title index service starting")

	if s.config.BuildOnStartup {
		if err := s.rebuild(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial title index build failed (will retry on schedule)")
		}
	}

	if s.config.RefreshInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("title index service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.rebuild(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled title index rebuild failed")
			}
		}
	}
}

func (s *IndexService) rebuild(ctx context.Context) error {
	buildCtx, cancel := context.WithTimeout(ctx, s.config.BuildTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.indexer.RebuildTitleIndex(buildCtx)
	if err != nil {
		return err
	}

	s.logger.Info().
		Int("titles", n).
		Dur("duration", time.Since(start)).
		Msg("title index rebuilt")
	return nil
}

// String names the service in suture events.
func (s *IndexService) String() string {
	return s.name
}
