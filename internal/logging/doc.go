// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package logging owns the process-wide zerolog logger for Folio.
//
// Call Init once from main after configuration is loaded:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//	logging.Info().Str("addr", addr).Msg("listening")
//
// Request-scoped logging goes through Ctx, which stamps the request and
// correlation IDs placed on the context by the HTTP middleware:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("recommendation failed")
//
// Components that hold their own logger derive it with WithComponent and
// keep it as a zerolog.Logger value.
//
// Libraries that only speak log/slog (the suture event hook) are given a
// *slog.Logger from NewSlogLogger, which forwards into zerolog.
package logging
