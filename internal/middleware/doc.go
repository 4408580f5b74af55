// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package middleware provides HTTP middleware for the Folio API.

All middleware uses the chi signature func(http.Handler) http.Handler.

Key Components:

  - RequestID: X-Request-ID propagation and context IDs for logging
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern to keep cardinality bounded
  - AccessLog: one structured zerolog line per request
  - Timeout: per-request context deadline

Middleware Stack (see internal/api):

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(cors)
	r.Use(rateLimit)
	r.Use(middleware.Timeout(10 * time.Second))
*/
package middleware
