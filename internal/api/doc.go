// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package api exposes the recommendation service over HTTP.

Routes:

	POST /api/v1/recommend      {"book_title": "...", "top_n": 5}
	GET  /api/v1/autocomplete   ?q=...&limit=10
	GET  /api/v1/health
	GET  /metrics               Prometheus exposition

Every JSON body is wrapped in models.APIResponse. Domain failures map to
status codes in errors.go:

  - BOOK_NOT_FOUND, NOT_ENOUGH_RATINGS: 422 with the caller's input echoed
    in error.details
  - VALIDATION_ERROR: 400, for request validation and service input checks
  - RATE_LIMITED: 429 from the per-IP limiter on /api/v1
  - SERVICE_UNAVAILABLE: 503 while the store circuit breaker is open
  - TIMEOUT: 504 when the request deadline expires
  - INTERNAL_ERROR: 500

Routing uses chi with go-chi/cors and go-chi/httprate. Bodies are encoded
with goccy/go-json.
*/
package api
