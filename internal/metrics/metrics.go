// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package metrics registers Folio's Prometheus collectors with the default
// registry and offers small Record helpers so callers never touch label
// ordering directly.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_api_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// DuckDB
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_duckdb_query_errors_total",
			Help: "Total number of failed DuckDB queries",
		},
		[]string{"operation", "error_type"},
	)

	IngestRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_ingest_rows_total",
			Help: "CSV rows processed during ingestion",
		},
		[]string{"table", "result"}, // result: loaded, skipped
	)

	// Recommendation engine
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_recommendation_duration_seconds",
			Help:    "End-to-end recommendation latency including store reads",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	CoRatingPoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_co_rating_pool_size",
			Help:    "Rating rows authored by the seed title's readers",
			Buckets: prometheus.ExponentialBuckets(10, 4, 9), // 10 .. ~650k
		},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_recommendation_candidates",
			Help:    "Correlated candidate titles per request before truncation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// Title search
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_search_requests_total",
			Help: "Title search requests by outcome",
		},
		[]string{"outcome"},
	)

	TitleIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_title_index_entries",
			Help: "Distinct titles in the in-memory prefix index",
		},
	)

	TitleIndexRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_title_index_rebuild_duration_seconds",
			Help:    "Time to rebuild the title prefix index",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "folio_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest observes one finished HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments (true) or decrements (false) the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordDBQuery observes one store query. Errors are bucketed into a small
// fixed set of labels to keep cardinality bounded.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, classifyError(err)).Inc()
	}
}

func classifyError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "query"
	}
}

// RecordRecommendation observes one Recommend call. candidates is the
// number of correlated titles before truncation, or -1 when the request
// failed before correlation.
func RecordRecommendation(outcome string, duration time.Duration, candidates int) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	if candidates >= 0 {
		RecommendationCandidates.Observe(float64(candidates))
	}
}

// RecordSearch counts one title search by outcome.
func RecordSearch(outcome string) {
	SearchRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordIngestRows adds n rows for table with result "loaded" or "skipped".
func RecordIngestRows(table, result string, n int) {
	IngestRows.WithLabelValues(table, result).Add(float64(n))
}
