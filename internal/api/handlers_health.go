// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/folio/internal/models"
)

// Health handles GET /api/v1/health. The status is "degraded" with HTTP
// 503 when the store does not answer a ping or the breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	health := models.HealthStatus{
		Status:       "healthy",
		BreakerState: "unknown",
	}

	if h.store != nil {
		health.Database = h.store.Ping(r.Context()) == nil
		health.IndexedTitles = h.store.IndexedTitles()
		if health.Database {
			books, ratings, err := h.store.Counts(r.Context())
			if err != nil {
				h.logger.Warn().Err(err).Msg("Health check could not count rows")
			}
			health.Books, health.Ratings = books, ratings
		}
	}
	if h.breaker != nil {
		health.BreakerState = h.breaker.State()
	}
	if sr, ok := h.recommender.(statsReporter); ok {
		st := sr.Stats()
		health.Recommendations = &models.RecommendationStats{Requests: st.Requests, Errors: st.Errors}
	}

	status := http.StatusOK
	if !health.Database || health.BreakerState == "open" {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: metadataFor(r, start),
	})
}
