// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import "time"

// APIResponse wraps every JSON body the API writes.
//
// Success:
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":12}}
//
// Failure:
//
//	{"status":"error","data":null,"metadata":{...},
//	 "error":{"code":"BOOK_NOT_FOUND","message":"Book Dune is not in the database.","details":{"input":"Dune","input_type":"string"}}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable failure. Code values are listed in
// internal/api/errors.go.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status        string `json:"status"` // healthy or degraded
	Database      bool   `json:"database_connected"`
	BreakerState  string `json:"breaker_state"`
	IndexedTitles int    `json:"indexed_titles"`
	Books         int64  `json:"books"`
	Ratings       int64  `json:"ratings"`

	// Recommendations is nil when the recommender keeps no counters.
	Recommendations *RecommendationStats `json:"recommendations,omitempty"`
}

// RecommendationStats counts correlation engine runs since startup.
type RecommendationStats struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
}
