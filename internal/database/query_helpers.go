// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tomtom215/folio/internal/metrics"
)

// maxInParams bounds the number of placeholders in one IN (...) list.
// Larger key sets are queried in chunks.
const maxInParams = 1000

// scanFunc is a function that scans a single row into a result type
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan executes a query and scans all rows using the provided scan function
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []interface{}, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// queryInChunks runs queryTemplate once per chunk of keys. The template
// must contain a single %s that receives the placeholder list.
func queryInChunks[K any, T any](ctx context.Context, db *sql.DB, queryTemplate string, keys []K, scan scanFunc[T]) ([]T, error) {
	var results []T
	for start := 0; start < len(keys); start += maxInParams {
		end := min(start+maxInParams, len(keys))
		chunk := keys[start:end]

		args := make([]interface{}, len(chunk))
		for i, k := range chunk {
			args[i] = k
		}
		query := strings.Replace(queryTemplate, "%s", placeholders(len(chunk)), 1)

		part, err := queryAndScan(ctx, db, query, args, scan)
		if err != nil {
			return nil, err
		}
		results = append(results, part...)
	}
	return results, nil
}

// placeholders returns "?, ?, ..." with n entries.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// observe records the duration and outcome of a store operation.
func observe(operation string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, time.Since(start), err)
}
