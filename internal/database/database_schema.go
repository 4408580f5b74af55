// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
database_schema.go - Database Schema Management

Tables:
  - books: Book-Crossing Books.csv, one row per ISBN. book_title_lc is
    lower(book_title) and is the grouping key for every store read.
  - ratings: Book-Crossing Ratings.csv restricted to explicit ratings
    (book_rating > 0) whose ISBN exists in books.

Index Strategy:
  - books(book_title_lc) for seed lookups and metadata joins
  - ratings(isbn) for the ratings→books join
  - ratings(user_id) for co-rating pool reads
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS books (
			isbn                VARCHAR PRIMARY KEY,
			book_title          VARCHAR NOT NULL,
			book_title_lc       VARCHAR NOT NULL,
			book_author         VARCHAR,
			publisher           VARCHAR,
			year_of_publication INTEGER,
			image_url_s         VARCHAR,
			image_url_m         VARCHAR,
			image_url_l         VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			user_id     BIGINT NOT NULL,
			isbn        VARCHAR NOT NULL,
			book_rating DOUBLE NOT NULL CHECK (book_rating > 0)
		)`,
	}

	for _, q := range queries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// createIndexes creates indexes for the store queries
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_books_title_lc ON books(book_title_lc)",
		"CREATE INDEX IF NOT EXISTS idx_ratings_isbn ON ratings(isbn)",
		"CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)",
	}

	for _, q := range indexes {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
