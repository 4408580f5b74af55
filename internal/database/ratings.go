// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/folio/internal/models"
)

// UsersWhoRated returns the distinct users who rated any edition whose
// lowercase title is titleLC, in ascending order.
func (db *DB) UsersWhoRated(ctx context.Context, titleLC string) (users []int64, err error) {
	start := time.Now()
	defer func() { observe("users_who_rated", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `
		SELECT DISTINCT r.user_id
		FROM ratings r
		JOIN books b ON b.isbn = r.isbn
		WHERE b.book_title_lc = ?
		ORDER BY r.user_id
	`
	users, err = queryAndScan(ctx, db.conn, query, []interface{}{titleLC}, func(rows *sql.Rows) (int64, error) {
		var id int64
		err := rows.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query users who rated %q: %w", titleLC, err)
	}
	return users, nil
}

// RatingsByUsers returns every rating by the given users joined to the
// rated book's lowercase title, ordered by user then ISBN.
func (db *DB) RatingsByUsers(ctx context.Context, userIDs []int64) (ratings []models.Rating, err error) {
	if len(userIDs) == 0 {
		return []models.Rating{}, nil
	}

	start := time.Now()
	defer func() { observe("ratings_by_users", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `
		SELECT r.user_id, r.isbn, b.book_title_lc, r.book_rating
		FROM ratings r
		JOIN books b ON b.isbn = r.isbn
		WHERE r.user_id IN (%s)
		ORDER BY r.user_id, r.isbn
	`
	ratings, err = queryInChunks(ctx, db.conn, query, userIDs, func(rows *sql.Rows) (models.Rating, error) {
		var r models.Rating
		err := rows.Scan(&r.UserID, &r.ISBN, &r.TitleLC, &r.Rating)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings for %d users: %w", len(userIDs), err)
	}
	return ratings, nil
}

// BooksByTitles returns every edition whose lowercase title is in
// titleLCs, ordered by title then ISBN.
func (db *DB) BooksByTitles(ctx context.Context, titleLCs []string) (books []models.Book, err error) {
	if len(titleLCs) == 0 {
		return []models.Book{}, nil
	}

	start := time.Now()
	defer func() { observe("books_by_titles", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `
		SELECT isbn, book_title, book_title_lc,
		       COALESCE(book_author, ''), COALESCE(publisher, ''),
		       year_of_publication, COALESCE(image_url_s, '')
		FROM books
		WHERE book_title_lc IN (%s)
		ORDER BY book_title_lc, isbn
	`
	books, err = queryInChunks(ctx, db.conn, query, titleLCs, scanBook)
	if err != nil {
		return nil, fmt.Errorf("failed to query books for %d titles: %w", len(titleLCs), err)
	}
	return books, nil
}

func scanBook(rows *sql.Rows) (models.Book, error) {
	var (
		b    models.Book
		year sql.NullInt32
	)
	if err := rows.Scan(&b.ISBN, &b.Title, &b.TitleLC, &b.Author, &b.Publisher, &year, &b.ImageURL); err != nil {
		return b, err
	}
	if year.Valid {
		y := int(year.Int32)
		b.PublicationYear = &y
	}
	return b, nil
}
