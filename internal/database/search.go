// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
search.go - Title Autocomplete

Autocomplete is answered in two tiers:
  1. Prefix matches from the in-memory trie, ranked by rating count.
     O(m) to reach the subtree where m = query length.
  2. Substring matches from DuckDB (contains(book_title_lc, ?)) when the
     trie yields fewer than limit titles.

Results are distinct display titles. The display form of a title shared by
several editions is the one on the lowest ISBN, the same representative
the recommendation service uses.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/folio/internal/cache"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
)

// titleCount is one distinct title with its number of ratings.
type titleCount struct {
	title string
	count int
}

func scanTitleCount(rows *sql.Rows) (titleCount, error) {
	var tc titleCount
	err := rows.Scan(&tc.title, &tc.count)
	return tc, err
}

// RebuildTitleIndex reloads every rated title into a fresh trie and swaps
// it in. Readers keep using the previous trie until the swap.
func (db *DB) RebuildTitleIndex(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { observe("rebuild_title_index", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `
		SELECT arg_min(b.book_title, b.isbn) AS title, COUNT(*) AS n
		FROM books b
		JOIN ratings r ON r.isbn = b.isbn
		GROUP BY b.book_title_lc
	`
	titles, err := queryAndScan(ctx, db.conn, query, nil, scanTitleCount)
	if err != nil {
		return 0, fmt.Errorf("failed to load titles for index: %w", err)
	}

	trie := cache.NewTrie()
	for _, tc := range titles {
		trie.Insert(tc.title, tc.title, tc.count)
	}
	db.titleIndex.Store(trie)

	elapsed := time.Since(start)
	metrics.TitleIndexSize.Set(float64(trie.Size()))
	metrics.TitleIndexRebuildDuration.Observe(elapsed.Seconds())
	logging.Debug().
		Int("titles", trie.Size()).
		Dur("duration", elapsed).
		Msg("Title index rebuilt")

	return trie.Size(), nil
}

// IndexedTitles returns the number of titles in the prefix index.
func (db *DB) IndexedTitles() int {
	return db.titleIndex.Load().Size()
}

// TitlesMatching returns up to limit distinct display titles whose
// lowercase form starts with or contains partial.
func (db *DB) TitlesMatching(ctx context.Context, partial string, limit int) (titles []string, err error) {
	partial = strings.ToLower(strings.TrimSpace(partial))
	if partial == "" || limit <= 0 {
		return []string{}, nil
	}

	titles = make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	add := func(title string) {
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup || len(titles) >= limit {
			return
		}
		seen[key] = struct{}{}
		titles = append(titles, title)
	}

	for _, hit := range db.titleIndex.Load().PrefixSearch(partial, limit) {
		add(hit.Value)
	}
	if len(titles) >= limit {
		return titles, nil
	}

	start := time.Now()
	defer func() { observe("titles_matching", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `
		SELECT arg_min(b.book_title, b.isbn) AS title, COUNT(r.isbn) AS n
		FROM books b
		LEFT JOIN ratings r ON r.isbn = b.isbn
		WHERE contains(b.book_title_lc, ?)
		GROUP BY b.book_title_lc
		ORDER BY n DESC, title
		LIMIT ?
	`
	// Over-fetch so prefix hits already returned don't starve the result.
	matches, err := queryAndScan(ctx, db.conn, query, []interface{}{partial, limit + len(titles)}, scanTitleCount)
	if err != nil {
		return nil, fmt.Errorf("failed to search titles matching %q: %w", partial, err)
	}
	for _, m := range matches {
		add(m.title)
	}
	return titles, nil
}
