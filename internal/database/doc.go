// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package database provides the DuckDB-backed rating store.

The store holds two tables loaded from the Book-Crossing dataset:

  - books: one row per ISBN with display title, lowercase title, author,
    publisher, publication year and cover image URLs
  - ratings: explicit ratings in (0, 10], one row per (user, ISBN)

DB implements recommend.RatingStore. All reads are parameterized and
context-aware. ResilientStore wraps any store in a circuit breaker
(sony/gobreaker) so a failing DuckDB file fails fast instead of piling up
requests.

# Ingestion

Ingest loads Books.csv (Windows-1251 by default) and Ratings.csv into
empty tables through the DuckDB Appender API. Headers are snake-cased,
text columns are stripped, HTML-unescaped and repaired when they contain
UTF-8 that was decoded as Latin-1. Zero ratings and ratings for unknown
ISBNs are dropped. Malformed rows are skipped with a warning.

# Title Search

TitlesMatching answers autocomplete queries from an in-memory prefix trie
(internal/cache) first, then falls back to a DuckDB substring scan. The
trie is rebuilt by RebuildTitleIndex, which the supervisor calls on a
schedule.

# Thread Safety

DB is safe for concurrent use. database/sql pools connections and the
title index is swapped atomically on rebuild.
*/
package database
