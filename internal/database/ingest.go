// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package database

import (
	"context"
	"database/sql/driver"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/duckdb/duckdb-go/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
)

// IngestOptions locates the Book-Crossing CSV exports.
type IngestOptions struct {
	BooksPath   string
	RatingsPath string
	// BooksEncoding is the charset of BooksPath. Ratings are ASCII.
	BooksEncoding string
}

// IngestStats summarizes one ingestion run.
type IngestStats struct {
	// AlreadyLoaded is true when the tables were not empty and nothing
	// was read.
	AlreadyLoaded bool `json:"already_loaded"`

	Books          int `json:"books"`
	BooksSkipped   int `json:"books_skipped"`
	Ratings        int `json:"ratings"`
	RatingsSkipped int `json:"ratings_skipped"` // malformed rows
	RatingsDropped int `json:"ratings_dropped"` // zero rating or unknown ISBN

	Duration time.Duration `json:"duration"`
}

// Ingest loads the CSV files into empty books and ratings tables.
// Populated tables are left untouched.
func (db *DB) Ingest(ctx context.Context, opts IngestOptions) (*IngestStats, error) {
	books, ratings, err := db.Counts(ctx)
	if err != nil {
		return nil, err
	}
	if books > 0 || ratings > 0 {
		logging.Info().
			Int64("books", books).
			Int64("ratings", ratings).
			Msg("Store already populated, skipping ingestion")
		return &IngestStats{AlreadyLoaded: true}, nil
	}

	bf, err := os.Open(opts.BooksPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open books csv: %w", err)
	}
	defer closeWithLog(bf, "books csv")

	rf, err := os.Open(opts.RatingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ratings csv: %w", err)
	}
	defer closeWithLog(rf, "ratings csv")

	return db.IngestReaders(ctx, bf, rf, opts.BooksEncoding)
}

// IngestReaders loads books and ratings from CSV streams. Callers are
// responsible for checking that the tables are empty.
func (db *DB) IngestReaders(ctx context.Context, books, ratings io.Reader, booksEncoding string) (*IngestStats, error) {
	start := time.Now()
	stats := &IngestStats{}

	decoded, err := decodingReader(books, booksEncoding)
	if err != nil {
		return nil, err
	}

	isbns, err := db.loadBooks(ctx, decoded, stats)
	if err == nil {
		err = db.loadRatings(ctx, ratings, isbns, stats)
	}
	if err != nil {
		db.discardPartialIngest(ctx)
		return nil, err
	}
	stats.Duration = time.Since(start)

	metrics.RecordIngestRows("books", "loaded", stats.Books)
	metrics.RecordIngestRows("books", "skipped", stats.BooksSkipped)
	metrics.RecordIngestRows("ratings", "loaded", stats.Ratings)
	metrics.RecordIngestRows("ratings", "skipped", stats.RatingsSkipped)
	metrics.RecordIngestRows("ratings", "dropped", stats.RatingsDropped)

	logging.Info().
		Int("books", stats.Books).
		Int("books_skipped", stats.BooksSkipped).
		Int("ratings", stats.Ratings).
		Int("ratings_skipped", stats.RatingsSkipped).
		Int("ratings_dropped", stats.RatingsDropped).
		Dur("duration", stats.Duration).
		Msg("Ingestion complete")

	return stats, nil
}

// discardPartialIngest empties both tables after a failed load so the
// next Ingest starts over instead of seeing a populated store.
func (db *DB) discardPartialIngest(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	for _, table := range []string{"ratings", "books"} {
		if _, err := db.conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			logging.Error().Err(err).Str("table", table).Msg("Failed to discard partial ingestion")
		}
	}
	logging.Warn().Msg("Ingestion failed, partial rows discarded")
}

// csvTable reads a headed CSV with snake-cased column names.
type csvTable struct {
	name    string
	reader  *csv.Reader
	columns map[string]int
	line    int

	// warnings throttles per-row log lines; the totals land in IngestStats.
	warnings *rate.Sometimes
}

func newCSVTable(name string, r io.Reader, required ...string) (*csvTable, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", name, err)
	}

	t := &csvTable{
		name:     name,
		reader:   cr,
		columns:  make(map[string]int, len(header)),
		line:     1,
		warnings: &rate.Sometimes{First: 20, Interval: 10 * time.Second},
	}
	for i, h := range header {
		t.columns[toSnakeCase(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, fmt.Errorf("%s csv is missing column %q", name, col)
		}
	}
	return t, nil
}

// next returns the next record. Malformed lines are logged and reported
// with ok=false; io.EOF ends the stream.
func (t *csvTable) next() (record []string, ok bool, err error) {
	record, err = t.reader.Read()
	t.line++
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			t.warn(func() {
				logging.Warn().Str("table", t.name).Int("line", perr.Line).Err(perr.Err).Msg("Skipping malformed CSV line")
			})
			return nil, false, nil
		}
		return nil, false, err
	}
	return record, true, nil
}

// warn runs log at most 20 times, then once per 10 seconds.
func (t *csvTable) warn(log func()) {
	t.warnings.Do(log)
}

// field returns the trimmed value of col, or "" when the record is short
// or the column is absent.
func (t *csvTable) field(record []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// loadBooks appends cleaned book rows and returns the set of loaded ISBNs.
func (db *DB) loadBooks(ctx context.Context, r io.Reader, stats *IngestStats) (map[string]struct{}, error) {
	table, err := newCSVTable("books", r, "isbn", "book_title")
	if err != nil {
		return nil, err
	}

	isbns := make(map[string]struct{})
	err = db.withAppender(ctx, "books", func(app *duckdb.Appender) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, ok, err := table.next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read books csv: %w", err)
			}
			if !ok {
				stats.BooksSkipped++
				continue
			}

			isbn := table.field(record, "isbn")
			title := cleanText(table.field(record, "book_title"))
			if isbn == "" || title == "" {
				stats.BooksSkipped++
				continue
			}
			if _, dup := isbns[isbn]; dup {
				table.warn(func() {
					logging.Warn().Str("isbn", isbn).Int("line", table.line).Msg("Skipping duplicate ISBN")
				})
				stats.BooksSkipped++
				continue
			}

			err = app.AppendRow(
				isbn,
				title,
				strings.ToLower(title),
				nullableText(cleanText(table.field(record, "book_author"))),
				nullableText(cleanText(table.field(record, "publisher"))),
				parseYear(table.field(record, "year_of_publication")),
				nullableText(table.field(record, "image_url_s")),
				nullableText(table.field(record, "image_url_m")),
				nullableText(table.field(record, "image_url_l")),
			)
			if err != nil {
				return fmt.Errorf("failed to append book %s: %w", isbn, err)
			}
			isbns[isbn] = struct{}{}
			stats.Books++
		}
	})
	if err != nil {
		return nil, err
	}
	return isbns, nil
}

// loadRatings appends explicit ratings for known ISBNs.
func (db *DB) loadRatings(ctx context.Context, r io.Reader, isbns map[string]struct{}, stats *IngestStats) error {
	table, err := newCSVTable("ratings", r, "user_id", "isbn", "book_rating")
	if err != nil {
		return err
	}

	return db.withAppender(ctx, "ratings", func(app *duckdb.Appender) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, ok, err := table.next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read ratings csv: %w", err)
			}
			if !ok {
				stats.RatingsSkipped++
				continue
			}

			userID, uerr := strconv.ParseInt(table.field(record, "user_id"), 10, 64)
			rating, rerr := strconv.ParseFloat(table.field(record, "book_rating"), 64)
			isbn := table.field(record, "isbn")
			if uerr != nil || rerr != nil || isbn == "" {
				table.warn(func() {
					logging.Warn().Int("line", table.line).Msg("Skipping malformed rating row")
				})
				stats.RatingsSkipped++
				continue
			}

			// Zero means "not rated" in the Book-Crossing export.
			if rating <= 0 {
				stats.RatingsDropped++
				continue
			}
			if _, known := isbns[isbn]; !known {
				stats.RatingsDropped++
				continue
			}

			if err := app.AppendRow(userID, isbn, rating); err != nil {
				return fmt.Errorf("failed to append rating (%d, %s): %w", userID, isbn, err)
			}
			stats.Ratings++
		}
	})
}

// withAppender runs fn with a DuckDB appender on table and flushes it.
func (db *DB) withAppender(ctx context.Context, table string, fn func(*duckdb.Appender) error) error {
	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer closeWithLog(conn, "ingest connection")

	return conn.Raw(func(driverConn any) error {
		dc, ok := driverConn.(driver.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}

		app, err := duckdb.NewAppenderFromConn(dc, "", table)
		if err != nil {
			return fmt.Errorf("failed to create %s appender: %w", table, err)
		}
		if err := fn(app); err != nil {
			closeQuietly(app)
			return err
		}
		if err := app.Close(); err != nil {
			return fmt.Errorf("failed to flush %s appender: %w", table, err)
		}
		return nil
	})
}

// parseYear returns the publication year, or nil for 0 and unparsable
// values.
func parseYear(s string) any {
	y, err := strconv.ParseInt(s, 10, 32)
	if err != nil || y == 0 {
		return nil
	}
	return int32(y)
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
