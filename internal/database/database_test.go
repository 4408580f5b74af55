// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package database

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/tomtom215/folio/internal/config"
)

const testBooksCSV = `ISBN,Book-Title,Book-Author,Year-Of-Publication,Publisher,Image-URL-S,Image-URL-M,Image-URL-L
0451524934,1984,George Orwell,1950,Signet,http://img/s/1984.jpg,http://img/m/1984.jpg,http://img/l/1984.jpg
0060929871,Brave New World,Aldous Huxley,1998,Perennial,http://img/s/bnw1.jpg,,
0060776099,brave new world,Aldous Huxley,2006,Harper,http://img/s/bnw2.jpg,,
0000000001,  Tom &amp; Jerry  ,  Hanna &amp; Barbera ,0,Turner,,,
0000000002,Le FranÃ§ais facile,Anon,notayear,Hachette,,,
0451524934,1984 (duplicate),George Orwell,1950,Signet,,,
0000000003,,No Title,2000,Nobody,,,
`

const testRatingsCSV = `User-ID,ISBN,Book-Rating
1,0451524934,7
2,0451524934,8
3,0451524934,5
1,0060929871,8
1,0060776099,8
2,0060929871,9
2,0060776099,9
4,0000000001,6
1,0000000002,0
1,9999999999,10
x,0451524934,5
`

// newTestDB opens an in-memory store.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(&config.DatabaseConfig{Path: MemoryPath, MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

// newSeededDB opens an in-memory store loaded with the test CSVs.
func newSeededDB(t *testing.T) *DB {
	t.Helper()

	db := newTestDB(t)
	if _, err := db.IngestReaders(context.Background(), strings.NewReader(testBooksCSV), strings.NewReader(testRatingsCSV), "utf-8"); err != nil {
		t.Fatalf("IngestReaders() error = %v", err)
	}
	return db
}

func TestNew_RequiresConfig(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Error("New(nil) should fail")
	}
}

func TestDB_PingAndCounts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	books, ratings, err := db.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if books != 0 || ratings != 0 {
		t.Errorf("Counts() = (%d, %d), want (0, 0)", books, ratings)
	}
}

func TestUsersWhoRated(t *testing.T) {
	t.Parallel()

	db := newSeededDB(t)
	ctx := context.Background()

	tests := []struct {
		titleLC string
		want    []int64
	}{
		{"1984", []int64{1, 2, 3}},
		{"brave new world", []int64{1, 2}}, // both casings share title_lc
		{"tom & jerry", []int64{4}},
		{"le français facile", nil}, // only a zero rating
		{"unknown", nil},
	}
	for _, tt := range tests {
		got, err := db.UsersWhoRated(ctx, tt.titleLC)
		if err != nil {
			t.Fatalf("UsersWhoRated(%q) error = %v", tt.titleLC, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("UsersWhoRated(%q) = %v, want %v", tt.titleLC, got, tt.want)
		}
	}
}

func TestRatingsByUsers(t *testing.T) {
	t.Parallel()

	db := newSeededDB(t)

	got, err := db.RatingsByUsers(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("RatingsByUsers() error = %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("RatingsByUsers() returned %d rows, want 6: %+v", len(got), got)
	}

	perTitle := make(map[string]int)
	for _, r := range got {
		if r.UserID != 1 && r.UserID != 2 {
			t.Errorf("unexpected user %d", r.UserID)
		}
		if r.Rating <= 0 {
			t.Errorf("rating %v should have been dropped at ingestion", r.Rating)
		}
		perTitle[r.TitleLC]++
	}
	if perTitle["brave new world"] != 4 || perTitle["1984"] != 2 {
		t.Errorf("rows per title = %v", perTitle)
	}

	empty, err := db.RatingsByUsers(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("RatingsByUsers(nil) = %v, %v; want empty", empty, err)
	}
}

func TestRatingsByUsers_Chunked(t *testing.T) {
	t.Parallel()

	db := newSeededDB(t)

	users := make([]int64, 0, maxInParams+10)
	for i := int64(1); i <= maxInParams+10; i++ {
		users = append(users, i)
	}
	got, err := db.RatingsByUsers(context.Background(), users)
	if err != nil {
		t.Fatalf("RatingsByUsers() error = %v", err)
	}
	// Users 1-4 own the 8 loaded ratings.
	if len(got) != 8 {
		t.Errorf("RatingsByUsers() returned %d rows, want 8", len(got))
	}
}

func TestBooksByTitles(t *testing.T) {
	t.Parallel()

	db := newSeededDB(t)

	got, err := db.BooksByTitles(context.Background(), []string{"brave new world", "tom & jerry"})
	if err != nil {
		t.Fatalf("BooksByTitles() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("BooksByTitles() returned %d books, want 3", len(got))
	}

	// Ordered by title_lc then ISBN.
	if got[0].ISBN != "0060776099" || got[1].ISBN != "0060929871" {
		t.Errorf("order = %s, %s; want 0060776099, 0060929871", got[0].ISBN, got[1].ISBN)
	}

	tj := got[2]
	if tj.Title != "Tom & Jerry" || tj.Author != "Hanna & Barbera" {
		t.Errorf("cleaned book = %+v", tj)
	}
	if tj.PublicationYear != nil {
		t.Errorf("year 0 should be NULL, got %d", *tj.PublicationYear)
	}
	if got[1].PublicationYear == nil || *got[1].PublicationYear != 1998 {
		t.Errorf("year = %v, want 1998", got[1].PublicationYear)
	}
	if got[1].ImageURL != "http://img/s/bnw1.jpg" {
		t.Errorf("image url = %q", got[1].ImageURL)
	}
}

func TestTitlesMatching(t *testing.T) {
	t.Parallel()

	db := newSeededDB(t)
	ctx := context.Background()

	// Before the index is built everything comes from the substring scan.
	got, err := db.TitlesMatching(ctx, "new", 10)
	if err != nil {
		t.Fatalf("TitlesMatching() error = %v", err)
	}
	// Representative casing is the lowest ISBN (0060776099).
	if want := []string{"brave new world"}; !slices.Equal(got, want) {
		t.Errorf("TitlesMatching(new) = %v, want %v", got, want)
	}

	n, err := db.RebuildTitleIndex(ctx)
	if err != nil {
		t.Fatalf("RebuildTitleIndex() error = %v", err)
	}
	// Rated titles: 1984, brave new world, tom & jerry.
	if n != 3 || db.IndexedTitles() != 3 {
		t.Errorf("indexed titles = %d / %d, want 3", n, db.IndexedTitles())
	}

	tests := []struct {
		query string
		limit int
		want  []string
	}{
		{"BRA", 10, []string{"brave new world"}},
		{"fran", 10, []string{"Le Français facile"}}, // substring, unrated
		{"r", 10, []string{"brave new world", "Tom & Jerry", "Le Français facile"}},
		{"r", 1, []string{"brave new world"}},
		{"zzz", 10, []string{}},
		{"", 10, []string{}},
	}
	for _, tt := range tests {
		got, err := db.TitlesMatching(ctx, tt.query, tt.limit)
		if err != nil {
			t.Fatalf("TitlesMatching(%q) error = %v", tt.query, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("TitlesMatching(%q, %d) = %v, want %v", tt.query, tt.limit, got, tt.want)
		}
	}
}
