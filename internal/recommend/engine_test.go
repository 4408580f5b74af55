// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/rs/zerolog"
)

func newTestEngine(t *testing.T, store RatingStore) *Engine {
	t.Helper()
	e, err := NewEngine(store, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, DefaultConfig(), zerolog.Nop()); err == nil {
		t.Error("NewEngine(nil store) should fail")
	}

	cfg := DefaultConfig()
	cfg.MinRatings = 0
	if _, err := NewEngine(&fakeStore{}, cfg, zerolog.Nop()); err == nil {
		t.Error("NewEngine() with MinRatings=0 should fail")
	}
}

func TestFindSimilarBooks_OrwellScenario(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, orwellStore())
	got, err := e.FindSimilarBooks(context.Background(), "1984")
	if err != nil {
		t.Fatalf("FindSimilarBooks() error = %v", err)
	}

	want := []CorrelationRecord{{TitleLC: "brave new world", Correlation: 1, AverageRating: 8.5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindSimilarBooks() = %+v, want %+v", got, want)
	}
}

func TestFindSimilarBooks_Ranking(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, shelfStore())
	got, err := e.FindSimilarBooks(context.Background(), "SEED")
	if err != nil {
		t.Fatalf("FindSimilarBooks() error = %v", err)
	}

	want := []CorrelationRecord{
		{TitleLC: "up", Correlation: 1, AverageRating: 5.5},
		{TitleLC: "shuffled", Correlation: 0.9, AverageRating: 4.5},
		{TitleLC: "orthogonal", Correlation: 0, AverageRating: 1.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindSimilarBooks() = %+v, want %+v", got, want)
	}

	for i, r := range got {
		if r.Correlation < 0 || r.Correlation > 1 {
			t.Errorf("record %d correlation %v out of [0, 1]", i, r.Correlation)
		}
		if i > 0 && r.Correlation > got[i-1].Correlation {
			t.Errorf("record %d not sorted by correlation", i)
		}
	}
}

func TestFindSimilarBooks_TieBreak(t *testing.T) {
	t.Parallel()

	f := &fakeStore{}
	f.addBook("S-1", "Seed")
	f.addBook("B-1", "Beta")
	f.addBook("A-1", "Alpha")
	f.addBook("H-1", "High")
	f.addBook("L-1", "Low")
	for u := int64(1); u <= 8; u++ {
		f.rate(u, "S-1", float64(u))
		f.rate(u, "B-1", float64(u+1))
		f.rate(u, "A-1", float64(u+1))
		f.rate(u, "H-1", float64(u+2))
		f.rate(u, "L-1", float64(u))
	}

	got, err := newTestEngine(t, f).FindSimilarBooks(context.Background(), "Seed")
	if err != nil {
		t.Fatalf("FindSimilarBooks() error = %v", err)
	}

	titles := make([]string, len(got))
	for i, r := range got {
		titles[i] = r.TitleLC
	}
	// All correlate at 1.0: average rating desc, then title asc.
	want := []string{"high", "alpha", "beta", "low"}
	if !slices.Equal(titles, want) {
		t.Errorf("order = %v, want %v", titles, want)
	}
}

func TestFindSimilarBooks_Errors(t *testing.T) {
	t.Parallel()

	lonely := &fakeStore{}
	lonely.addBook("L-1", "Lonely Planet")
	lonely.addBook("O-1", "Other")
	lonely.rate(42, "L-1", 9)
	lonely.rate(42, "O-1", 4)

	boom := errors.New("connection reset")

	tests := []struct {
		name     string
		store    *fakeStore
		title    string
		wantErr  error
		wantKind Kind
	}{
		{
			name:     "unknown title",
			store:    orwellStore(),
			title:    "The Unknown Book",
			wantErr:  ErrBookNotFound,
			wantKind: KindBookNotFound,
		},
		{
			name:     "single reader with no qualifying books",
			store:    lonely,
			title:    "Lonely Planet",
			wantErr:  ErrNotEnoughRatings,
			wantKind: KindNotEnoughRatings,
		},
		{
			name:     "users lookup fails",
			store:    &fakeStore{usersErr: boom},
			title:    "1984",
			wantErr:  boom,
			wantKind: KindInternal,
		},
		{
			name: "ratings lookup fails",
			store: func() *fakeStore {
				f := orwellStore()
				f.ratingsErr = boom
				return f
			}(),
			title:    "1984",
			wantErr:  boom,
			wantKind: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := newTestEngine(t, tt.store).FindSimilarBooks(context.Background(), tt.title)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FindSimilarBooks() error = %v, want %v", err, tt.wantErr)
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", got, tt.wantKind)
			}
			var re *Error
			if !errors.As(err, &re) || re.Input != tt.title {
				t.Errorf("error input = %+v, want %q", re, tt.title)
			}
		})
	}
}

func TestFindSimilarBooks_NotFoundEchoesInput(t *testing.T) {
	t.Parallel()

	_, err := newTestEngine(t, orwellStore()).FindSimilarBooks(context.Background(), "The Hobbit")
	if err == nil {
		t.Fatal("expected error")
	}
	if got, want := err.Error(), "Book The Hobbit is not in the database."; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFindSimilarBooks_Idempotent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, shelfStore())
	first, err := e.FindSimilarBooks(context.Background(), "Seed")
	if err != nil {
		t.Fatalf("FindSimilarBooks() error = %v", err)
	}
	for range 5 {
		again, err := e.FindSimilarBooks(context.Background(), "Seed")
		if err != nil {
			t.Fatalf("FindSimilarBooks() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("results differ between calls: %+v vs %+v", first, again)
		}
	}

	if s := e.Stats(); s.Requests != 6 || s.Errors != 0 {
		t.Errorf("Stats() = %+v, want 6 requests, 0 errors", s)
	}
}

func TestFindSimilarBooks_AllCandidatesFiltered(t *testing.T) {
	t.Parallel()

	f := &fakeStore{}
	f.addBook("S-1", "Seed")
	f.addBook("D-1", "Down")
	for u := int64(1); u <= 8; u++ {
		f.rate(u, "S-1", float64(u))
		f.rate(u, "D-1", float64(9-u))
	}

	got, err := newTestEngine(t, f).FindSimilarBooks(context.Background(), "Seed")
	if err != nil {
		t.Fatalf("FindSimilarBooks() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindSimilarBooks() = %+v, want empty", got)
	}
}
