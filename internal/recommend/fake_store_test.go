// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/tomtom215/folio/internal/models"
)

// fakeStore is an in-memory RatingStore. Ratings reference books by ISBN
// like the real tables do; TitleLC is resolved on read.
type fakeStore struct {
	books   []models.Book
	ratings []models.Rating

	usersErr   error
	ratingsErr error
	booksErr   error
	searchErr  error

	// hidden titles are omitted by BooksByTitles.
	hidden []string

	booksCalls atomic.Int32
}

func (f *fakeStore) titleOf(isbn string) string {
	for _, b := range f.books {
		if b.ISBN == isbn {
			return b.TitleLC
		}
	}
	return ""
}

func (f *fakeStore) UsersWhoRated(_ context.Context, titleLC string) ([]int64, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	var users []int64
	for _, r := range f.ratings {
		if f.titleOf(r.ISBN) == titleLC && !slices.Contains(users, r.UserID) {
			users = append(users, r.UserID)
		}
	}
	slices.Sort(users)
	return users, nil
}

func (f *fakeStore) RatingsByUsers(_ context.Context, userIDs []int64) ([]models.Rating, error) {
	if f.ratingsErr != nil {
		return nil, f.ratingsErr
	}
	var out []models.Rating
	for _, r := range f.ratings {
		if slices.Contains(userIDs, r.UserID) {
			r.TitleLC = f.titleOf(r.ISBN)
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) BooksByTitles(_ context.Context, titleLCs []string) ([]models.Book, error) {
	f.booksCalls.Add(1)
	if f.booksErr != nil {
		return nil, f.booksErr
	}
	var out []models.Book
	for _, b := range f.books {
		if slices.Contains(titleLCs, b.TitleLC) && !slices.Contains(f.hidden, b.TitleLC) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) TitlesMatching(_ context.Context, partial string, limit int) ([]string, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []string
	for _, b := range f.books {
		if strings.Contains(b.TitleLC, partial) && !slices.Contains(out, b.Title) {
			out = append(out, b.Title)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// addBook registers a book with title_lc derived from title.
func (f *fakeStore) addBook(isbn, title string) {
	f.books = append(f.books, models.Book{
		ISBN:    isbn,
		Title:   title,
		TitleLC: strings.ToLower(title),
		Author:  "Author of " + title,
	})
}

func (f *fakeStore) rate(user int64, isbn string, rating float64) {
	f.ratings = append(f.ratings, models.Rating{UserID: user, ISBN: isbn, Rating: rating})
}

// orwellStore is the 1984 / Brave New World scenario: U1 and U2 rated
// 1984 (7, 8) and every one of four Brave New World editions (8, 9),
// giving Brave New World 8 rows in the pool. U3 rated only 1984.
func orwellStore() *fakeStore {
	f := &fakeStore{}
	f.addBook("0451524934", "1984")
	for _, isbn := range []string{"0060850523", "0060929871", "0099458195", "0060776099"} {
		f.addBook(isbn, "Brave New World")
	}
	f.rate(1, "0451524934", 7)
	f.rate(2, "0451524934", 8)
	f.rate(3, "0451524934", 5)
	for _, isbn := range []string{"0060850523", "0060929871", "0099458195", "0060776099"} {
		f.rate(1, isbn, 8)
		f.rate(2, isbn, 9)
	}
	return f
}

// shelfStore has eight readers of "Seed" (rating u for reader u) and a
// set of candidates with known correlations, each rated by all eight:
//
//	up         u+1         r = 1.00   avg 5.5
//	shuffled   pairs swap  r = 0.90   avg 4.5
//	orthogonal 1,2,2,1...  r = 0.00   avg 1.5
//	down       9-u         r = -1.00  excluded
//	flat       5           undefined  excluded
//
// "Sparse" has only three rows and falls below the support threshold.
func shelfStore() *fakeStore {
	f := &fakeStore{}
	f.addBook("S-1", "Seed")
	f.addBook("UP-1", "Up")
	f.addBook("SH-1", "Shuffled")
	f.addBook("OR-1", "Orthogonal")
	f.addBook("DN-1", "Down")
	f.addBook("FL-1", "Flat")
	f.addBook("SP-1", "Sparse")

	shuffled := []float64{2, 1, 4, 3, 6, 5, 8, 7}
	orthogonal := []float64{1, 2, 2, 1, 1, 2, 2, 1}
	for u := int64(1); u <= 8; u++ {
		f.rate(u, "S-1", float64(u))
		f.rate(u, "UP-1", float64(u+1))
		f.rate(u, "SH-1", shuffled[u-1])
		f.rate(u, "OR-1", orthogonal[u-1])
		f.rate(u, "DN-1", float64(9-u))
		f.rate(u, "FL-1", 5)
		if u <= 3 {
			f.rate(u, "SP-1", float64(u))
		}
	}
	return f
}
