// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"

	"github.com/tomtom215/folio/internal/models"
)

// RatingStore is the read-only data source the engine consumes.
// Implementations must be safe for concurrent use.
type RatingStore interface {
	// UsersWhoRated returns the distinct users with at least one rating
	// for a book whose lowercase title is titleLC.
	UsersWhoRated(ctx context.Context, titleLC string) ([]int64, error)

	// RatingsByUsers returns every rating authored by the given users,
	// each carrying the lowercase title of the rated ISBN.
	RatingsByUsers(ctx context.Context, userIDs []int64) ([]models.Rating, error)

	// BooksByTitles returns the book rows for the given lowercase titles.
	// Several rows may share a title (different editions).
	BooksByTitles(ctx context.Context, titleLCs []string) ([]models.Book, error)

	// TitlesMatching returns up to limit distinct display titles matching
	// the lowercase partial string.
	TitlesMatching(ctx context.Context, partial string, limit int) ([]string, error)
}

// CorrelationRecord is one ranked candidate. Values are rounded to two
// decimals.
type CorrelationRecord struct {
	TitleLC       string  `json:"title_lc"`
	Correlation   float64 `json:"correlation"`
	AverageRating float64 `json:"average_rating"`
}

// Recommendation is a ranked candidate joined to its book metadata.
type Recommendation struct {
	Book          models.Book
	Correlation   float64
	AverageRating float64
}

// Result is the outcome of Service.Recommend.
type Result struct {
	// SeedTitle is the title exactly as the caller supplied it.
	SeedTitle string
	// Count is len(Items).
	Count int
	Items []Recommendation
}
