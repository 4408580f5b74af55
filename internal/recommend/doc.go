// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package recommend implements item-to-item collaborative filtering over
book ratings.

Given a seed title, the Engine finds every reader who rated it, pulls the
full rating history of those readers (the co-rating pool), and ranks other
titles by the Pearson correlation of their ratings with the seed's ratings,
computed only over readers who rated both.

# Pipeline

 1. Lowercase the seed title. No readers means ErrBookNotFound.
 2. Load the co-rating pool from the RatingStore.
 3. Keep titles with at least MinRatings rows in the pool. If nothing but
    the seed survives the result is ErrNotEnoughRatings.
 4. Average duplicate (user, title) ratings, e.g. one reader rating two
    editions of the same book.
 5. Correlate each candidate with the seed over paired readers. Undefined
    (fewer than two pairs or zero variance) and negative correlations are
    dropped.
 6. Rank by correlation, then pool average rating, then title.

Correlation and average rating are rounded to two decimals on output only.
Ranking uses full precision.

# Service

Service wraps the Engine with the caller-facing operations: Recommend
truncates the ranked list to topN and joins it to book metadata, Search
serves title autocomplete. Both validate their input and return *Error
values whose Kind distinguishes domain failures from internal ones:

	res, err := svc.Recommend(ctx, "The Hobbit", 10)
	switch {
	case errors.Is(err, recommend.ErrBookNotFound):
	case errors.Is(err, recommend.ErrNotEnoughRatings):
	case err != nil:
	}

# Thread Safety

Engine and Service hold no per-request state and are safe for concurrent
use. The RatingStore implementation must be safe for concurrent reads.
*/
package recommend
