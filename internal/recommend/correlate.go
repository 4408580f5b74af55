// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"cmp"
	"math"
	"slices"

	"github.com/tomtom215/folio/internal/models"
)

// varianceEpsilon treats near-constant vectors as having zero variance.
const varianceEpsilon = 1e-12

// ratingMatrix is the sparse user×title view of the co-rating pool:
// title_lc -> user_id -> rating, one averaged rating per (user, title).
type ratingMatrix map[string]map[int64]float64

// poolStats holds the aggregated co-rating pool.
type poolStats struct {
	matrix ratingMatrix
	// averages is the mean of the raw pool rows per eligible title.
	averages map[string]float64
	// candidates is the number of eligible titles other than the seed.
	candidates int
}

// aggregatePool applies the minimum-support filter and collapses
// duplicate (user, title) ratings. Support counts raw rows, so a reader
// who rated two editions counts twice. The seed title is always kept.
func aggregatePool(pool []models.Rating, seedKey string, minRatings int) poolStats {
	type acc struct {
		n   int
		sum float64
	}

	byTitle := make(map[string]*acc)
	for _, r := range pool {
		a, ok := byTitle[r.TitleLC]
		if !ok {
			a = &acc{}
			byTitle[r.TitleLC] = a
		}
		a.n++
		a.sum += r.Rating
	}

	eligible := func(title string) bool {
		return title == seedKey || byTitle[title].n >= minRatings
	}

	cells := make(map[string]map[int64]*acc)
	for _, r := range pool {
		if !eligible(r.TitleLC) {
			continue
		}
		users, ok := cells[r.TitleLC]
		if !ok {
			users = make(map[int64]*acc)
			cells[r.TitleLC] = users
		}
		c, ok := users[r.UserID]
		if !ok {
			c = &acc{}
			users[r.UserID] = c
		}
		c.n++
		c.sum += r.Rating
	}

	stats := poolStats{
		matrix:   make(ratingMatrix, len(cells)),
		averages: make(map[string]float64, len(cells)),
	}
	for title, users := range cells {
		row := make(map[int64]float64, len(users))
		for user, c := range users {
			row[user] = c.sum / float64(c.n)
		}
		stats.matrix[title] = row
		a := byTitle[title]
		stats.averages[title] = a.sum / float64(a.n)
		if title != seedKey {
			stats.candidates++
		}
	}
	return stats
}

// pearson computes the correlation of a and b over the users present in
// both. ok is false when fewer than two users overlap or either side has
// zero variance.
func pearson(a, b map[int64]float64) (r float64, ok bool) {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	users := make([]int64, 0, len(small))
	for u := range small {
		if _, both := large[u]; both {
			users = append(users, u)
		}
	}
	if len(users) < 2 {
		return 0, false
	}
	// Fixed summation order keeps results bit-identical across calls.
	slices.Sort(users)

	var meanX, meanY float64
	for _, u := range users {
		meanX += small[u]
		meanY += large[u]
	}
	n := float64(len(users))
	meanX /= n
	meanY /= n

	var sxy, sxx, syy float64
	for _, u := range users {
		dx := small[u] - meanX
		dy := large[u] - meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx < varianceEpsilon || syy < varianceEpsilon {
		return 0, false
	}
	r = sxy / math.Sqrt(sxx*syy)
	return max(-1, min(1, r)), true
}

// scored is a candidate with full-precision values used for ranking.
type scored struct {
	title       string
	correlation float64
	average     float64
}

// rankCandidates correlates every eligible title with the seed and
// returns the non-negative ones ranked by correlation desc, average desc,
// title asc.
func rankCandidates(stats poolStats, seedKey string) []scored {
	seed := stats.matrix[seedKey]
	out := make([]scored, 0, stats.candidates)
	for title, row := range stats.matrix {
		if title == seedKey {
			continue
		}
		r, ok := pearson(seed, row)
		if !ok || r < 0 {
			continue
		}
		out = append(out, scored{title: title, correlation: r, average: stats.averages[title]})
	}

	slices.SortFunc(out, func(x, y scored) int {
		if c := cmp.Compare(y.correlation, x.correlation); c != 0 {
			return c
		}
		if c := cmp.Compare(y.average, x.average); c != 0 {
			return c
		}
		return cmp.Compare(x.title, y.title)
	})
	return out
}

// round2 rounds to two decimals, half away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
