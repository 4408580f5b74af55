// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/recommend"
)

// Recommend handles POST /api/v1/recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, CodeBadRequest, "Request body too large", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid JSON request body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	res, err := h.recommender.Recommend(r.Context(), req.BookTitle, *req.TopN)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.logger.Debug().
		Str("book_title", sanitizeLogValue(req.BookTitle)).
		Int("top_n", *req.TopN).
		Int("count", res.Count).
		Msg("Recommendations served")

	respondSuccess(w, r, toRecommendResponse(res), start)
}

func toRecommendResponse(res *recommend.Result) models.RecommendResponse {
	books := make([]models.RecommendedBook, len(res.Items))
	for i, item := range res.Items {
		books[i] = models.RecommendedBook{
			ISBN:            item.Book.ISBN,
			BookTitle:       item.Book.Title,
			Author:          item.Book.Author,
			PublicationYear: item.Book.PublicationYear,
			Publisher:       item.Book.Publisher,
			ImageURLS:       item.Book.ImageURL,
			Correlation:     item.Correlation,
			AverageRating:   item.AverageRating,
		}
	}
	return models.RecommendResponse{
		BookTitle:        res.SeedTitle,
		TopN:             len(books),
		RecommendedBooks: books,
	}
}

// Autocomplete handles GET /api/v1/autocomplete?q=&limit=.
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	req := models.AutocompleteRequest{
		Query: r.URL.Query().Get("q"),
		Limit: limit,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	titles, err := h.recommender.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, r, models.AutocompleteResponse{Suggestions: titles}, start)
}
