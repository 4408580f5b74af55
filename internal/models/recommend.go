// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

// RecommendRequest is the body of POST /api/v1/recommend.
// TopN of 0 asks for every candidate.
type RecommendRequest struct {
	BookTitle string `json:"book_title" validate:"required,notblank,max=512"`
	TopN      *int   `json:"top_n" validate:"required,min=0,max=10000"`
}

// RecommendedBook is one ranked recommendation with display metadata.
type RecommendedBook struct {
	ISBN            string  `json:"isbn"`
	BookTitle       string  `json:"book_title"`
	Author          string  `json:"author"`
	PublicationYear *int    `json:"publication_year"`
	Publisher       string  `json:"publisher"`
	ImageURLS       string  `json:"image_url_s"`
	Correlation     float64 `json:"correlation_with_selected_book"`
	AverageRating   float64 `json:"average_rating"`
}

// RecommendResponse echoes the seed title as the caller sent it. TopN is
// the number of books actually returned.
type RecommendResponse struct {
	BookTitle        string            `json:"book_title"`
	TopN             int               `json:"top_n"`
	RecommendedBooks []RecommendedBook `json:"recommended_books"`
}

// AutocompleteRequest binds the query string of GET /api/v1/autocomplete.
type AutocompleteRequest struct {
	Query string `json:"q" validate:"required,notblank,max=256"`
	Limit int    `json:"limit" validate:"min=0,max=100"`
}

// AutocompleteResponse lists display titles matching the query.
type AutocompleteResponse struct {
	Suggestions []string `json:"suggestions"`
}
