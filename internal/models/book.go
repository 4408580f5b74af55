// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

// Book is one edition from the books relation. Several ISBNs may share a
// TitleLC.
type Book struct {
	ISBN            string `json:"isbn"`
	Title           string `json:"book_title"`
	TitleLC         string `json:"book_title_lc"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationYear *int   `json:"publication_year"`
	ImageURL        string `json:"image_url_s"`
}

// Rating is a single non-zero rating, carrying the rated book's TitleLC so
// the engine can group editions of the same title.
type Rating struct {
	UserID  int64   `json:"user_id"`
	ISBN    string  `json:"isbn"`
	TitleLC string  `json:"book_title_lc"`
	Rating  float64 `json:"book_rating"`
}
