// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package models defines the data structures shared by Folio's packages.

Store rows:

  - Book: one row of the books relation, keyed by ISBN.
  - Rating: one rating joined to its book's lowercase title.

HTTP payloads:

  - RecommendRequest / RecommendResponse / RecommendedBook
  - AutocompleteResponse
  - APIResponse, Metadata and APIError: the envelope every endpoint writes.

JSON field names of the recommendation payloads match the original public
API (book_title, top_n, recommended_books, correlation_with_selected_book,
image_url_s) so existing front-ends keep working.
*/
package models
