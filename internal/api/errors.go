// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/folio/internal/database"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/validation"
)

// Error codes written in models.APIError.Code. Domain codes come from
// recommend.Kind.String().
const (
	CodeValidation         = validation.CodeValidation
	CodeBadRequest         = "BAD_REQUEST"
	CodeRateLimited        = "RATE_LIMITED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout            = "TIMEOUT"
	CodeInternal           = "INTERNAL_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
)

// respondServiceError maps an error from recommend.Service to a response.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var rerr *recommend.Error
	if errors.As(err, &rerr) {
		switch rerr.Kind {
		case recommend.KindBookNotFound, recommend.KindNotEnoughRatings:
			respondAPIError(w, r, http.StatusUnprocessableEntity, &models.APIError{
				Code:    rerr.Code(),
				Message: rerr.Error(),
				Details: map[string]interface{}{
					"input":      rerr.Input,
					"input_type": "string",
				},
			}, nil)
			return
		case recommend.KindInvalidInput:
			respondError(w, r, http.StatusBadRequest, CodeValidation, rerr.Error(), nil)
			return
		}
	}

	switch {
	case errors.Is(err, database.ErrStoreUnavailable):
		w.Header().Set("Retry-After", "30")
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable,
			"Rating store is temporarily unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, CodeTimeout, "Request timed out", err)
	default:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Internal server error", err)
	}
}
