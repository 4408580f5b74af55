// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/folio/internal/models"
)

func intPtr(i int) *int { return &i }

func TestValidateStruct_RecommendRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       models.RecommendRequest
		wantField string
		wantTag   string
	}{
		{name: "valid", req: models.RecommendRequest{BookTitle: "1984", TopN: intPtr(5)}},
		{name: "top_n zero means all", req: models.RecommendRequest{BookTitle: "1984", TopN: intPtr(0)}},
		{name: "missing title", req: models.RecommendRequest{TopN: intPtr(5)}, wantField: "book_title", wantTag: "required"},
		{name: "blank title", req: models.RecommendRequest{BookTitle: "   ", TopN: intPtr(5)}, wantField: "book_title", wantTag: "notblank"},
		{name: "missing top_n", req: models.RecommendRequest{BookTitle: "1984"}, wantField: "top_n", wantTag: "required"},
		{name: "negative top_n", req: models.RecommendRequest{BookTitle: "1984", TopN: intPtr(-1)}, wantField: "top_n", wantTag: "min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("ValidateStruct() = nil, want %s/%s", tt.wantField, tt.wantTag)
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("got %d field errors, want 1: %v", len(verr.Fields), verr)
			}
			if f := verr.Fields[0]; f.Field != tt.wantField || f.Tag != tt.wantTag {
				t.Errorf("field error = %s/%s, want %s/%s", f.Field, f.Tag, tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&models.RecommendRequest{BookTitle: " ", TopN: intPtr(-3)})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != CodeValidation {
		t.Errorf("Code = %q, want %q", apiErr.Code, CodeValidation)
	}
	if !strings.Contains(apiErr.Message, "book_title must not be blank") {
		t.Errorf("Message = %q, missing blank-title text", apiErr.Message)
	}
	if !strings.Contains(apiErr.Message, "top_n must be at least 0") {
		t.Errorf("Message = %q, missing top_n text", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Errorf("Details = %v, want fields list", apiErr.Details)
	}
}

func TestToAPIError_Single(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&models.AutocompleteRequest{Query: "dun", Limit: 500})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	apiErr := verr.ToAPIError()
	if apiErr.Details["field"] != "limit" {
		t.Errorf("Details[field] = %v, want limit", apiErr.Details["field"])
	}
	if apiErr.Message != "limit must be at most 100" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator should return the same instance")
	}
}
