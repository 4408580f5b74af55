// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by Engine and Service is an *Error
// that matches exactly one of the kind sentinels with errors.Is.
var (
	ErrBookNotFound     = errors.New("book not found")
	ErrNotEnoughRatings = errors.New("not enough ratings")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")

	// ErrMissingMetadata is wrapped by an internal error when a ranked
	// title has no book row to join against.
	ErrMissingMetadata = errors.New("missing book metadata")
)

// Kind classifies an Error.
type Kind int

const (
	KindInternal Kind = iota
	KindBookNotFound
	KindNotEnoughRatings
	KindInvalidInput
)

// String returns the machine-readable code for the kind.
func (k Kind) String() string {
	switch k {
	case KindBookNotFound:
		return "BOOK_NOT_FOUND"
	case KindNotEnoughRatings:
		return "NOT_ENOUGH_RATINGS"
	case KindInvalidInput:
		return "INVALID_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindBookNotFound:
		return ErrBookNotFound
	case KindNotEnoughRatings:
		return ErrNotEnoughRatings
	case KindInvalidInput:
		return ErrInvalidInput
	default:
		return ErrInternal
	}
}

// Error is returned by the engine and service. Input is the caller's
// original value (not normalized) so it can be echoed back.
type Error struct {
	Kind  Kind
	Input string
	Err   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBookNotFound:
		return fmt.Sprintf("Book %s is not in the database.", e.Input)
	case KindNotEnoughRatings:
		return "Not enough ratings by the relevant reviewers to continue."
	case KindInvalidInput:
		if e.Err != nil {
			return e.Err.Error()
		}
		return ErrInvalidInput.Error()
	default:
		if e.Err != nil {
			return "recommend: " + e.Err.Error()
		}
		return "recommend: " + ErrInternal.Error()
	}
}

// Unwrap exposes the underlying cause, typically a store error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Code returns the machine-readable error code.
func (e *Error) Code() string {
	return e.Kind.String()
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func invalidInput(input, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Input: input, Err: fmt.Errorf(format, args...)}
}

func internal(input string, err error) *Error {
	return &Error{Kind: KindInternal, Input: input, Err: err}
}
