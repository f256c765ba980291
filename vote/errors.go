// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing event, user, or response.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a duplicate response or an already-finalized event.
	ErrConflict = errors.New("conflict")

	// ErrValidation is the root of every business-rule failure; all the
	// specific kinds below match it via errors.Is.
	ErrValidation = errors.New("validation error")

	ErrReadonlyViolation    = errors.New("readonly field modified")
	ErrSuggestionNotAllowed = errors.New("suggestions not allowed")
	ErrTooManyVotes         = errors.New("too many votes")
	ErrDuplicateOption      = errors.New("duplicate option")
	ErrMaxEntriesExceeded   = errors.New("max entries exceeded")
)

// ValidationError carries the field or category the failure belongs to, so
// the organizer sees which input to fix. Kind is one of the sentinel errors
// above (or nil for a plain rule violation).
type ValidationError struct {
	Kind  error
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

// Unwrap makes every ValidationError match ErrValidation, and its Kind when
// one is set.
func (e *ValidationError) Unwrap() []error {
	if e.Kind != nil {
		return []error{e.Kind, ErrValidation}
	}
	return []error{ErrValidation}
}

func validationErrorf(kind error, field, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Msg: fmt.Sprintf(format, args...)}
}
