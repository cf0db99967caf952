// Package errs defines the error taxonomy shared by every libcalseries package.
package errs

import (
	"errors"
	"fmt"
)

// ErrorType classifies an Error.
type ErrorType string

const (
	// Validation covers bad argument ranges: negative offsets, a zero last
	// day of batch, inverted ranges, shrinking-granularity requests.
	Validation ErrorType = "validation"
	// NotFound is returned when a Day is not present in a series.
	NotFound ErrorType = "not_found"
	// GranularityMismatch is returned for incompatible delta comparisons.
	GranularityMismatch ErrorType = "granularity_mismatch"
	// Inference is returned when no candidate granularity fits the data.
	Inference ErrorType = "inference"
	// Query is returned for malformed or invalid filter expressions.
	Query ErrorType = "query"
	// Unsupported is returned for sub-period addressing on daily periods.
	Unsupported ErrorType = "unsupported"
	// AlreadyExists is returned when a catalog name is taken.
	AlreadyExists ErrorType = "already_exists"
	// Conflict is returned when a catalog entry changed since it was read.
	Conflict ErrorType = "conflict"
)

// Error is the error type returned by libcalseries.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same type. Sentinels carry
// no message, so errors.Is(err, ErrNotFound) matches every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == ""
}

var (
	// ErrValidation matches every Validation error
	ErrValidation = &Error{Type: Validation}
	// ErrNotFound matches every NotFound error
	ErrNotFound = &Error{Type: NotFound}
	// ErrGranularityMismatch matches every GranularityMismatch error
	ErrGranularityMismatch = &Error{Type: GranularityMismatch}
	// ErrInference matches every Inference error
	ErrInference = &Error{Type: Inference}
	// ErrQuery matches every Query error
	ErrQuery = &Error{Type: Query}
	// ErrUnsupported matches every Unsupported error
	ErrUnsupported = &Error{Type: Unsupported}
	// ErrAlreadyExists matches every AlreadyExists error
	ErrAlreadyExists = &Error{Type: AlreadyExists}
	// ErrConflict matches every Conflict error
	ErrConflict = &Error{Type: Conflict}
)

// New builds an Error of the given type.
func New(t ErrorType, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given type around a cause.
func Wrap(t ErrorType, err error, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether any error in err's chain is an Error of type t.
func Is(err error, t ErrorType) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Type == t {
				return true
			}
			err = e.Err
			continue
		}
		return false
	}
	return false
}
