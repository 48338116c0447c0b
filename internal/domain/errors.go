package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable indicates the store could not be reached or timed out.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrQueryFailure indicates a malformed query, scan failure or constraint violation.
	ErrQueryFailure = errors.New("query failure")
	// ErrInvalidReference is returned when a record points at a row that does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrUserNotFound is returned when no staff account matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRecord is returned when a record violates an entity invariant.
	ErrInvalidRecord = errors.New("invalid record")
)

// StoreError wraps a driver error with the operation that produced it and its kind.
// errors.Is matches both the kind sentinel and the underlying cause.
type StoreError struct {
	Op   string
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Unavailable wraps err as an ErrStoreUnavailable store error.
func Unavailable(op string, err error) error {
	return &StoreError{Op: op, Kind: ErrStoreUnavailable, Err: err}
}

// QueryFailed wraps err as an ErrQueryFailure store error.
func QueryFailed(op string, err error) error {
	return &StoreError{Op: op, Kind: ErrQueryFailure, Err: err}
}

// InvalidReference wraps a foreign-key violation. It matches ErrQueryFailure and ErrInvalidReference.
func InvalidReference(op string, err error) error {
	return &StoreError{Op: op, Kind: ErrQueryFailure, Err: fmt.Errorf("%w: %w", ErrInvalidReference, err)}
}

// ErrorKind returns a short label for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, ErrQueryFailure):
		return "query_failure"
	default:
		return "unknown"
	}
}
