package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceMissing signals an unreadable or absent tabular source.
	ErrSourceMissing = errors.New("source missing")
	// ErrMalformedRow signals a row whose numeric or text fields could not be coerced.
	ErrMalformedRow = errors.New("malformed row")
	// ErrInvalidQuery signals a query that cannot be served.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrCacheMiss signals a missing or expired cache entry.
	ErrCacheMiss = errors.New("cache miss")
	// ErrComputation signals an internal vectorization or ranking failure.
	ErrComputation = errors.New("computation failed")
)

// RowError wraps ErrMalformedRow with the offending row and column.
type RowError struct {
	Row    int
	Column string
	Value  string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d column %q value %q", ErrMalformedRow.Error(), e.Row, e.Column, e.Value)
}

func (e *RowError) Unwrap() error { return ErrMalformedRow }
