package recodex

import (
	"errors"

	"github.com/kailas-cloud/recodex/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrSourceMissing = domain.ErrSourceMissing
	ErrMalformedRow  = domain.ErrMalformedRow
	ErrComputation   = domain.ErrComputation
)

// Client construction errors.
var (
	ErrInvalidProduct   = errors.New("recodex: invalid product")
	ErrConflictingInput = errors.New("recodex: both a file and in-memory products were given for the same table")
)
