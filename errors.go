package solvmatch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/solvmatch/core"
)

var (
	// ErrInvalidNearest is returned when the per-compound retention is not positive.
	ErrInvalidNearest = errors.New("nearest must be positive")

	// ErrInvalidMaxResults is returned when the global retention is not positive.
	ErrInvalidMaxResults = errors.New("max results must be positive")

	// ErrDuplicateID is returned when two records of one table share an id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidParams is returned for NaN or infinite solubility parameters.
	ErrInvalidParams = errors.New("non-finite solubility parameters")

	// ErrInvariantViolation signals a broken internal invariant, e.g. a decoded
	// pair naming a solvent that was never loaded. It always aborts the batch.
	ErrInvariantViolation = errors.New("invariant violation")
)

// ErrInvalidRecord identifies the input record that failed validation.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrInvalidRecord struct {
	Table string
	Index int
	ID    core.ID
	cause error
}

func (e *ErrInvalidRecord) Error() string {
	return fmt.Sprintf("invalid %s record %d (id %d): %v", e.Table, e.Index, e.ID, e.cause)
}

func (e *ErrInvalidRecord) Unwrap() error { return e.cause }

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
