package main

import (
	"errors"

	"github.com/hupe1980/solvmatch"
	"github.com/hupe1980/solvmatch/blend"
	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/table"
)

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config file, unknown store)
	ExitDataError   = 3 // Data error (malformed table, invalid ids or parameters)
)

// configError marks errors caused by configuration rather than data.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func asConfigError(err error) error {
	if err == nil {
		return nil
	}
	return &configError{err: err}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ce *configError
	if errors.As(err, &ce) || errors.Is(err, table.ErrUnsupportedFormat) {
		return ExitConfigError
	}

	var (
		pe *table.ParseError
		re *solvmatch.ErrInvalidRecord
		rn *blend.RatioNotFoundError
	)
	switch {
	case errors.As(err, &pe),
		errors.As(err, &re),
		errors.As(err, &rn),
		errors.Is(err, table.ErrMissingColumn),
		errors.Is(err, table.ErrDuplicateColumn),
		errors.Is(err, table.ErrDuplicateID),
		errors.Is(err, table.ErrEmptyTable),
		errors.Is(err, solvmatch.ErrDuplicateID),
		errors.Is(err, solvmatch.ErrInvalidParams),
		errors.Is(err, core.ErrIDOutOfRange),
		errors.Is(err, core.ErrPairOutOfRange):
		return ExitDataError
	}
	return ExitError
}
