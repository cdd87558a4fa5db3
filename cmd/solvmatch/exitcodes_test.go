package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/solvmatch"
	"github.com/hupe1980/solvmatch/blend"
	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/table"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitError},
		{"config", asConfigError(errors.New("bad")), ExitConfigError},
		{"unsupported format", fmt.Errorf("save: %w", table.ErrUnsupportedFormat), ExitConfigError},
		{"parse error", fmt.Errorf("read x: %w", &table.ParseError{Line: 2, Err: errors.New("x")}), ExitDataError},
		{"missing column", table.ErrMissingColumn, ExitDataError},
		{"duplicate id", solvmatch.ErrDuplicateID, ExitDataError},
		{"id range", core.ErrIDOutOfRange, ExitDataError},
		{"ratio", &blend.RatioNotFoundError{}, ExitDataError},
		{"invariant", solvmatch.ErrInvariantViolation, ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
