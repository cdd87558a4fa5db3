package table

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing column")
	// ErrDuplicateColumn is returned when two header columns map to the same field.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrDuplicateID is returned when an id occurs twice in one table.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrEmptyTable is returned for inputs without a header row.
	ErrEmptyTable = errors.New("empty table")
	// ErrUnsupportedFormat is returned for names whose extension has no reader or writer.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// ParseError reports a malformed input row.
// Line is 1-based and counts the header. Column is the canonical column
// name, or empty for errors that are not tied to one field.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
