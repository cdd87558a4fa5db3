package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/model"
)

// Canonical column names.
const (
	ColumnID   = "id"
	ColumnName = "name"
	ColumnDD   = "d_d"
	ColumnDP   = "d_p"
	ColumnDH   = "d_h"
)

var columnAliases = map[string]string{
	"id":       ColumnID,
	"name":     ColumnName,
	"solvent":  ColumnName,
	"compound": ColumnName,
	"drug":     ColumnName,
	"d_d":      ColumnDD,
	"dd":       ColumnDD,
	"d_p":      ColumnDP,
	"dp":       ColumnDP,
	"d_h":      ColumnDH,
	"dh":       ColumnDH,
}

var requiredColumns = []string{ColumnID, ColumnDD, ColumnDP, ColumnDH}

// ReadOptions configures delimited table parsing.
type ReadOptions struct {
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
	// Comment, if set, marks lines to skip.
	Comment rune
}

// record is one parsed input row shared by solvent and compound tables.
type record struct {
	id     core.ID
	name   string
	params model.Params
}

// ReadSolvents parses a solvent table.
func ReadSolvents(r io.Reader, optFns ...func(*ReadOptions)) ([]model.Solvent, error) {
	recs, err := readRecords(r, optFns...)
	if err != nil {
		return nil, err
	}
	out := make([]model.Solvent, len(recs))
	for i, rec := range recs {
		out[i] = model.Solvent{ID: rec.id, Name: rec.name, Params: rec.params}
	}
	return out, nil
}

// ReadCompounds parses a compound table.
func ReadCompounds(r io.Reader, optFns ...func(*ReadOptions)) ([]model.Compound, error) {
	recs, err := readRecords(r, optFns...)
	if err != nil {
		return nil, err
	}
	out := make([]model.Compound, len(recs))
	for i, rec := range recs {
		out[i] = model.Compound{ID: rec.id, Name: rec.name, Params: rec.params}
	}
	return out, nil
}

func readRecords(r io.Reader, optFns ...func(*ReadOptions)) ([]record, error) {
	opts := ReadOptions{Comma: ','}
	for _, fn := range optFns {
		fn(&opts)
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Comma
	cr.Comment = opts.Comment
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, csvError(err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var (
		recs []record
		seen = roaring.New()
	)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}

		line, _ := cr.FieldPos(0)
		rec, err := parseRecord(fields, cols, line)
		if err != nil {
			return nil, err
		}
		if !seen.CheckedAdd(uint32(rec.id)) {
			return nil, &ParseError{Line: line, Column: ColumnID, Err: fmt.Errorf("%w %d", ErrDuplicateID, rec.id)}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// mapHeader returns the field index of every canonical column, -1 when absent.
func mapHeader(header []string) (map[string]int, error) {
	cols := map[string]int{ColumnName: -1}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		canonical, ok := columnAliases[key]
		if !ok {
			continue
		}
		if j, dup := cols[canonical]; dup && j >= 0 {
			return nil, &ParseError{Line: 1, Column: canonical, Err: fmt.Errorf("%w: %q and %q", ErrDuplicateColumn, header[j], h)}
		}
		cols[canonical] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return cols, nil
}

func parseRecord(fields []string, cols map[string]int, line int) (record, error) {
	var rec record

	raw := strings.TrimSpace(fields[cols[ColumnID]])
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return rec, &ParseError{Line: line, Column: ColumnID, Err: err}
	}
	if err := core.ValidateID(id); err != nil {
		return rec, &ParseError{Line: line, Column: ColumnID, Err: err}
	}
	rec.id = core.ID(id)

	if i := cols[ColumnName]; i >= 0 {
		rec.name = strings.TrimSpace(fields[i])
	}

	for dim, c := range []string{ColumnDD, ColumnDP, ColumnDH} {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[cols[c]]), 64)
		if err != nil {
			return rec, &ParseError{Line: line, Column: c, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return rec, &ParseError{Line: line, Column: c, Err: fmt.Errorf("non-finite value %v", v)}
		}
		rec.params[dim] = v
	}
	return rec, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return err
}
