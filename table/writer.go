package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/solvmatch"
	"github.com/hupe1980/solvmatch/codec"
	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/model"
)

// Column headers of the text outputs.
var (
	ResultsHeader   = []string{"compound", "pair_id", "solvent_a", "solvent_a_ratio", "solvent_b", "solvent_b_ratio", "distance"}
	PairsHeader     = []string{"pair_id", "occurrence_count"}
	NeighborsHeader = []string{"compound", "rank", "pair_id", "solvent_a_id", "solvent_b_id", "distance"}
)

// Neighbor is one entry of a compound's nearest-pair list.
type Neighbor struct {
	Compound string      `json:"compound"`
	Rank     int         `json:"rank"`
	Pair     core.PairID `json:"pair_id"`
	SolventA core.ID     `json:"solvent_a_id"`
	SolventB core.ID     `json:"solvent_b_id"`
	Distance float64     `json:"distance"`
}

// Neighbors flattens per-compound candidate lists into rows, keeping
// compound order and ranking each list from 1.
func Neighbors(per []solvmatch.CompoundResult) ([]Neighbor, error) {
	var out []Neighbor
	for _, cr := range per {
		name := cr.Compound.Name
		if name == "" {
			name = strconv.FormatUint(uint64(cr.Compound.ID), 10)
		}
		for i, c := range cr.Candidates {
			a, b, err := core.DecodePair(c.Pair)
			if err != nil {
				return nil, fmt.Errorf("compound %d: %w", cr.Compound.ID, err)
			}
			out = append(out, Neighbor{
				Compound: name,
				Rank:     i + 1,
				Pair:     c.Pair,
				SolventA: a,
				SolventB: b,
				Distance: c.Distance,
			})
		}
	}
	return out, nil
}

// WriteOptions configures report output.
type WriteOptions struct {
	// Codec encodes JSON outputs. Defaults to codec.Default.
	Codec codec.Codec
	// ZstdLevel is the zstd compression level (1-22) for ".zst" outputs.
	ZstdLevel int
}

// DefaultWriteOptions returns the default write options.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		Codec:     codec.Default,
		ZstdLevel: 3,
	}
}

// WithCodec sets the JSON codec.
func WithCodec(c codec.Codec) func(*WriteOptions) {
	return func(o *WriteOptions) {
		o.Codec = c
	}
}

// WithZstdLevel sets the zstd compression level.
func WithZstdLevel(level int) func(*WriteOptions) {
	return func(o *WriteOptions) {
		o.ZstdLevel = level
	}
}

// tableData is a report section in every shape a writer may need.
type tableData struct {
	header []string
	n      int
	record func(i int) []string
	value  any
}

func resultsData(rows []model.ResultRow) tableData {
	return tableData{
		header: ResultsHeader,
		n:      len(rows),
		record: func(i int) []string {
			r := rows[i]
			return []string{
				r.Compound,
				formatUint(uint64(r.Pair)),
				r.SolventA,
				formatFloat(r.RatioA),
				r.SolventB,
				formatFloat(r.RatioB),
				formatFloat(r.Distance),
			}
		},
		value: nonNil(rows),
	}
}

func pairsData(pairs []model.PairCount) tableData {
	return tableData{
		header: PairsHeader,
		n:      len(pairs),
		record: func(i int) []string {
			return []string{formatUint(uint64(pairs[i].Pair)), strconv.Itoa(pairs[i].Count)}
		},
		value: nonNil(pairs),
	}
}

func neighborsData(neighbors []Neighbor) tableData {
	return tableData{
		header: NeighborsHeader,
		n:      len(neighbors),
		record: func(i int) []string {
			n := neighbors[i]
			return []string{
				n.Compound,
				strconv.Itoa(n.Rank),
				formatUint(uint64(n.Pair)),
				formatUint(uint64(n.SolventA)),
				formatUint(uint64(n.SolventB)),
				formatFloat(n.Distance),
			}
		},
		value: nonNil(neighbors),
	}
}

// WriteResults writes result rows to w in a text format.
func WriteResults(w io.Writer, f Format, rows []model.ResultRow, optFns ...func(*WriteOptions)) error {
	return writeText(w, f, resultsData(rows), applyWriteOptions(optFns))
}

// WritePairs writes pair counts to w in a text format.
func WritePairs(w io.Writer, f Format, pairs []model.PairCount, optFns ...func(*WriteOptions)) error {
	return writeText(w, f, pairsData(pairs), applyWriteOptions(optFns))
}

// WriteNeighbors writes neighbor rows to w in a text format.
func WriteNeighbors(w io.Writer, f Format, neighbors []Neighbor, optFns ...func(*WriteOptions)) error {
	return writeText(w, f, neighborsData(neighbors), applyWriteOptions(optFns))
}

func applyWriteOptions(optFns []func(*WriteOptions)) WriteOptions {
	opts := DefaultWriteOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	return opts
}

func writeText(w io.Writer, f Format, t tableData, opts WriteOptions) error {
	switch f {
	case FormatCSV, FormatTSV:
		cw := csv.NewWriter(w)
		cw.Comma = f.comma()
		if err := cw.Write(t.header); err != nil {
			return err
		}
		for i := 0; i < t.n; i++ {
			if err := cw.Write(t.record(i)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatJSON:
		b, err := codec.Pretty(opts.Codec, t.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", opts.Codec.Name(), err)
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("%w: %s is not a text format", ErrUnsupportedFormat, f)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// nonNil makes empty sections encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
