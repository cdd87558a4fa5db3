package solvmatch

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/solvmatch/blend"
	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/distance"
	"github.com/hupe1980/solvmatch/internal/vec3"
	"github.com/hupe1980/solvmatch/model"
	"github.com/hupe1980/solvmatch/resource"
)

// Matcher finds the solvent pairs whose blends best approximate a set of compounds.
//
// A Matcher holds configuration only; it is safe to call Match concurrently.
type Matcher struct {
	opts       options
	space      distance.Space
	solver     *blend.Solver
	controller *resource.Controller
}

// New creates a Matcher.
//
// Example:
//
//	m, err := solvmatch.New(
//	    solvmatch.WithNearest(5),
//	    solvmatch.WithMaxResults(20),
//	    solvmatch.WithDispersionWeight(distance.HansenDispersionWeight),
//	)
func New(optFns ...Option) (*Matcher, error) {
	opts := applyOptions(optFns)

	if opts.nearest < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNearest, opts.nearest)
	}
	if opts.maxResults < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxResults, opts.maxResults)
	}
	if opts.workers <= 0 {
		opts.workers = runtime.GOMAXPROCS(0)
	}
	if opts.memoryLimit < 0 {
		return nil, fmt.Errorf("invalid memory limit: %d", opts.memoryLimit)
	}

	space, err := distance.NewSpace(opts.dispersionWeight)
	if err != nil {
		return nil, err
	}

	solverOpts := append([]func(*blend.Options){func(o *blend.Options) { o.Space = space }}, opts.solverOptFns...)
	solver, err := blend.NewSolver(solverOpts...)
	if err != nil {
		return nil, err
	}

	return &Matcher{
		opts:       opts,
		space:      space,
		solver:     solver,
		controller: resource.NewController(resource.Config{MemoryLimitBytes: opts.memoryLimit}),
	}, nil
}

// Report is the outcome of one Match call.
type Report struct {
	// Rows holds one resolved row per ranked pair, or one per occurrence with
	// WithPerCompoundRows.
	Rows []model.ResultRow
	// Pairs holds the ranked pairs with their occurrence counts.
	Pairs []model.PairCount
	// PerCompound holds each compound's nearest pairs in compound input order.
	PerCompound []CompoundResult
	// Failures holds the ratio resolution errors of dropped rows.
	Failures []error
	Stats    Stats
}

// CompoundResult is the ranked list of pairs kept for one compound.
type CompoundResult struct {
	Compound   model.Compound
	Candidates []model.Candidate
}

// Stats summarizes a Match call.
type Stats struct {
	Compounds     int
	Solvents      int
	PairsScored   int64
	DistinctPairs int
	Compactions   int
	PeakMemory    int64
	Duration      time.Duration
}

// Match runs the full batch: a parallel search per compound, then a sequential
// ranking of the pairs across compounds and ratio resolution for the winners.
//
// A single solvent (or none) yields no pairs and an empty report, not an error.
func (m *Matcher) Match(ctx context.Context, compounds []model.Compound, solvents []model.Solvent) (report *Report, err error) {
	start := time.Now()
	defer func() {
		rows := 0
		if report != nil {
			rows = len(report.Rows)
		}
		duration := time.Since(start)
		m.opts.metricsCollector.RecordRun(len(compounds), rows, duration, err)
		m.opts.logger.LogRun(ctx, len(compounds), len(solvents), rows, duration, err)
	}()

	cat, err := newCatalog(compounds, solvents)
	if err != nil {
		return nil, err
	}

	lists, stats, err := m.search(ctx, cat)
	if err != nil {
		return nil, err
	}

	report, err = m.aggregate(ctx, cat, lists)
	if err != nil {
		return nil, err
	}

	stats.Compounds = len(compounds)
	stats.Solvents = len(solvents)
	stats.DistinctPairs = report.Stats.DistinctPairs
	stats.Duration = time.Since(start)
	report.Stats = stats

	return report, nil
}

// catalog is the read-only view of the loaded tables shared by every worker.
type catalog struct {
	solvents  []model.Solvent
	compounds []model.Compound

	solventIdx  map[core.ID]int
	compoundIdx map[core.ID]int
}

func newCatalog(compounds []model.Compound, solvents []model.Solvent) (*catalog, error) {
	cat := &catalog{
		solvents:    solvents,
		compounds:   compounds,
		solventIdx:  make(map[core.ID]int, len(solvents)),
		compoundIdx: make(map[core.ID]int, len(compounds)),
	}

	seen := roaring.New()
	for i, s := range solvents {
		if err := validateRecord(seen, s.ID, s.Params); err != nil {
			return nil, &ErrInvalidRecord{Table: "solvent", Index: i, ID: s.ID, cause: err}
		}
		cat.solventIdx[s.ID] = i
	}

	seen.Clear()
	for i, c := range compounds {
		if err := validateRecord(seen, c.ID, c.Params); err != nil {
			return nil, &ErrInvalidRecord{Table: "compound", Index: i, ID: c.ID, cause: err}
		}
		cat.compoundIdx[c.ID] = i
	}

	return cat, nil
}

func validateRecord(seen *roaring.Bitmap, id core.ID, params model.Params) error {
	if err := core.ValidateID(uint64(id)); err != nil {
		return err
	}
	if !seen.CheckedAdd(uint32(id)) {
		return ErrDuplicateID
	}
	if !vec3.Finite(params) {
		return fmt.Errorf("%w: %v", ErrInvalidParams, params)
	}
	return nil
}

func (c *catalog) solvent(id core.ID) (model.Solvent, bool) {
	i, ok := c.solventIdx[id]
	if !ok {
		return model.Solvent{}, false
	}
	return c.solvents[i], true
}

func (c *catalog) compound(id core.ID) (model.Compound, bool) {
	i, ok := c.compoundIdx[id]
	if !ok {
		return model.Compound{}, false
	}
	return c.compounds[i], true
}

// displayName returns name, or the id when the record has none.
func displayName(name string, id core.ID) string {
	if name != "" {
		return name
	}
	return strconv.FormatUint(uint64(id), 10)
}
