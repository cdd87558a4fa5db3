package blend

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/distance"
	"github.com/hupe1980/solvmatch/model"
)

// ErrRatioNotFound is returned when no grid ratio reproduces the target distance.
var ErrRatioNotFound = errors.New("ratio not found")

// RatioNotFoundError identifies the pair, compound and distance the solver failed on.
//
// errors.Is(err, ErrRatioNotFound) reports true for it.
type RatioNotFoundError struct {
	SolventA core.ID
	SolventB core.ID
	Compound core.ID
	Target   float64
	BestDiff float64
}

func (e *RatioNotFoundError) Error() string {
	return fmt.Sprintf("ratio not found: solvents (%d, %d) compound %d target %g (best diff %g)",
		e.SolventA, e.SolventB, e.Compound, e.Target, e.BestDiff)
}

func (e *RatioNotFoundError) Unwrap() error { return ErrRatioNotFound }

// Options configures the solver grid.
type Options struct {
	// Max is the first ratio tried. Default: 0.9.
	Max float64
	// Min is the last ratio tried. Default: 0.1.
	Min float64
	// Step is the decrement between tries. Default: 0.01.
	Step float64
	// Tolerance rejects a best match whose distance differs from the target by
	// more than this. Zero disables the check.
	Tolerance float64
	// Space measures blend-to-compound distances. Default: distance.Euclidean.
	Space distance.Space
}

// DefaultOptions returns the grid used by the search: 0.9 down to 0.1 by 0.01.
func DefaultOptions() Options {
	return Options{
		Max:   RangeMax,
		Min:   RangeMin,
		Step:  0.01,
		Space: distance.Euclidean,
	}
}

// Solver inverts a distance into a mixing ratio by grid search.
// Solver is safe for concurrent use.
type Solver struct {
	opts  Options
	steps int
}

// NewSolver creates a solver. optFns are applied on top of DefaultOptions.
func NewSolver(optFns ...func(*Options)) (*Solver, error) {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Min < 0 || opts.Max > 1 || opts.Min > opts.Max {
		return nil, fmt.Errorf("invalid ratio grid [%g, %g]", opts.Min, opts.Max)
	}
	if !(opts.Step > 0) {
		return nil, fmt.Errorf("invalid ratio step %g", opts.Step)
	}
	if opts.Tolerance < 0 {
		return nil, fmt.Errorf("invalid tolerance %g", opts.Tolerance)
	}

	steps := int(math.Floor((opts.Max-opts.Min)/opts.Step + 1e-9))
	return &Solver{opts: opts, steps: steps}, nil
}

// Options returns the effective solver options.
func (s *Solver) Options() Options {
	return s.opts
}

// ratioAt returns the i-th grid ratio counted down from Max. Rounding to 1e-12
// removes the representation error of repeated decimal steps.
func (s *Solver) ratioAt(i int) float64 {
	r := s.opts.Max - float64(i)*s.opts.Step
	return math.Round(r*1e12) / 1e12
}

// Solve returns the ratio r in the grid at which the distance between
// Mix(a, b, r) and the compound is closest to target. Ties keep the larger r.
func (s *Solver) Solve(a, b model.Solvent, c model.Compound, target float64) (model.Ratio, error) {
	notFound := &RatioNotFoundError{
		SolventA: a.ID,
		SolventB: b.ID,
		Compound: c.ID,
		Target:   target,
		BestDiff: math.Inf(1),
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target < 0 {
		return model.Ratio{}, notFound
	}

	best := math.Inf(1)
	found := false
	var ratio float64

	for i := 0; i <= s.steps; i++ {
		r := s.ratioAt(i)
		d := s.opts.Space.Point(Mix(a, b, r).Params, c.Params)
		diff := math.Abs(d - target)
		if diff < best {
			best = diff
			ratio = r
			found = true
		}
	}

	if !found || (s.opts.Tolerance > 0 && best > s.opts.Tolerance) {
		notFound.BestDiff = best
		return model.Ratio{}, notFound
	}

	return model.Ratio{A: ratio, B: 1 - ratio}, nil
}
