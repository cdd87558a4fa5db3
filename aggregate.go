package solvmatch

import (
	"cmp"
	"context"
	"errors"
	"math"
	"slices"

	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/internal/topk"
	"github.com/hupe1980/solvmatch/model"
)

// tally accumulates the occurrences of one pair across compounds.
type tally struct {
	pair  core.PairID
	count int
	// best is the minimal-distance occurrence; ties keep the smaller compound id.
	best        model.Candidate
	occurrences []model.Candidate
}

// fold counts pair occurrences over the per-compound lists in input order.
func fold(lists [][]model.Candidate, keepOccurrences bool) []*tally {
	index := make(map[core.PairID]*tally)
	var order []*tally

	for _, list := range lists {
		for _, c := range list {
			t, ok := index[c.Pair]
			if !ok {
				t = &tally{pair: c.Pair, best: c}
				index[c.Pair] = t
				order = append(order, t)
			}

			t.count++
			if c.Distance < t.best.Distance || (c.Distance == t.best.Distance && c.Compound < t.best.Compound) {
				t.best = c
			}
			if keepOccurrences {
				t.occurrences = append(t.occurrences, c)
			}
		}
	}

	return order
}

// rank orders tallies by count desc, then minimal distance asc, then pair id asc.
func rank(tallies []*tally) {
	slices.SortFunc(tallies, func(a, b *tally) int {
		if a.count != b.count {
			return cmp.Compare(b.count, a.count)
		}
		if a.best.Distance != b.best.Distance {
			return cmp.Compare(a.best.Distance, b.best.Distance)
		}
		return cmp.Compare(a.pair, b.pair)
	})
}

// aggregate merges the per-compound lists into the final report. It runs on
// a single goroutine after the search barrier.
func (m *Matcher) aggregate(ctx context.Context, cat *catalog, lists [][]model.Candidate) (*Report, error) {
	report := &Report{
		PerCompound: make([]CompoundResult, len(lists)),
	}
	for i, list := range lists {
		report.PerCompound[i] = CompoundResult{Compound: cat.compounds[i], Candidates: list}
	}

	tallies := fold(lists, m.opts.perCompoundRows)
	report.Stats.DistinctPairs = len(tallies)

	rank(tallies)
	selected := tallies[:min(len(tallies), m.opts.maxResults)]
	m.opts.logger.LogAggregate(ctx, len(tallies), len(selected))

	report.Pairs = make([]model.PairCount, 0, len(selected))
	for _, t := range selected {
		report.Pairs = append(report.Pairs, model.PairCount{
			Pair:        t.pair,
			Count:       t.count,
			MinDistance: t.best.Distance,
		})

		occurrences := []model.Candidate{t.best}
		if m.opts.perCompoundRows {
			occurrences = slices.Clone(t.occurrences)
			slices.SortFunc(occurrences, topk.Compare)
		}

		for _, occ := range occurrences {
			row, err := m.resolve(cat, occ)
			if err != nil {
				if errors.Is(err, ErrInvariantViolation) || m.opts.ratioPolicy == RatioAbort {
					return nil, err
				}
				m.opts.logger.LogRatioFailure(ctx, occ.Pair, err)
				report.Failures = append(report.Failures, err)
				continue
			}
			report.Rows = append(report.Rows, row)
		}
	}

	return report, nil
}

// resolve turns one occurrence of a ranked pair into a result row.
func (m *Matcher) resolve(cat *catalog, occ model.Candidate) (model.ResultRow, error) {
	a, b, err := core.DecodePair(occ.Pair)
	if err != nil {
		return model.ResultRow{}, invariantf("decode pair %d: %v", occ.Pair, err)
	}

	sa, ok := cat.solvent(a)
	if !ok {
		return model.ResultRow{}, invariantf("pair %d names unknown solvent %d", occ.Pair, a)
	}
	sb, ok := cat.solvent(b)
	if !ok {
		return model.ResultRow{}, invariantf("pair %d names unknown solvent %d", occ.Pair, b)
	}
	c, ok := cat.compound(occ.Compound)
	if !ok {
		return model.ResultRow{}, invariantf("candidate names unknown compound %d", occ.Compound)
	}

	ratio, err := m.solver.Solve(sa, sb, c, occ.Distance)
	m.opts.metricsCollector.RecordRatioResolution(err)
	if err != nil {
		return model.ResultRow{}, err
	}

	return model.ResultRow{
		Compound: displayName(c.Name, c.ID),
		Pair:     occ.Pair,
		SolventA: displayName(sa.Name, sa.ID),
		RatioA:   percent(ratio.A),
		SolventB: displayName(sb.Name, sb.ID),
		RatioB:   percent(ratio.B),
		Distance: occ.Distance,
	}, nil
}

// percent converts a ratio to a percentage rounded to two decimals.
func percent(r float64) float64 {
	return math.Round(r*1e4) / 1e2
}
