package solvmatch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/solvmatch/blend"
	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/internal/topk"
	"github.com/hupe1980/solvmatch/model"
)

// search runs one task per compound and returns each compound's nearest pairs,
// indexed like cat.compounds. It returns only after every task has finished.
func (m *Matcher) search(ctx context.Context, cat *catalog) ([][]model.Candidate, Stats, error) {
	lists := make([][]model.Candidate, len(cat.compounds))

	var (
		done        atomic.Int64
		pairs       atomic.Int64
		compactions atomic.Int64
	)

	progress := &rate.Sometimes{Interval: m.opts.progressInterval}
	total := len(cat.compounds)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.workers)

	for i := range cat.compounds {
		g.Go(func() error {
			res, err := m.searchCompound(gctx, cat, cat.compounds[i])
			if err != nil {
				return err
			}

			lists[i] = res.candidates
			pairs.Add(int64(res.pairs))
			compactions.Add(int64(res.compactions))

			n := done.Add(1)
			progress.Do(func() {
				m.opts.logger.LogProgress(gctx, int(n), total)
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	return lists, Stats{
		PairsScored: pairs.Load(),
		Compactions: int(compactions.Load()),
		PeakMemory:  m.controller.PeakMemoryUsage(),
	}, nil
}

type compoundResult struct {
	candidates  []model.Candidate
	pairs       int
	compactions int
}

// searchCompound scores every solvent pair against c and keeps the nearest.
func (m *Matcher) searchCompound(ctx context.Context, cat *catalog, c model.Compound) (res compoundResult, err error) {
	start := time.Now()

	sel := topk.New(m.opts.nearest, m.opts.capacity)
	sel.OnGrow(m.controller.AcquireMemory)

	defer func() {
		m.controller.ReleaseMemory(sel.Reserved())
		m.opts.metricsCollector.RecordCompoundSearch(res.pairs, sel.Compactions(), time.Since(start), err)
		m.opts.logger.LogCompoundSearch(ctx, c.ID, res.pairs, len(res.candidates), err)
	}()

	solvents := cat.solvents
	for i := range solvents {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		a := solvents[i]
		for j := i + 1; j < len(solvents); j++ {
			b := solvents[j]

			pair, err := core.OrderedPair(a.ID, b.ID)
			if err != nil {
				return res, invariantf("pair (%d, %d): %v", a.ID, b.ID, err)
			}

			from, to := blend.Range(a, b)
			cand := model.Candidate{
				Pair:     pair,
				Compound: c.ID,
				Distance: m.space.Segment(c.Params, from, to),
			}
			if err := sel.Push(cand); err != nil {
				return res, fmt.Errorf("compound %d: %w", c.ID, err)
			}
			res.pairs++
		}
	}

	res.candidates = sel.Finalize(m.opts.nearest)
	res.compactions = sel.Compactions()
	return res, nil
}
