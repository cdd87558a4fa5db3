package benchmark_test

import (
	"context"
	"testing"

	"github.com/hupe1980/solvmatch"
	"github.com/hupe1980/solvmatch/model"
	"github.com/hupe1980/solvmatch/testutil"
)

const (
	solventsSmall  = 25
	solventsMedium = 50
	solventsLarge  = 100

	compoundsDefault = 64
)

// Use deterministic RNG for reproducible benchmarks
var rng = testutil.NewRNG(42)

func makeTables(numSolvents, numCompounds int) ([]model.Solvent, []model.Compound) {
	rng.Reset()
	return rng.Solvents(numSolvents), rng.Compounds(numCompounds)
}

func pairCount(numSolvents int) int {
	return numSolvents * (numSolvents - 1) / 2
}

// runMatch runs b.N Match calls and reports scored pairs per second.
func runMatch(b *testing.B, solvents []model.Solvent, compounds []model.Compound, opts ...solvmatch.Option) {
	b.Helper()

	m, err := solvmatch.New(opts...)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := m.Match(ctx, compounds, solvents); err != nil {
			b.Fatal(err)
		}
	}

	b.StopTimer()
	scored := float64(b.N) * float64(len(compounds)) * float64(pairCount(len(solvents)))
	b.ReportMetric(scored/b.Elapsed().Seconds(), "pairs/s")
}
