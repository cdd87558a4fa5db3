package benchmark_test

import (
	"strconv"
	"testing"

	"github.com/hupe1980/solvmatch"
	"github.com/hupe1980/solvmatch/distance"
)

// ============================================================================
// Match Benchmarks
// ============================================================================

// BenchmarkMatchSolvents measures how a batch scales with the solvent table,
// which grows the scored pairs quadratically.
func BenchmarkMatchSolvents(b *testing.B) {
	for _, s := range []int{solventsSmall, solventsMedium, solventsLarge} {
		b.Run("solvents="+strconv.Itoa(s), func(b *testing.B) {
			solvents, compounds := makeTables(s, compoundsDefault)
			runMatch(b, solvents, compounds)
		})
	}
}

// BenchmarkMatchWorkers measures parallel speedup of the per-compound fan-out.
func BenchmarkMatchWorkers(b *testing.B) {
	solvents, compounds := makeTables(solventsMedium, 256)

	for _, w := range []int{1, 2, 4, 8} {
		b.Run("workers="+strconv.Itoa(w), func(b *testing.B) {
			runMatch(b, solvents, compounds, solvmatch.WithWorkers(w))
		})
	}
}

// BenchmarkMatchCapacity measures the cost of candidate buffer compaction.
// Small capacities compact often, large ones hold more candidates per worker.
func BenchmarkMatchCapacity(b *testing.B) {
	solvents, compounds := makeTables(solventsLarge, compoundsDefault)

	for _, c := range []int{16, 128, 1024} {
		b.Run("capacity="+strconv.Itoa(c), func(b *testing.B) {
			runMatch(b, solvents, compounds,
				solvmatch.WithNearest(10),
				solvmatch.WithInitialCapacity(c),
			)
		})
	}
}

// BenchmarkMatchHansenWeight compares the unweighted and the Hansen-weighted space.
func BenchmarkMatchHansenWeight(b *testing.B) {
	solvents, compounds := makeTables(solventsMedium, compoundsDefault)

	for _, w := range []float64{1, distance.HansenDispersionWeight} {
		b.Run("weight="+strconv.FormatFloat(w, 'g', -1, 64), func(b *testing.B) {
			runMatch(b, solvents, compounds, solvmatch.WithDispersionWeight(w))
		})
	}
}

// BenchmarkMatchPerCompoundRows measures ratio resolution for every occurrence.
func BenchmarkMatchPerCompoundRows(b *testing.B) {
	solvents, compounds := makeTables(solventsSmall, compoundsDefault)
	runMatch(b, solvents, compounds,
		solvmatch.WithMaxResults(50),
		solvmatch.WithPerCompoundRows(true),
	)
}
