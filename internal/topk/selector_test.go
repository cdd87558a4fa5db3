package topk

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomCandidates(rng *rand.Rand, count int) []model.Candidate {
	out := make([]model.Candidate, count)
	for i := range out {
		out[i] = model.Candidate{
			Pair:     core.PairID(i),
			Compound: 1,
			// Coarse distances force plenty of ties.
			Distance: float64(rng.Intn(500)) / 10,
		}
	}
	return out
}

func offlineTopK(cands []model.Candidate, n int) []model.Candidate {
	sorted := slices.Clone(cands)
	slices.SortFunc(sorted, Compare)
	return sorted[:min(n, len(sorted))]
}

func TestSelectorMatchesOfflineSort(t *testing.T) {
	rng := rand.New(rand.NewSource(4711))
	cands := randomCandidates(rng, 5_000)

	for _, tc := range []struct {
		name     string
		n        int
		capacity int
	}{
		{"NoCompaction", 10, DefaultCapacity},
		{"ForcedCompaction", 10, 16},
		{"WindowEqualsN", 50, 50},
		{"NAboveCapacity", 100, 8},
	} {
		t.Run(tc.name, func(t *testing.T) {
			want := offlineTopK(cands, tc.n)

			for trial := 0; trial < 5; trial++ {
				shuffled := slices.Clone(cands)
				rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

				sel := New(tc.n, tc.capacity)
				for _, c := range shuffled {
					require.NoError(t, sel.Push(c))
				}
				assert.Equal(t, want, sel.Finalize(tc.n))
			}
		})
	}
}

func TestSelectorCompacts(t *testing.T) {
	sel := New(4, 4)
	assert.Equal(t, 4, sel.Capacity())

	for i := 0; i < 100; i++ {
		require.NoError(t, sel.Push(model.Candidate{Pair: core.PairID(i), Distance: float64(100 - i)}))
		assert.LessOrEqual(t, sel.Len(), 8)
	}
	assert.Positive(t, sel.Compactions())

	got := sel.Finalize(4)
	require.Len(t, got, 4)
	assert.Equal(t, []float64{1, 2, 3, 4}, []float64{got[0].Distance, got[1].Distance, got[2].Distance, got[3].Distance})
}

func TestSelectorFinalizeFewer(t *testing.T) {
	sel := New(10, 0)
	assert.Equal(t, DefaultCapacity, sel.Capacity())
	assert.Empty(t, sel.Finalize(10))

	require.NoError(t, sel.Push(model.Candidate{Pair: 2, Distance: 3}))
	require.NoError(t, sel.Push(model.Candidate{Pair: 1, Distance: 1}))

	got := sel.Finalize(10)
	require.Len(t, got, 2)
	assert.Equal(t, core.PairID(1), got[0].Pair)
	assert.Equal(t, core.PairID(2), got[1].Pair)
}

func TestSelectorGrowCallback(t *testing.T) {
	t.Run("Accounts", func(t *testing.T) {
		var total int64
		sel := New(1, 100)
		sel.OnGrow(func(bytes int64) error {
			total += bytes
			return nil
		})
		for i := 0; i < 150; i++ {
			require.NoError(t, sel.Push(model.Candidate{Pair: core.PairID(i)}))
		}
		assert.Equal(t, total, sel.Reserved())
		assert.LessOrEqual(t, total, int64(200)*CandidateSize)
	})

	t.Run("Aborts", func(t *testing.T) {
		errBudget := errors.New("budget")
		sel := New(1, 100)
		sel.OnGrow(func(int64) error { return errBudget })
		assert.ErrorIs(t, sel.Push(model.Candidate{}), errBudget)
		assert.Equal(t, 0, sel.Len())
	})
}

func TestSelectorReset(t *testing.T) {
	sel := New(2, 2)
	for i := 0; i < 10; i++ {
		require.NoError(t, sel.Push(model.Candidate{Pair: core.PairID(i), Distance: float64(i)}))
	}
	sel.Reset()
	assert.Equal(t, 0, sel.Len())
	assert.Equal(t, 0, sel.Compactions())
	assert.Empty(t, sel.Finalize(2))
}

func TestBetterTieBreak(t *testing.T) {
	a := model.Candidate{Pair: 1, Compound: 2, Distance: 1}
	b := model.Candidate{Pair: 2, Compound: 1, Distance: 1}
	c := model.Candidate{Pair: 1, Compound: 3, Distance: 1}

	assert.True(t, Better(a, b))
	assert.False(t, Better(b, a))
	assert.True(t, Better(a, c))
	assert.Equal(t, 0, Compare(a, a))
	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
}
