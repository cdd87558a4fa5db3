package testutil

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/solvmatch/blend"
	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/distance"
	"github.com/hupe1980/solvmatch/model"
)

// Typical bounds of Hansen parameters in MPa^0.5.
const (
	MinParam = 0.0
	MaxParam = 30.0
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Params returns parameters drawn uniformly from [minVal, maxVal).
func (r *RNG) Params(minVal, maxVal float64) model.Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paramsLocked(minVal, maxVal)
}

func (r *RNG) paramsLocked(minVal, maxVal float64) model.Params {
	span := maxVal - minVal
	var p model.Params
	for i := range p {
		p[i] = minVal + r.rand.Float64()*span
	}
	return p
}

// IDs returns num distinct ids in random order, drawn from [0, limit).
// Useful to make sure nothing depends on ids being dense or sorted.
func (r *RNG) IDs(num int, limit core.ID) []core.ID {
	if uint64(num) > uint64(limit) {
		panic(fmt.Sprintf("testutil: cannot draw %d distinct ids below %d", num, limit))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[core.ID]struct{}, num)
	ids := make([]core.ID, 0, num)
	for len(ids) < num {
		id := core.ID(r.rand.Int63n(int64(limit)))
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Solvents generates num solvents with sequential ids and uniform parameters.
func (r *RNG) Solvents(num int) []model.Solvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	solvents := make([]model.Solvent, num)
	for i := range solvents {
		solvents[i] = model.Solvent{
			ID:     core.ID(i),
			Name:   fmt.Sprintf("solvent-%d", i),
			Params: r.paramsLocked(MinParam, MaxParam),
		}
	}
	return solvents
}

// Compounds generates num compounds with sequential ids and uniform parameters.
func (r *RNG) Compounds(num int) []model.Compound {
	r.mu.Lock()
	defer r.mu.Unlock()

	compounds := make([]model.Compound, num)
	for i := range compounds {
		compounds[i] = model.Compound{
			ID:     core.ID(i),
			Name:   fmt.Sprintf("compound-%d", i),
			Params: r.paramsLocked(MinParam, MaxParam),
		}
	}
	return compounds
}

// Shuffle permutes n elements with swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(n, swap)
}

// BruteForceNearest scores every solvent pair against c and returns the n
// nearest, ordered by distance then pair id. It materializes and sorts the full
// candidate set and is meant as ground truth for the bounded search.
func BruteForceNearest(c model.Compound, solvents []model.Solvent, n int, space distance.Space) []model.Candidate {
	var all []model.Candidate
	for i := range solvents {
		for j := i + 1; j < len(solvents); j++ {
			pair, err := core.OrderedPair(solvents[i].ID, solvents[j].ID)
			if err != nil {
				panic(err)
			}
			from, to := blend.Range(solvents[i], solvents[j])
			all = append(all, model.Candidate{
				Pair:     pair,
				Compound: c.ID,
				Distance: space.Segment(c.Params, from, to),
			})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Distance != all[j].Distance {
			return all[i].Distance < all[j].Distance
		}
		return all[i].Pair < all[j].Pair
	})

	if n < len(all) {
		all = all[:n]
	}
	return all
}

// BruteForceCounts returns how many compounds keep each pair among their n nearest.
func BruteForceCounts(compounds []model.Compound, solvents []model.Solvent, n int, space distance.Space) map[core.PairID]int {
	counts := make(map[core.PairID]int)
	for _, c := range compounds {
		for _, cand := range BruteForceNearest(c, solvents, n, space) {
			counts[cand.Pair]++
		}
	}
	return counts
}
