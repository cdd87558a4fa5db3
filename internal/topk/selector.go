package topk

import (
	"slices"
	"unsafe"

	"github.com/hupe1980/solvmatch/model"
)

// DefaultCapacity is the default retention window of a Selector.
const DefaultCapacity = 100_000

// CandidateSize is the in-memory size of one buffered candidate in bytes.
const CandidateSize = int64(unsafe.Sizeof(model.Candidate{}))

// Better reports whether a ranks before b: smaller distance first,
// then smaller pair id, then smaller compound id for determinism.
func Better(a, b model.Candidate) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	if a.Pair != b.Pair {
		return a.Pair < b.Pair
	}
	return a.Compound < b.Compound
}

// Compare is Better as a three-way comparison for slices.SortFunc.
func Compare(a, b model.Candidate) int {
	switch {
	case Better(a, b):
		return -1
	case Better(b, a):
		return 1
	default:
		return 0
	}
}

// GrowFunc is called with the number of bytes a Selector is about to add to its buffer.
// Returning an error aborts the Push that triggered the growth.
type GrowFunc func(bytes int64) error

// Selector retains the smallest-distance candidates of one compound.
//
// Candidates are appended unsorted. The buffer allocation doubles as it fills;
// once it reaches twice the retention window it is sorted and truncated back
// to the window. Only candidates ranked below the window's best-seen are ever
// dropped, so Finalize(n) is exact for every n <= Capacity().
//
// Selector is NOT thread-safe. It is intended to be owned by a single goroutine.
type Selector struct {
	buf         []model.Candidate
	keep        int
	threshold   int
	compactions int
	grow        GrowFunc
	reserved    int64
}

// New creates a Selector that can answer Finalize(n) exactly.
// The retention window is max(n, capacity); capacity <= 0 selects DefaultCapacity.
func New(n, capacity int) *Selector {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	keep := max(n, capacity, 1)
	return &Selector{
		keep:      keep,
		threshold: 2 * keep,
	}
}

// OnGrow installs a callback observing buffer growth.
func (s *Selector) OnGrow(fn GrowFunc) {
	s.grow = fn
}

// Capacity returns the retention window.
func (s *Selector) Capacity() int { return s.keep }

// Len returns the number of buffered candidates.
func (s *Selector) Len() int { return len(s.buf) }

// Compactions returns how many times the buffer was sorted and truncated.
func (s *Selector) Compactions() int { return s.compactions }

// Reserved returns the bytes reported through the grow callback so far.
func (s *Selector) Reserved() int64 { return s.reserved }

// Push adds a candidate.
func (s *Selector) Push(c model.Candidate) error {
	if len(s.buf) == cap(s.buf) {
		if len(s.buf) >= s.threshold {
			s.compact()
		} else if err := s.expand(); err != nil {
			return err
		}
	}
	s.buf = append(s.buf, c)
	return nil
}

// expand doubles the allocation, bounded by the compaction threshold.
func (s *Selector) expand() error {
	newCap := min(max(2*cap(s.buf), 64), s.threshold)
	delta := int64(newCap-cap(s.buf)) * CandidateSize
	if s.grow != nil {
		if err := s.grow(delta); err != nil {
			return err
		}
	}
	s.reserved += delta

	buf := make([]model.Candidate, len(s.buf), newCap)
	copy(buf, s.buf)
	s.buf = buf
	return nil
}

func (s *Selector) compact() {
	slices.SortFunc(s.buf, Compare)
	clear(s.buf[s.keep:])
	s.buf = s.buf[:s.keep]
	s.compactions++
}

// Finalize sorts the buffer ascending by distance and returns the first n
// candidates (all of them if fewer exist). The returned slice is a copy.
func (s *Selector) Finalize(n int) []model.Candidate {
	slices.SortFunc(s.buf, Compare)
	n = min(max(n, 0), len(s.buf))
	return slices.Clone(s.buf[:n])
}

// Reset clears the selector for reuse, keeping its allocation.
func (s *Selector) Reset() {
	clear(s.buf)
	s.buf = s.buf[:0]
	s.compactions = 0
}
