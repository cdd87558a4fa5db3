package core

import (
	"errors"
	"fmt"
	"math"
)

// ID identifies a solvent or a compound within its table.
// Ids are capped at MaxID so that any pair of them encodes into a PairID
// without overflowing 64 bits.
type ID uint32

// MaxID is the largest id accepted by the pair codec.
const MaxID ID = math.MaxInt32

// PairID is the Cantor pairing of an ordered solvent id pair (a, b) with a < b.
type PairID uint64

// MaxPairID is the encoding of the largest admissible pair (MaxID-1, MaxID).
var MaxPairID = mustEncode(MaxID-1, MaxID)

var (
	// ErrUnorderedPair is returned when a pair is not strictly ascending.
	ErrUnorderedPair = errors.New("pair ids must satisfy a < b")

	// ErrIDOutOfRange is returned for ids above MaxID.
	ErrIDOutOfRange = errors.New("id out of range")

	// ErrPairOutOfRange is returned when decoding a PairID that no admissible pair produces.
	ErrPairOutOfRange = errors.New("pair id out of range")
)

// ValidateID reports ErrIDOutOfRange for ids the pair codec cannot represent.
func ValidateID(id uint64) error {
	if id > uint64(MaxID) {
		return fmt.Errorf("%w: %d > %d", ErrIDOutOfRange, id, MaxID)
	}
	return nil
}

// triangle returns s(s+1)/2. Halving before the multiplication keeps every
// s < 2^32 inside uint64.
func triangle(s uint64) uint64 {
	if s%2 == 0 {
		return (s / 2) * (s + 1)
	}
	return s * ((s + 1) / 2)
}

// EncodePair maps (a, b) with a < b to triangle(a+b) + a.
func EncodePair(a, b ID) (PairID, error) {
	if a > MaxID || b > MaxID {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrIDOutOfRange, a, b)
	}
	if a >= b {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrUnorderedPair, a, b)
	}
	return PairID(triangle(uint64(a)+uint64(b)) + uint64(a)), nil
}

// OrderedPair encodes two distinct ids regardless of their order.
func OrderedPair(x, y ID) (PairID, error) {
	if x > y {
		x, y = y, x
	}
	return EncodePair(x, y)
}

// DecodePair inverts EncodePair.
func DecodePair(p PairID) (ID, ID, error) {
	if p > MaxPairID {
		return 0, 0, fmt.Errorf("%w: %d", ErrPairOutOfRange, p)
	}
	v := uint64(p)

	// The float estimate can be off by one near 2^53 and above; the integer
	// loops below settle it.
	n := uint64((math.Sqrt(8*float64(v)+1) - 1) / 2)
	for n > 0 && triangle(n) > v {
		n--
	}
	for triangle(n+1) <= v {
		n++
	}

	a := v - triangle(n)
	b := n - a
	if a >= b || b > uint64(MaxID) {
		return 0, 0, fmt.Errorf("%w: %d", ErrPairOutOfRange, p)
	}
	return ID(a), ID(b), nil
}

// String returns the decimal representation of the pair id.
func (p PairID) String() string {
	return fmt.Sprintf("%d", uint64(p))
}

func mustEncode(a, b ID) PairID {
	p, err := EncodePair(a, b)
	if err != nil {
		panic(err)
	}
	return p
}
