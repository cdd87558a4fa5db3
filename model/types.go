package model

import (
	"fmt"

	"github.com/hupe1980/solvmatch/core"
)

// Dimensions is the number of solubility coordinates.
const Dimensions = 3

// Params holds the dispersion, polar and hydrogen-bonding coordinates (d_d, d_p, d_h).
type Params [Dimensions]float64

// String returns a string representation of the Params.
func (p Params) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p[0], p[1], p[2])
}

// Solvent is a single solvent record.
type Solvent struct {
	ID     core.ID
	Name   string
	Params Params
}

// Compound is a target substance ("drug") the search tries to match.
type Compound struct {
	ID     core.ID
	Name   string
	Params Params
}

// Blend is a mixture of two solvents. RatioA + RatioB == 1.
type Blend struct {
	A      core.ID
	B      core.ID
	RatioA float64
	RatioB float64
	Params Params
}

// Ratio is a resolved mixing ratio, both parts in [0, 1].
type Ratio struct {
	A float64
	B float64
}

// Candidate is a solvent pair scored against one compound.
type Candidate struct {
	Pair     core.PairID
	Compound core.ID
	Distance float64
}

// String returns a string representation of the Candidate.
func (c Candidate) String() string {
	return fmt.Sprintf("Candidate(pair=%d compound=%d distance=%g)", c.Pair, c.Compound, c.Distance)
}

// ResultRow is one line of the final report. Ratios are percentages.
type ResultRow struct {
	Compound string      `json:"compound"`
	Pair     core.PairID `json:"pair_id"`
	SolventA string      `json:"solvent_a"`
	RatioA   float64     `json:"solvent_a_ratio"`
	SolventB string      `json:"solvent_b"`
	RatioB   float64     `json:"solvent_b_ratio"`
	Distance float64     `json:"distance"`
}

// PairCount is the number of compounds that kept a pair among their nearest.
type PairCount struct {
	Pair        core.PairID `json:"pair_id"`
	Count       int         `json:"occurrence_count"`
	MinDistance float64     `json:"min_distance"`
}
