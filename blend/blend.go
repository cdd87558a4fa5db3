package blend

import (
	"github.com/hupe1980/solvmatch/internal/vec3"
	"github.com/hupe1980/solvmatch/model"
)

const (
	// RangeMax is the largest share of one solvent considered achievable.
	RangeMax = 0.9
	// RangeMin is the smallest share of one solvent considered achievable.
	RangeMin = 0.1
)

// Mix blends a and b with ratioA parts of a. ratioA is clamped to [0, 1].
func Mix(a, b model.Solvent, ratioA float64) model.Blend {
	ratioA = clamp(ratioA)
	return model.Blend{
		A:      a.ID,
		B:      b.ID,
		RatioA: ratioA,
		RatioB: 1 - ratioA,
		Params: vec3.Lerp(a.Params, b.Params, ratioA),
	}
}

// Range returns the endpoints of the achievable blend continuum of a and b:
// the blends at 0.9/0.1 and 0.1/0.9.
func Range(a, b model.Solvent) (start, end model.Params) {
	return vec3.Lerp(a.Params, b.Params, RangeMax), vec3.Lerp(a.Params, b.Params, RangeMin)
}

func clamp(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
