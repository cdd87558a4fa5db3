// Package distance provides public API for solubility-space distance calculations.
package distance

import (
	"fmt"
	"math"

	"github.com/hupe1980/solvmatch/internal/vec3"
	"github.com/hupe1980/solvmatch/model"
)

// HansenDispersionWeight is the conventional weight of the dispersion term in
// the Hansen solubility distance Ra² = 4Δd² + Δp² + Δh².
const HansenDispersionWeight = 4

// Point calculates the unweighted Euclidean distance between two parameter vectors.
func Point(p, q model.Params) float64 {
	return vec3.Norm(vec3.Sub(p, q))
}

// Segment calculates the shortest distance from point to the closed segment [start, end].
// A zero-length segment degrades to Point(point, start).
func Segment(point, start, end model.Params) float64 {
	dir := vec3.Sub(end, start)
	length2 := vec3.Dot(dir, dir)
	if length2 == 0 {
		return Point(point, start)
	}

	t := vec3.Dot(vec3.Sub(point, start), dir)
	if t >= length2 {
		return Point(point, end)
	}
	if t <= 0 {
		return Point(point, start)
	}

	return vec3.Norm(vec3.Cross(dir, vec3.Sub(start, point))) / math.Sqrt(length2)
}

// Space is a parameter space whose first (dispersion) dimension may be weighted.
// The zero value is the unweighted space.
type Space struct {
	weight float64
	scale  float64
}

// Euclidean is the unweighted space.
var Euclidean = Space{weight: 1, scale: 1}

// NewSpace returns a space whose squared dispersion difference is multiplied by weight.
func NewSpace(dispersionWeight float64) (Space, error) {
	if !(dispersionWeight > 0) || math.IsInf(dispersionWeight, 0) {
		return Space{}, fmt.Errorf("invalid dispersion weight: %v", dispersionWeight)
	}
	return Space{weight: dispersionWeight, scale: math.Sqrt(dispersionWeight)}, nil
}

// DispersionWeight returns the configured weight.
func (s Space) DispersionWeight() float64 {
	if s.weight == 0 {
		return 1
	}
	return s.weight
}

func (s Space) unweighted() bool {
	return s.scale == 0 || s.scale == 1
}

// Point calculates the weighted distance between p and q.
func (s Space) Point(p, q model.Params) float64 {
	if s.unweighted() {
		return Point(p, q)
	}
	return Point(vec3.ScaleFirst(p, s.scale), vec3.ScaleFirst(q, s.scale))
}

// Segment calculates the weighted distance from point to [start, end].
// Scaling one axis is linear, so the nearest point of the scaled segment is
// the image of the nearest point under the weighted metric.
func (s Space) Segment(point, start, end model.Params) float64 {
	if s.unweighted() {
		return Segment(point, start, end)
	}
	return Segment(
		vec3.ScaleFirst(point, s.scale),
		vec3.ScaleFirst(start, s.scale),
		vec3.ScaleFirst(end, s.scale),
	)
}

// String returns a string representation of the Space.
func (s Space) String() string {
	if s.unweighted() {
		return "Euclidean"
	}
	return fmt.Sprintf("Weighted(dispersion=%g)", s.weight)
}
