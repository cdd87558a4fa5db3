// Package distance provides distance calculations in solubility-parameter space.
//
// # Kernels
//
//   - Point: Euclidean distance between two parameter vectors
//   - Segment: distance from a point to a closed segment (the range of
//     achievable blends of a solvent pair)
//
// # Weighted Space
//
// Hansen's convention weights the dispersion term by 4. A Space carries that
// weight so the same kernels serve both conventions:
//
//	space, _ := distance.NewSpace(distance.HansenDispersionWeight)
//	d := space.Segment(compound.Params, start, end)
//
// The zero Space (and Euclidean) is unweighted.
package distance
