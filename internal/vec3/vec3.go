// Package vec3 provides the fixed-size float64 vector operations behind the
// distance kernels. This is an internal package - external users should use
// the distance package.
package vec3

import "math"

// Sub returns a - b.
func Sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Dot calculates the dot product of two vectors.
func Dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross calculates the cross product a × b.
func Cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Norm returns the Euclidean length of v.
func Norm(v [3]float64) float64 {
	return math.Sqrt(Dot(v, v))
}

// Lerp returns t*a + (1-t)*b per component.
func Lerp(a, b [3]float64, t float64) [3]float64 {
	u := 1 - t
	return [3]float64{
		t*a[0] + u*b[0],
		t*a[1] + u*b[1],
		t*a[2] + u*b[2],
	}
}

// ScaleFirst multiplies the first component by f.
func ScaleFirst(v [3]float64, f float64) [3]float64 {
	v[0] *= f
	return v
}

// Finite reports whether every component is neither NaN nor infinite.
func Finite(v [3]float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
