// Package blend models binary solvent mixtures.
//
// Mix interpolates two solvents' parameters at a ratio, Range returns the
// achievable continuum (ratios 0.9/0.1 to 0.1/0.9) used by the search, and
// Solver turns a distance found by the search back into a mixing ratio:
//
//	solver, _ := blend.NewSolver()
//	ratio, err := solver.Solve(a, b, compound, d)
//	if errors.Is(err, blend.ErrRatioNotFound) {
//	    // the distance is not reachable on the grid
//	}
package blend
