// Package testutil provides testing utilities for solvmatch.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random solvents and compounds and
// an exhaustive reference search to check the bounded one against.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	solvents := rng.Solvents(50)
//	compounds := rng.Compounds(20)
//
// # Exact Search (Ground Truth)
//
//	nearest := testutil.BruteForceNearest(compound, solvents, n, distance.Euclidean)
package testutil
