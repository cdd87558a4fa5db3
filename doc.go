// Package solvmatch finds the solvent pairs whose blends best approximate a set
// of target compounds in three-dimensional solubility space.
//
// Every compound is compared against every unordered pair of solvents. The
// achievable blends of a pair form a segment between the 90/10 and 10/90
// mixtures; the distance of a compound to that segment scores the pair. Each
// compound keeps its n nearest pairs, the pairs are then ranked by how many
// compounds kept them, and the top m pairs are resolved back into a mixing ratio.
//
// # Quick Start
//
//	m, err := solvmatch.New(
//	    solvmatch.WithNearest(10),
//	    solvmatch.WithMaxResults(10),
//	)
//	if err != nil {
//	    return err
//	}
//
//	report, err := m.Match(ctx, compounds, solvents)
//	for _, row := range report.Rows {
//	    fmt.Println(row.Compound, row.SolventA, row.RatioA, row.SolventB, row.RatioB)
//	}
//
// # Pair Identifiers
//
// Pairs are keyed by a single uint64 computed with the Cantor pairing function
// over the ordered solvent ids (see package core). Ids are capped at
// core.MaxID so the encoding never overflows.
//
// # Concurrency
//
// Compounds are searched in parallel on a bounded worker pool (WithWorkers).
// Solvents are shared read-only; each task owns its candidate buffer. Ranking
// is a sequential fold after all tasks have finished. The first task error
// cancels the remaining tasks and fails the batch.
//
// # Distance Weighting
//
// Distances are unweighted Euclidean by default. WithDispersionWeight(4)
// reproduces the Hansen convention Ra² = 4Δd² + Δp² + Δh².
//
// # Ratio Failures
//
// A ranked pair whose ratio cannot be resolved drops only its own row and is
// reported in Report.Failures. Use WithRatioFailurePolicy(RatioAbort) to fail
// the batch instead.
package solvmatch
