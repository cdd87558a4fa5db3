// Package model defines the records exchanged between the solvmatch packages.
//
// # Inputs
//
//   - Solvent: a named solvent with Hansen-style solubility parameters
//   - Compound: a target substance with the same three coordinates
//
// # Search Values
//
//   - Blend: a solvent mixture at a given ratio (ephemeral)
//   - Candidate: a solvent pair and its distance to one compound
//
// # Outputs
//
//   - ResultRow: a resolved recommendation (pair, ratio, distance)
//   - PairCount: how many compounds selected a pair among their nearest
//
// Inputs are immutable once loaded and are shared read-only between workers.
package model
