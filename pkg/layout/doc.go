// Package layout computes the circular proportional-area layout of a
// hierarchy view.
//
// # Overview
//
// [Solver.Solve] clips a circle of the requested radius into nested cells
// using a [tessellate.Tessellator]. Cell areas follow the effective weight of
// each leaf: its natural weight times the boost of its top-level ancestor.
//
// # Boost and Retry
//
// A power-diagram tessellation can enclose a small top-level category
// entirely inside its neighbors, leaving it with no edge on the outer circle
// and no room for a badge. The solver detects such isolated categories after
// each attempt, multiplies their boost by [Options.BoostFactor] and tries
// again with a fresh seed, up to [Options.MaxAttempts] times.
//
// A focus category can additionally be pinned to a minimum share of the
// total effective weight, regardless of its natural weight.
//
// # Failure Handling
//
// Tessellation errors count as failed attempts and are never returned. When
// attempts run out with isolated categories left, the last successful
// tessellation is returned with [Result.Degraded] set.
package layout
