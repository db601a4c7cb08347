// Package tessellate subdivides a polygon into nested cells whose areas are
// proportional to hierarchy weights.
//
// # Overview
//
// A [Tessellator] receives a clip polygon, a hierarchy root and a
// [WeightFunc] over leaves. It returns a [Cells] side table mapping each
// node to its polygon; nodes are never modified. Inner node weights are the
// sum of their leaves.
//
// # Voronoi Treemap
//
// [Voronoi] is a weighted Voronoi (power diagram) treemap. For each sibling
// set it seeds one site per child inside the parent polygon, then:
//
//  1. Computes power cells by clipping the parent with the bisector
//     half-plane of every other site.
//  2. Fits the site weights to the target areas with damped Newton steps.
//     Each step keeps every cell non-empty and lowers the total error.
//  3. Moves each site to its cell centroid and fits again, a few times.
//
// Fitting stops when the total area error drops below
// [Options.ConvergenceRatio] of the parent area, or after
// [Options.MaxIterationCount] steps. The cells with the lowest error are then
// used as clip polygons for the children's own sibling sets.
//
// The root's children start on a ring inside the clip polygon and relax only
// once, so each of them keeps a stretch of the outer boundary.
//
// Site seeding is deterministic for a given [Options.Seed] and parent name.
package tessellate
