// Package hierarchy builds and projects the weighted skill hierarchies that
// feed the layout engine.
//
// # Overview
//
// A hierarchy is a tree of [Node] values: a root per [Kind] ("role" and
// "skill"), second-level domain nodes (the category groups) and leaf skills.
// Every non-leaf node carries the sum of its children's weights and the
// weight-weighted average of their frequencies.
//
// [Aggregate] converts raw category index entries and per-entity completion
// records into a [Forest] holding both roots. The function is pure and
// deterministic: identical inputs always produce identical trees, including
// child order.
//
// # Projection
//
// Rendering only ever shows two levels below the current root. [Project]
// builds that projection as a fresh tree so the source data is never mutated:
//
//	world := hierarchy.Project(forest.Role)
//	drill := hierarchy.Project(forest.Role.Child("frontend"))
//
// # Serialization
//
// Forests are read and written as JSON with [ReadForest] and [WriteForest];
// [Validate] checks weight conservation and frequency bounds on any tree,
// including trees loaded from files that have deeper levels.
package hierarchy
