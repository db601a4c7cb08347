// Package present maps a solved layout to what a rendering surface draws:
// fill colors and opacities, leaf labels, and top-level badges.
//
// # Opacity
//
// Leaf opacity scales linearly with frequency across the leaves of the
// current view, from 0.35 at the lowest frequency to 0.95 at the highest.
// A view with a single distinct frequency uses a flat 0.75.
//
// # Labels
//
// Leaves smaller than 900 square units are rejected before any font
// computation; leaves under 1400 get no label at all. Larger leaves get a
// font size of sqrt(area)/7 clamped to [8,14] and a character budget that
// grows with area. Longer names are cut to the budget with an ellipsis.
//
// # Badges
//
// A top-level node enclosed by its siblings carries its badge at its
// centroid. A node that reaches the outer circle carries it outside the
// circle, 36 units beyond the radius, in the middle of the arc it occupies.
package present
