// Package geometry provides the planar primitives used by the layout engine.
//
// # Overview
//
// Coordinates are plain float64 pairs in a frame centered on the origin of
// the outer circle. Polygons are ordered vertex lists; orientation does not
// matter for the area and centroid helpers, which use the signed shoelace
// formula and normalize the result.
//
// # Boundary Tests
//
// [TouchesBoundary] and [WidestGapMidpoint] both classify vertices by their
// distance from the origin relative to a reference radius. They are used to
// detect cells that are enclosed by siblings and to find a free direction for
// placing badges outside the circle.
package geometry
