package present

import "github.com/matzehuels/skillgraph/pkg/geometry"

// BadgeOffset is the distance beyond the radius at which edge badges sit.
const BadgeOffset = 36.0

// Badge marks a top-level node.
type Badge struct {
	Text     string         `json:"text"`
	Position geometry.Point `json:"position"`
	// Outside is set when the badge sits beyond the circle, at Angle.
	Outside bool    `json:"outside"`
	Angle   float64 `json:"angle,omitempty"`
}

// PlaceBadge positions a badge for a top-level node occupying poly inside a
// circle of the given radius.
func PlaceBadge(text string, poly geometry.Polygon, radius float64) Badge {
	b := Badge{Text: text, Position: poly.Centroid()}
	if !poly.TouchesBoundary(radius, geometry.BoundaryMargin) {
		return b
	}
	angle, ok := poly.WidestGapMidpoint(radius, geometry.EdgeThreshold)
	if !ok {
		return b
	}
	b.Outside = true
	b.Angle = angle
	b.Position = geometry.Polar(radius+BadgeOffset, angle)
	return b
}
