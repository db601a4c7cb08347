package geometry

import (
	"math"
	"sort"
)

// DefaultCircleSteps is the vertex count used to approximate the outer circle.
const DefaultCircleSteps = 80

// BoundaryMargin is the fraction of the radius beyond which a vertex counts
// as lying on the outer circle.
const BoundaryMargin = 0.94

// EdgeThreshold is the default, looser cutoff used when collecting edge
// vertices for [WidestGapMidpoint].
const EdgeThreshold = 0.9

// Polygon is an ordered list of vertices. The closing edge from the last
// vertex back to the first is implicit.
type Polygon []Point

// Circle approximates a circle of the given radius centered on the origin.
// steps below 3 fall back to [DefaultCircleSteps].
func Circle(radius float64, steps int) Polygon {
	if steps < 3 {
		steps = DefaultCircleSteps
	}
	poly := make(Polygon, steps)
	for i := range steps {
		poly[i] = Polar(radius, 2*math.Pi*float64(i)/float64(steps))
	}
	return poly
}

// SignedArea returns the shoelace area; positive for counter-clockwise
// vertex order.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	sum := 0.0
	for i, a := range p {
		b := p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Area returns the absolute polygon area.
func (p Polygon) Area() float64 { return math.Abs(p.SignedArea()) }

// Centroid returns the area centroid. Degenerate polygons fall back to the
// vertex mean; an empty polygon yields the origin.
func (p Polygon) Centroid() Point {
	if len(p) == 0 {
		return Point{}
	}
	a := p.SignedArea()
	if math.Abs(a) < 1e-12 {
		return p.vertexMean()
	}
	var cx, cy float64
	for i, v := range p {
		w := p[(i+1)%len(p)]
		cross := v.X*w.Y - w.X*v.Y
		cx += (v.X + w.X) * cross
		cy += (v.Y + w.Y) * cross
	}
	return Point{cx / (6 * a), cy / (6 * a)}
}

func (p Polygon) vertexMean() Point {
	var sum Point
	for _, v := range p {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(p)))
}

// Contains reports whether q lies inside p using the even-odd rule.
func (p Polygon) Contains(q Point) bool {
	in := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > q.Y) != (b.Y > q.Y) &&
			q.X < (b.X-a.X)*(q.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// Bounds returns the axis-aligned bounding box as (min, max).
func (p Polygon) Bounds() (Point, Point) {
	if len(p) == 0 {
		return Point{}, Point{}
	}
	lo, hi := p[0], p[0]
	for _, v := range p[1:] {
		lo.X, lo.Y = min(lo.X, v.X), min(lo.Y, v.Y)
		hi.X, hi.Y = max(hi.X, v.X), max(hi.Y, v.Y)
	}
	return lo, hi
}

// IsFinite reports whether every vertex is finite.
func (p Polygon) IsFinite() bool {
	for _, v := range p {
		if !v.IsFinite() {
			return false
		}
	}
	return true
}

// Clone returns a copy of p.
func (p Polygon) Clone() Polygon {
	return append(Polygon(nil), p...)
}

// ClipHalfPlane keeps the part of p satisfying n·x <= c
// (Sutherland-Hodgman against a single edge). The result may be empty.
func (p Polygon) ClipHalfPlane(n Point, c float64) Polygon {
	if len(p) == 0 {
		return nil
	}
	out := make(Polygon, 0, len(p)+1)
	prev := p[len(p)-1]
	prevIn := n.Dot(prev) <= c
	for _, cur := range p {
		curIn := n.Dot(cur) <= c
		if curIn != prevIn {
			out = append(out, intersect(prev, cur, n, c))
		}
		if curIn {
			out = append(out, cur)
		}
		prev, prevIn = cur, curIn
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

func intersect(a, b, n Point, c float64) Point {
	da, db := n.Dot(a)-c, n.Dot(b)-c
	t := da / (da - db)
	return a.Add(b.Sub(a).Scale(t))
}

// TouchesBoundary reports whether any vertex of p lies at or beyond
// margin*radius from the origin. A margin of 0 uses [BoundaryMargin].
func (p Polygon) TouchesBoundary(radius, margin float64) bool {
	if margin <= 0 {
		margin = BoundaryMargin
	}
	cutoff := radius * margin
	for _, v := range p {
		if v.Len() >= cutoff {
			return true
		}
	}
	return false
}

// WidestGapMidpoint looks at the vertices of p that lie near the outer
// circle, finds the largest angular gap between consecutive such vertices
// (wrapping around the circle) and returns the angle, in [0, 2pi), that
// bisects the complementary arc. For a cell on the rim this is the middle of
// the stretch of circle the cell occupies. ok is false when no vertex is near
// the circle. A vertex is near the circle beyond edgeThreshold*radius; an
// edgeThreshold of 0 uses [EdgeThreshold].
func (p Polygon) WidestGapMidpoint(radius, edgeThreshold float64) (angle float64, ok bool) {
	if edgeThreshold <= 0 {
		edgeThreshold = EdgeThreshold
	}
	cutoff := radius * edgeThreshold
	var angles []float64
	for _, v := range p {
		if v.Len() >= cutoff {
			angles = append(angles, v.Angle())
		}
	}
	if len(angles) == 0 {
		return 0, false
	}
	sort.Float64s(angles)

	// Gap from the last angle wrapping to the first.
	start, end := angles[len(angles)-1], angles[0]+2*math.Pi
	widest := end - start
	for i := 1; i < len(angles); i++ {
		if gap := angles[i] - angles[i-1]; gap > widest {
			widest, start, end = gap, angles[i-1], angles[i]
		}
	}
	// Occupied arc runs from end to start+2pi.
	return NormalizeAngle((start + end + 2*math.Pi) / 2), true
}
