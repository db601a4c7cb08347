package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func square(side float64) Polygon {
	return Polygon{{0, 0}, {side, 0}, {side, side}, {0, side}}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		want float64
	}{
		{"unit square", square(1), 1},
		{"square side 2", square(2), 4},
		{"clockwise square", Polygon{{0, 0}, {0, 2}, {2, 2}, {2, 0}}, 4},
		{"triangle", Polygon{{0, 0}, {4, 0}, {0, 3}}, 6},
		{"degenerate line", Polygon{{0, 0}, {1, 1}}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.Area(); math.Abs(got-tt.want) > eps {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignedAreaOrientation(t *testing.T) {
	ccw := square(1)
	if ccw.SignedArea() <= 0 {
		t.Errorf("counter-clockwise SignedArea() = %v, want > 0", ccw.SignedArea())
	}
	cw := Polygon{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	if cw.SignedArea() >= 0 {
		t.Errorf("clockwise SignedArea() = %v, want < 0", cw.SignedArea())
	}
}

func TestCentroid(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		want Point
	}{
		{"square", square(2), Point{1, 1}},
		{"triangle", Polygon{{0, 0}, {3, 0}, {0, 3}}, Point{1, 1}},
		{"collinear falls back to mean", Polygon{{0, 0}, {1, 0}, {2, 0}}, Point{1, 0}},
		{"empty", nil, Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.poly.Centroid()
			if got.Dist(tt.want) > eps {
				t.Errorf("Centroid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCircle(t *testing.T) {
	c := Circle(100, DefaultCircleSteps)
	if len(c) != 80 {
		t.Fatalf("len = %d, want 80", len(c))
	}
	for i, v := range c {
		if math.Abs(v.Len()-100) > 1e-6 {
			t.Fatalf("vertex %d at distance %v, want 100", i, v.Len())
		}
	}
	ideal := math.Pi * 100 * 100
	if got := c.Area(); math.Abs(got-ideal)/ideal > 0.002 {
		t.Errorf("Area() = %v, want within 0.2%% of %v", got, ideal)
	}
	if got := c.Centroid(); got.Len() > 1e-6 {
		t.Errorf("Centroid() = %v, want origin", got)
	}
	if got := len(Circle(10, 0)); got != DefaultCircleSteps {
		t.Errorf("Circle(10, 0) has %d vertices, want default", got)
	}
}

func TestClipHalfPlane(t *testing.T) {
	sq := square(2)

	tests := []struct {
		name     string
		n        Point
		c        float64
		wantArea float64
	}{
		{"keep left half", Point{1, 0}, 1, 2},
		{"keep all", Point{1, 0}, 5, 4},
		{"keep nothing", Point{1, 0}, -1, 0},
		{"diagonal", Point{1, 1}, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sq.ClipHalfPlane(tt.n, tt.c)
			if math.Abs(got.Area()-tt.wantArea) > eps {
				t.Errorf("clipped area = %v, want %v", got.Area(), tt.wantArea)
			}
			for _, v := range got {
				if tt.n.Dot(v) > tt.c+eps {
					t.Errorf("vertex %v violates half-plane", v)
				}
			}
		})
	}
}

func TestContainsAndBounds(t *testing.T) {
	sq := square(2)
	if !sq.Contains(Point{1, 1}) {
		t.Error("center should be inside")
	}
	if sq.Contains(Point{3, 1}) {
		t.Error("outside point reported inside")
	}
	lo, hi := sq.Bounds()
	if lo != (Point{0, 0}) || hi != (Point{2, 2}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
}

func TestTouchesBoundary(t *testing.T) {
	tests := []struct {
		name   string
		poly   Polygon
		margin float64
		want   bool
	}{
		{"vertex beyond margin", Polygon{{0, 0}, {95, 0}, {0, 10}}, 0.94, true},
		{"vertex just past margin", Polygon{{0, 0}, {94.5, 0}, {0, 10}}, 0.94, true},
		{"all vertices inside", Polygon{{0, 0}, {93, 0}, {0, 10}}, 0.94, false},
		{"zero margin uses default", Polygon{{0, 0}, {93, 0}, {0, 10}}, 0, false},
		{"looser margin", Polygon{{0, 0}, {93, 0}, {0, 10}}, 0.9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.TouchesBoundary(100, tt.margin); got != tt.want {
				t.Errorf("TouchesBoundary() = %v, want %v", got, tt.want)
			}
		})
	}
}

func wedge(r float64, angles ...float64) Polygon {
	poly := Polygon{{0, 0}}
	for _, a := range angles {
		poly = append(poly, Polar(r, a))
	}
	return poly
}

func TestWidestGapMidpoint(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		want float64
	}{
		{"first quadrant", wedge(100, 0, math.Pi/4, math.Pi/2), math.Pi / 4},
		{"across negative axis", wedge(100, 3*math.Pi/4, math.Pi, -3*math.Pi/4), math.Pi},
		{"single edge vertex", wedge(100, math.Pi/3), math.Pi / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.poly.WidestGapMidpoint(100, 0)
			if !ok {
				t.Fatal("ok = false, want true")
			}
			if d := math.Abs(got - tt.want); d > 1e-9 && math.Abs(d-2*math.Pi) > 1e-9 {
				t.Errorf("WidestGapMidpoint() = %v, want %v", got, tt.want)
			}
			if got < 0 || got >= 2*math.Pi {
				t.Errorf("angle %v not normalized", got)
			}
		})
	}

	if _, ok := square(10).WidestGapMidpoint(100, EdgeThreshold); ok {
		t.Error("interior polygon should report no edge vertices")
	}
}

func TestWidestGapMidpointThreshold(t *testing.T) {
	// One vertex on the circle at 0, one at 0.92 of the radius at pi/2.
	poly := Polygon{{0, 0}, {100, 0}, {0, 92}}
	tests := []struct {
		threshold float64
		want      float64
	}{
		{0, math.Pi / 4},
		{EdgeThreshold, math.Pi / 4},
		{BoundaryMargin, 0},
	}
	for _, tt := range tests {
		got, ok := poly.WidestGapMidpoint(100, tt.threshold)
		if !ok {
			t.Fatalf("threshold %v: ok = false", tt.threshold)
		}
		if d := math.Abs(got - tt.want); d > 1e-9 && math.Abs(d-2*math.Pi) > 1e-9 {
			t.Errorf("threshold %v: WidestGapMidpoint() = %v, want %v", tt.threshold, got, tt.want)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
