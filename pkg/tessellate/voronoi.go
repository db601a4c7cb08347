package tessellate

import (
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/geometry"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
)

const (
	sitePlacementMax = 200

	// rimRadius is where the outermost level starts its sites, as a fraction
	// of the way from the clip centroid to its boundary.
	rimRadius = 0.7

	// Centroid moves before the final weight solve. The outermost level
	// relaxes once so its cells keep their hold on the rim.
	relaxRounds    = 3
	rimRelaxRounds = 1
	relaxSteps     = 8
)

// Voronoi is a power-diagram treemap. The zero value is ready to use.
type Voronoi struct{}

// NewVoronoi returns a Voronoi tessellator.
func NewVoronoi() *Voronoi { return &Voronoi{} }

// Tessellate implements [Tessellator].
func (v *Voronoi) Tessellate(clip geometry.Polygon, root *hierarchy.Node, weight WeightFunc, opts Options) (Cells, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidHierarchy, "nothing to tessellate")
	}
	if len(clip) < 3 || clip.Area() == 0 || !clip.IsFinite() {
		return nil, errors.New(errors.ErrCodeTessellationFailed, "clip polygon is degenerate")
	}
	opts.SetDefaults()

	cells := Cells{root: clip.Clone()}
	sums := Sums(root, weight)
	if err := v.subdivide(root, clip, sums, opts, cells, true); err != nil {
		return nil, err
	}
	return cells, nil
}

func (v *Voronoi) subdivide(node *hierarchy.Node, poly geometry.Polygon, sums map[*hierarchy.Node]float64, opts Options, cells Cells, rim bool) error {
	if node.IsLeaf() {
		return nil
	}

	values := make([]float64, len(node.Children))
	for i, c := range node.Children {
		values[i] = sums[c]
	}

	var parts []geometry.Polygon
	if len(node.Children) == 1 {
		if values[0] <= 0 {
			return errors.New(errors.ErrCodeTessellationFailed, "children of %q have no positive weight", node.Name)
		}
		parts = []geometry.Polygon{poly.Clone()}
	} else {
		var err error
		parts, err = powerCells(poly, values, opts, nameHash(node.Name), rim)
		if err != nil {
			return errors.Wrap(errors.ErrCodeTessellationFailed, err, "tessellate children of %q", node.Name)
		}
	}

	for i, c := range node.Children {
		if len(parts[i]) < 3 {
			continue
		}
		cells[c] = parts[i]
		if err := v.subdivide(c, parts[i], sums, opts, cells, false); err != nil {
			return err
		}
	}
	return nil
}

func nameHash(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

// powerCells partitions poly into one cell per value. Sites start at random
// points, or evenly spaced on an inner ring when rim is set, and relax
// towards their cell centroids between weight solves. The cells with the
// lowest total area error are returned.
func powerCells(poly geometry.Polygon, values []float64, opts Options, nameSeed uint64, rim bool) ([]geometry.Polygon, error) {
	n := len(values)
	total, maxValue := 0.0, 0.0
	for _, v := range values {
		total += v
		maxValue = max(maxValue, v)
	}
	if total <= 0 {
		return nil, errors.New(errors.ErrCodeTessellationFailed, "sibling weights sum to %v", total)
	}

	adjusted := make([]float64, n)
	adjustedTotal := 0.0
	for i, v := range values {
		adjusted[i] = max(v, maxValue*opts.MinWeightRatio)
		adjustedTotal += adjusted[i]
	}

	area := poly.Area()
	targets := make([]float64, n)
	for i := range targets {
		targets[i] = area * adjusted[i] / adjustedTotal
	}

	rng := rand.New(rand.NewPCG(uint64(opts.Seed), nameSeed))
	rounds := relaxRounds
	var sites []geometry.Point
	if rim {
		sites = ringSites(poly, n, rng)
		rounds = rimRelaxRounds
	}
	if sites == nil {
		sites = placeSites(poly, n, rng)
	}

	lo, hi := poly.Bounds()
	s := &powerSolver{
		poly:    poly,
		sites:   sites,
		targets: targets,
		eps:     edgeTolerance * hi.Sub(lo).Len(),
	}
	tol := opts.ConvergenceRatio * area / 2

	weights := make([]float64, n)
	var best []geometry.Polygon
	bestErr := math.Inf(1)
	keep := func(cells []geometry.Polygon, e float64) {
		if e < bestErr {
			best, bestErr = cells, e
		}
	}

	for range rounds {
		var cells []geometry.Polygon
		var e float64
		weights, cells, e = s.solve(weights, relaxSteps, tol)
		keep(cells, e)
		for i, c := range cells {
			if len(c) >= 3 {
				s.sites[i] = c.Centroid()
			}
		}
		if minArea(computeCells(poly, s.sites, weights)) <= 0 {
			clear(weights)
		}
	}
	_, cells, e := s.solve(weights, opts.MaxIterationCount, tol)
	keep(cells, e)
	if best == nil {
		return nil, errors.New(errors.ErrCodeTessellationFailed, "no finite area error for %d sites", n)
	}

	for _, c := range best {
		if !c.IsFinite() {
			return nil, errors.New(errors.ErrCodeTessellationFailed, "non-finite cell geometry")
		}
	}
	return best, nil
}

// computeCells clips poly by the power bisector of every site pair:
// x is in cell i when 2x·(pj-pi) <= |pj|²-|pi|² - wj + wi for all j.
func computeCells(poly geometry.Polygon, sites []geometry.Point, weights []float64) []geometry.Polygon {
	cells := make([]geometry.Polygon, len(sites))
	for i := range sites {
		cell := poly
		for j := range sites {
			if i == j {
				continue
			}
			normal, bound := bisector(sites, weights, i, j)
			cell = cell.ClipHalfPlane(normal, bound)
			if cell == nil {
				break
			}
		}
		if cell != nil {
			cell = cell.Clone()
		}
		cells[i] = cell
	}
	return cells
}

func bisector(sites []geometry.Point, weights []float64, i, j int) (geometry.Point, float64) {
	pi, pj := sites[i], sites[j]
	return pj.Sub(pi).Scale(2), pj.Dot(pj) - pi.Dot(pi) - weights[j] + weights[i]
}

func areaError(cells []geometry.Polygon, targets []float64) float64 {
	sum := 0.0
	for i, c := range cells {
		sum += math.Abs(c.Area() - targets[i])
	}
	return sum
}

func minArea(cells []geometry.Polygon) float64 {
	m := math.Inf(1)
	for _, c := range cells {
		m = min(m, c.Area())
	}
	return m
}

// ringSites spaces n sites evenly on a ring inside poly, starting at a random
// angle. It returns nil when a ray from the centroid misses the boundary.
func ringSites(poly geometry.Polygon, n int, rng *rand.Rand) []geometry.Point {
	center := poly.Centroid()
	offset := 2 * math.Pi * rng.Float64()
	sites := make([]geometry.Point, n)
	for i := range sites {
		dir := geometry.Polar(1, offset+2*math.Pi*float64(i)/float64(n))
		reach, ok := rayExit(poly, center, dir)
		if !ok {
			return nil
		}
		sites[i] = center.Add(dir.Scale(rimRadius * reach))
	}
	return sites
}

// rayExit returns the distance from origin along the unit vector dir to the
// nearest edge of poly.
func rayExit(poly geometry.Polygon, origin, dir geometry.Point) (float64, bool) {
	best, found := math.Inf(1), false
	for i, a := range poly {
		e := poly[(i+1)%len(poly)].Sub(a)
		den := dir.X*e.Y - dir.Y*e.X
		if den == 0 {
			continue
		}
		w := a.Sub(origin)
		t := (w.X*e.Y - w.Y*e.X) / den
		u := (w.X*dir.Y - w.Y*dir.X) / den
		if t > 0 && u >= 0 && u <= 1 && t < best {
			best, found = t, true
		}
	}
	return best, found
}

// placeSites samples n distinct points inside poly.
func placeSites(poly geometry.Polygon, n int, rng *rand.Rand) []geometry.Point {
	lo, hi := poly.Bounds()
	center := poly.Centroid()
	sites := make([]geometry.Point, 0, n)
	for len(sites) < n {
		p, ok := sampleInside(poly, lo, hi, rng)
		if !ok {
			// Thin polygon: scatter around the centroid instead.
			span := hi.Sub(lo).Len() * 0.01
			p = center.Add(geometry.Polar(span*rng.Float64(), 2*math.Pi*rng.Float64()))
		}
		sites = append(sites, p)
	}
	return sites
}

func sampleInside(poly geometry.Polygon, lo, hi geometry.Point, rng *rand.Rand) (geometry.Point, bool) {
	for range sitePlacementMax {
		p := geometry.Point{
			X: lo.X + rng.Float64()*(hi.X-lo.X),
			Y: lo.Y + rng.Float64()*(hi.Y-lo.Y),
		}
		if poly.Contains(p) {
			return p, true
		}
	}
	return geometry.Point{}, false
}
