package tessellate

import (
	"math"

	"github.com/matzehuels/skillgraph/pkg/geometry"
)

const (
	// edgeTolerance decides, relative to the clip diameter, whether a cell
	// edge lies on the bisector of a site pair.
	edgeTolerance = 1e-9
	maxHalvings   = 30
)

// powerSolver fits power weights to target areas for fixed sites.
//
// Cell areas as a function of the weights have a Jacobian that is a graph
// Laplacian over adjacent cells: moving weight i by δ shifts the shared edge
// with j by δ/(2|pi-pj|). The solver takes damped Newton steps on that
// system, halving the step until every cell stays non-empty and the total
// error shrinks.
type powerSolver struct {
	poly    geometry.Polygon
	sites   []geometry.Point
	targets []float64
	eps     float64
}

// solve runs at most steps Newton steps from weights and stops once the total
// area error is below tol. It returns the final weights, their cells and error.
func (s *powerSolver) solve(weights []float64, steps int, tol float64) ([]float64, []geometry.Polygon, float64) {
	weights = append([]float64(nil), weights...)
	cells := computeCells(s.poly, s.sites, weights)
	e := areaError(cells, s.targets)
	floorTarget := math.Inf(1)
	for _, t := range s.targets {
		floorTarget = min(floorTarget, t)
	}

	for range steps {
		if e < tol {
			break
		}
		smallest := minArea(cells)
		if smallest <= 0 {
			break
		}
		step, ok := s.newtonStep(cells, weights)
		if !ok {
			break
		}

		floor := min(smallest, floorTarget) / 2
		accepted := false
		next := make([]float64, len(weights))
		tau := 1.0
		for range maxHalvings {
			for i := range next {
				next[i] = weights[i] + tau*step[i]
			}
			nc := computeCells(s.poly, s.sites, next)
			ne := areaError(nc, s.targets)
			if minArea(nc) >= floor && ne <= (1-tau/2)*e {
				weights, cells, e = next, nc, ne
				accepted = true
				break
			}
			tau /= 2
		}
		if !accepted {
			break
		}
	}
	return weights, cells, e
}

// newtonStep solves J·δ = targets - areas with the last weight held fixed.
func (s *powerSolver) newtonStep(cells []geometry.Polygon, weights []float64) ([]float64, bool) {
	n := len(s.sites)
	shared := s.sharedEdges(cells, weights)

	jac := make([][]float64, n-1)
	rhs := make([]float64, n-1)
	for i := range n - 1 {
		jac[i] = make([]float64, n-1)
		rhs[i] = s.targets[i] - cells[i].Area()
	}
	for i := range n - 1 {
		for j := range n {
			if i == j || shared[i][j] == 0 {
				continue
			}
			d := s.sites[i].Dist(s.sites[j])
			if d == 0 {
				continue
			}
			h := shared[i][j] / (2 * d)
			jac[i][i] += h
			if j < n-1 {
				jac[i][j] -= h
			}
		}
	}

	delta, ok := gaussSolve(jac, rhs)
	if !ok {
		return nil, false
	}
	return append(delta, 0), true
}

// sharedEdges returns the length of the boundary between every pair of cells.
func (s *powerSolver) sharedEdges(cells []geometry.Polygon, weights []float64) [][]float64 {
	n := len(s.sites)
	shared := make([][]float64, n)
	for i := range shared {
		shared[i] = make([]float64, n)
	}
	for i, cell := range cells {
		for k, a := range cell {
			b := cell[(k+1)%len(cell)]
			length := a.Dist(b)
			if length == 0 {
				continue
			}
			for j := range s.sites {
				if j == i {
					continue
				}
				normal, bound := bisector(s.sites, weights, i, j)
				tol := s.eps * normal.Len()
				if tol == 0 {
					continue
				}
				if math.Abs(normal.Dot(a)-bound) <= tol && math.Abs(normal.Dot(b)-bound) <= tol {
					shared[i][j] += length
					break
				}
			}
		}
	}
	return shared
}

// gaussSolve solves a·x = b by elimination with partial pivoting. a and b are
// overwritten.
func gaussSolve(a [][]float64, b []float64) ([]float64, bool) {
	n := len(b)
	for col := range n {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-300 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]
		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[r][k] -= f * a[col][k]
			}
			b[r] -= f * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for k := r + 1; k < n; k++ {
			sum -= a[r][k] * x[k]
		}
		x[r] = sum / a[r][r]
	}
	return x, true
}
