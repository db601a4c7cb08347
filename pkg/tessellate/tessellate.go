package tessellate

import (
	"github.com/matzehuels/skillgraph/pkg/geometry"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
)

// Default tuning values.
const (
	DefaultConvergenceRatio  = 0.01
	DefaultMaxIterationCount = 50
	DefaultMinWeightRatio    = 0.01
	DefaultSeed              = 42
)

// Cells maps each placed node to its polygon. A node missing from the map has
// no polygon for this pass.
type Cells map[*hierarchy.Node]geometry.Polygon

// WeightFunc returns the effective weight of a leaf.
type WeightFunc func(leaf *hierarchy.Node) float64

// NaturalWeight uses the leaf's own weight.
func NaturalWeight(leaf *hierarchy.Node) float64 { return float64(leaf.Weight) }

// Options tunes the numerical solver.
type Options struct {
	// ConvergenceRatio is the accepted area error as a fraction of the parent area.
	ConvergenceRatio float64 `json:"convergence_ratio" toml:"convergence_ratio"`
	// MaxIterationCount bounds the weight-solver steps per sibling set.
	MaxIterationCount int `json:"max_iterations" toml:"max_iterations"`
	// MinWeightRatio raises tiny weights to this fraction of the largest
	// sibling weight so every child keeps a visible cell.
	MinWeightRatio float64 `json:"min_weight_ratio" toml:"min_weight_ratio"`
	// Seed drives initial site placement.
	Seed int64 `json:"seed" toml:"-"`
}

// DefaultOptions returns the default tuning.
func DefaultOptions() Options {
	return Options{
		ConvergenceRatio:  DefaultConvergenceRatio,
		MaxIterationCount: DefaultMaxIterationCount,
		MinWeightRatio:    DefaultMinWeightRatio,
		Seed:              DefaultSeed,
	}
}

// SetDefaults fills zero values with defaults. Seed is left alone since zero
// is a valid seed.
func (o *Options) SetDefaults() {
	if o.ConvergenceRatio <= 0 {
		o.ConvergenceRatio = DefaultConvergenceRatio
	}
	if o.MaxIterationCount <= 0 {
		o.MaxIterationCount = DefaultMaxIterationCount
	}
	if o.MinWeightRatio <= 0 || o.MinWeightRatio >= 1 {
		o.MinWeightRatio = DefaultMinWeightRatio
	}
}

// Tessellator computes nested proportional cells for a hierarchy.
type Tessellator interface {
	Tessellate(clip geometry.Polygon, root *hierarchy.Node, weight WeightFunc, opts Options) (Cells, error)
}

// Func adapts an ordinary function to the Tessellator interface.
type Func func(clip geometry.Polygon, root *hierarchy.Node, weight WeightFunc, opts Options) (Cells, error)

// Tessellate calls f.
func (f Func) Tessellate(clip geometry.Polygon, root *hierarchy.Node, weight WeightFunc, opts Options) (Cells, error) {
	return f(clip, root, weight, opts)
}

// Sums returns the effective weight of every node under root: weight(leaf)
// for leaves (negative values count as zero) and the sum of children for
// inner nodes.
func Sums(root *hierarchy.Node, weight WeightFunc) map[*hierarchy.Node]float64 {
	if weight == nil {
		weight = NaturalWeight
	}
	sums := make(map[*hierarchy.Node]float64)
	var sum func(n *hierarchy.Node) float64
	sum = func(n *hierarchy.Node) float64 {
		var s float64
		if n.IsLeaf() {
			s = max(0, weight(n))
		} else {
			for _, c := range n.Children {
				s += sum(c)
			}
		}
		sums[n] = s
		return s
	}
	sum(root)
	return sums
}
