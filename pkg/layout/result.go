package layout

import (
	"github.com/matzehuels/skillgraph/pkg/geometry"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/tessellate"
)

// Placement is one node's polygon for a render pass. Polygon is nil when the
// node received no cell.
type Placement struct {
	Node    *hierarchy.Node
	Parent  *hierarchy.Node
	Depth   int
	Polygon geometry.Polygon
}

// Attempt records the outcome of one tessellation attempt.
type Attempt struct {
	Number   int      `json:"number"`
	Seed     int64    `json:"seed"`
	Isolated []string `json:"isolated,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Result is the outcome of [Solver.Solve].
type Result struct {
	Root   *hierarchy.Node
	Radius float64
	Clip   geometry.Polygon

	// Cells is the side table of the returned tessellation. It is empty when
	// every attempt failed.
	Cells tessellate.Cells

	// Placements lists every non-root node depth-first in child order.
	Placements []Placement

	// Boosts and Effective are keyed by top-level node name and reflect the
	// weights used by the returned tessellation.
	Boosts    map[string]float64
	Effective map[string]float64

	Attempts []Attempt

	// Isolated holds the top-level nodes of the returned tessellation that do
	// not reach the outer circle.
	Isolated []*hierarchy.Node

	// Degraded is set when attempts ran out with isolated nodes left, or when
	// no attempt succeeded at all.
	Degraded bool
}

// Polygon returns the cell of n.
func (r *Result) Polygon(n *hierarchy.Node) (geometry.Polygon, bool) {
	p, ok := r.Cells[n]
	return p, ok && len(p) >= 3
}

// TopLevel returns the placements at depth 1.
func (r *Result) TopLevel() []Placement {
	return r.atDepth(1)
}

// Leaves returns the placements of leaf nodes.
func (r *Result) Leaves() []Placement {
	var out []Placement
	for _, p := range r.Placements {
		if p.Node.IsLeaf() {
			out = append(out, p)
		}
	}
	return out
}

func (r *Result) atDepth(depth int) []Placement {
	var out []Placement
	for _, p := range r.Placements {
		if p.Depth == depth {
			out = append(out, p)
		}
	}
	return out
}

// Share returns the effective weight share of a top-level node.
func (r *Result) Share(name string) float64 {
	total := 0.0
	for _, w := range r.Effective {
		total += w
	}
	if total == 0 {
		return 0
	}
	return r.Effective[name] / total
}

// IsolatedNames returns the names of the isolated top-level nodes.
func (r *Result) IsolatedNames() []string {
	return names(r.Isolated)
}

func names(nodes []*hierarchy.Node) []string {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
