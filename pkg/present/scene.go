package present

import (
	"github.com/matzehuels/skillgraph/pkg/geometry"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/layout"
)

// Domain is a top-level region of the scene.
type Domain struct {
	Name      string           `json:"name"`
	Weight    int              `json:"weight"`
	Frequency float64          `json:"frequency"`
	Polygon   geometry.Polygon `json:"polygon,omitempty"`
	Fill      string           `json:"fill"`
	Stroke    string           `json:"stroke"`
	Badge     *Badge           `json:"badge,omitempty"`
	Isolated  bool             `json:"isolated,omitempty"`
}

// Cell is a leaf region of the scene.
type Cell struct {
	Name      string           `json:"name"`
	Domain    string           `json:"domain"`
	Path      []string         `json:"path"`
	Weight    int              `json:"weight"`
	Frequency float64          `json:"frequency"`
	Polygon   geometry.Polygon `json:"polygon,omitempty"`
	Fill      string           `json:"fill"`
	Tint      string           `json:"tint"`
	Opacity   float64          `json:"opacity"`
	Label     *Label           `json:"label,omitempty"`
}

// Scene is everything a rendering surface needs for one view.
type Scene struct {
	Title    string           `json:"title"`
	Radius   float64          `json:"radius"`
	Outline  geometry.Polygon `json:"outline"`
	Domains  []Domain         `json:"domains"`
	Cells    []Cell           `json:"cells"`
	Degraded bool             `json:"degraded,omitempty"`
	Attempts int              `json:"attempts"`
}

// Build maps a solved layout to a scene. Nodes without a polygon appear with
// an empty polygon and no label or badge.
func Build(res *layout.Result) Scene {
	sc := Scene{
		Title:    res.Root.Name,
		Radius:   res.Radius,
		Outline:  res.Clip,
		Degraded: res.Degraded,
		Attempts: len(res.Attempts),
	}

	tops := res.Root.Children
	palette := NewPalette(len(tops))
	isolated := make(map[*hierarchy.Node]bool, len(res.Isolated))
	for _, n := range res.Isolated {
		isolated[n] = true
	}

	var freqs []float64
	for _, p := range res.Leaves() {
		freqs = append(freqs, p.Node.Frequency)
	}
	scale := NewOpacityScale(freqs)

	for i, top := range tops {
		d := Domain{
			Name:      top.Name,
			Weight:    top.Weight,
			Frequency: top.Frequency,
			Fill:      palette.Fill(i),
			Stroke:    palette.Stroke(i),
			Isolated:  isolated[top],
		}
		if poly, ok := res.Polygon(top); ok {
			d.Polygon = poly
			b := PlaceBadge(top.Name, poly, res.Radius)
			d.Badge = &b
		}
		sc.Domains = append(sc.Domains, d)

		top.Walk(func(n, _ *hierarchy.Node, _ int) bool {
			if !n.IsLeaf() {
				return true
			}
			sc.Cells = append(sc.Cells, buildCell(res, n, top, palette, i, scale))
			return true
		})
	}
	return sc
}

func buildCell(res *layout.Result, n, top *hierarchy.Node, palette Palette, idx int, scale OpacityScale) Cell {
	opacity := scale.Opacity(n.Frequency)
	c := Cell{
		Name:      n.Name,
		Domain:    top.Name,
		Path:      pathTo(top, n),
		Weight:    n.Weight,
		Frequency: n.Frequency,
		Fill:      palette.Fill(idx),
		Tint:      palette.Tint(idx, opacity),
		Opacity:   opacity,
	}
	if poly, ok := res.Polygon(n); ok {
		c.Polygon = poly
		if l, ok := PlaceLabel(n.Name, poly); ok {
			c.Label = &l
		}
	}
	return c
}

// pathTo returns the child names from top down to n, including both.
func pathTo(top, n *hierarchy.Node) []string {
	var path []string
	var find func(cur *hierarchy.Node, acc []string) bool
	find = func(cur *hierarchy.Node, acc []string) bool {
		acc = append(acc, cur.Name)
		if cur == n {
			path = append([]string(nil), acc...)
			return true
		}
		for _, c := range cur.Children {
			if find(c, acc) {
				return true
			}
		}
		return false
	}
	find(top, nil)
	return path
}
