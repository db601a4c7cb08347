package layout

import (
	"context"
	"io"
	"maps"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/geometry"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/observability"
	"github.com/matzehuels/skillgraph/pkg/tessellate"
)

// Solver runs the boost-and-retry loop around a tessellator.
type Solver struct {
	tess   tessellate.Tessellator
	logger *log.Logger
}

// NewSolver creates a solver. A nil tessellator selects [tessellate.Voronoi];
// a nil logger discards output.
func NewSolver(t tessellate.Tessellator, logger *log.Logger) *Solver {
	if t == nil {
		t = tessellate.NewVoronoi()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Solver{tess: t, logger: logger}
}

// Solve lays out root inside a circle. It only fails on invalid input or a
// cancelled context; tessellation problems are reported through the result.
// When attempts run out, the attempt with the fewest isolated top-level nodes
// is returned, the latest one on ties.
func (s *Solver) Solve(ctx context.Context, root *hierarchy.Node, opts Options) (*Result, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidHierarchy, "nothing to lay out")
	}
	opts.SetDefaults()

	start := time.Now()
	hooks := observability.Layout()
	hooks.OnSolveStart(ctx, root.Name, len(root.Children))

	res, err := s.solve(ctx, root, opts)
	if err != nil {
		hooks.OnSolveComplete(ctx, 0, false, time.Since(start), err)
		return nil, err
	}
	hooks.OnSolveComplete(ctx, len(res.Attempts), res.Degraded, time.Since(start), nil)

	if res.Degraded {
		s.logger.Warn("degraded layout", "root", root.Name, "attempts", len(res.Attempts), "isolated", res.IsolatedNames())
	} else {
		s.logger.Debug("layout solved", "root", root.Name, "attempts", len(res.Attempts), "elapsed", time.Since(start))
	}
	return res, nil
}

func (s *Solver) solve(ctx context.Context, root *hierarchy.Node, opts Options) (*Result, error) {
	clip := geometry.Circle(opts.Radius, opts.CircleSteps)
	tops := root.Children
	natural := tessellate.Sums(root, tessellate.NaturalWeight)
	ancestor := topLevelAncestors(root)

	boosts := make(map[*hierarchy.Node]float64, len(tops))
	for _, t := range tops {
		boosts[t] = 1
	}
	focus := root.Child(opts.FocusCategory)
	if opts.FocusCategory != "" && focus == nil {
		s.logger.Debug("focus category not in view", "focus", opts.FocusCategory)
	}

	res := &Result{Root: root, Radius: opts.Radius, Clip: clip}
	var used map[*hierarchy.Node]float64
	fewest := len(tops) + 1

	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if focus != nil {
			boosts[focus] = focusBoost(focus, tops, boosts, natural, opts.FocusShareMinimum)
		}

		weight := func(leaf *hierarchy.Node) float64 {
			b, ok := boosts[ancestor[leaf]]
			if !ok {
				b = 1
			}
			return float64(leaf.Weight) * b
		}

		// Every attempt uses the same seed; only the weights change.
		rec := Attempt{Number: attempt + 1, Seed: opts.Tessellation.Seed}

		cells, err := s.tess.Tessellate(clip, root, weight, opts.Tessellation)
		if err != nil {
			rec.Error = err.Error()
			res.Attempts = append(res.Attempts, rec)
			observability.Layout().OnSolveAttempt(ctx, rec.Number, 0, err)
			s.logger.Warn("tessellation failed", "attempt", rec.Number, "error", err)
			continue
		}

		isolated := isolatedTops(tops, cells, opts.Radius, opts.BoundaryMargin)
		rec.Isolated = names(isolated)
		res.Attempts = append(res.Attempts, rec)
		observability.Layout().OnSolveAttempt(ctx, rec.Number, len(isolated), nil)
		s.logger.Debug("layout attempt", "attempt", rec.Number, "isolated", rec.Isolated, "boosts", boostsByName(boosts))

		if len(isolated) <= fewest {
			fewest = len(isolated)
			res.Cells = cells
			res.Isolated = isolated
			used = maps.Clone(boosts)
		}
		if len(isolated) == 0 {
			break
		}
		for _, n := range isolated {
			boosts[n] *= opts.BoostFactor
		}
	}

	if res.Cells == nil {
		res.Cells = tessellate.Cells{}
		res.Degraded = true
		used = boosts
	}
	if len(res.Isolated) > 0 {
		res.Degraded = true
	}

	res.Boosts = boostsByName(used)
	res.Effective = make(map[string]float64, len(tops))
	for _, t := range tops {
		res.Effective[t.Name] = natural[t] * used[t]
	}
	res.Placements = placements(root, res.Cells)
	return res, nil
}

// focusBoost returns the boost that gives focus a share of exactly share of
// the total effective weight.
func focusBoost(focus *hierarchy.Node, tops []*hierarchy.Node, boosts, natural map[*hierarchy.Node]float64, share float64) float64 {
	others := 0.0
	for _, t := range tops {
		if t != focus {
			others += natural[t] * boosts[t]
		}
	}
	return (share * others) / ((1 - share) * max(natural[focus], minFocusWeight))
}

// isolatedTops returns the top-level nodes that have no vertex near the
// outer circle. Nodes without a cell count as isolated.
func isolatedTops(tops []*hierarchy.Node, cells tessellate.Cells, radius, margin float64) []*hierarchy.Node {
	var out []*hierarchy.Node
	for _, t := range tops {
		poly, ok := cells[t]
		if !ok || !poly.TouchesBoundary(radius, margin) {
			out = append(out, t)
		}
	}
	return out
}

func topLevelAncestors(root *hierarchy.Node) map[*hierarchy.Node]*hierarchy.Node {
	anc := make(map[*hierarchy.Node]*hierarchy.Node)
	for _, top := range root.Children {
		top.Walk(func(n, _ *hierarchy.Node, _ int) bool {
			anc[n] = top
			return true
		})
	}
	return anc
}

func placements(root *hierarchy.Node, cells tessellate.Cells) []Placement {
	var out []Placement
	root.Walk(func(n, parent *hierarchy.Node, depth int) bool {
		if depth > 0 {
			p := Placement{Node: n, Parent: parent, Depth: depth}
			if poly, ok := cells[n]; ok && len(poly) >= 3 {
				p.Polygon = poly
			}
			out = append(out, p)
		}
		return true
	})
	return out
}

func boostsByName(b map[*hierarchy.Node]float64) map[string]float64 {
	out := make(map[string]float64, len(b))
	for k, v := range b {
		out[k.Name] = v
	}
	return out
}
