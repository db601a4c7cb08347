package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/present"
	"github.com/matzehuels/skillgraph/pkg/render"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed adds weight and frequency to node labels.
	Detailed bool
	// MaxDepth stops descending below this depth. Zero means unlimited.
	MaxDepth int
}

var graphAttrs = []string{
	"rankdir=LR",
	`bgcolor="transparent"`,
	"ranksep=0.6",
	"nodesep=0.15",
	`node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.15,0.05"]`,
}

// ToDOT writes the hierarchy as a left-to-right Graphviz tree. Node ids are
// slash-joined paths, so equal names under different parents stay distinct.
// Each domain subtree takes its palette color, tinted by completion rate the
// same way the circle view tints cells.
func ToDOT(root *hierarchy.Node, opts Options) string {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	for _, a := range graphAttrs {
		fmt.Fprintf(&b, "  %s;\n", a)
	}
	b.WriteString("\n")
	if root == nil {
		b.WriteString("}\n")
		return b.String()
	}

	palette := present.NewPalette(len(root.Children))
	domainOf := make(map[*hierarchy.Node]int, len(root.Children))
	for i, d := range root.Children {
		domainOf[d] = i
	}
	scale := present.NewOpacityScale(frequencies(root))

	ids := map[*hierarchy.Node]string{root: root.Name}
	domain := map[*hierarchy.Node]int{}
	var edges strings.Builder
	root.Walk(func(n, parent *hierarchy.Node, depth int) bool {
		if opts.MaxDepth > 0 && depth > opts.MaxDepth {
			return false
		}
		if parent != nil {
			ids[n] = ids[parent] + "/" + n.Name
			fmt.Fprintf(&edges, "  %q -> %q;\n", ids[parent], ids[n])
			if i, ok := domainOf[n]; ok {
				domain[n] = i
			} else {
				domain[n] = domain[parent]
			}
		}

		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, depth, opts.Detailed))}
		switch {
		case depth == 0:
			attrs = append(attrs, `fillcolor="#333333"`, "fontcolor=white")
		default:
			i := domain[n]
			attrs = append(attrs,
				fmt.Sprintf("fillcolor=%q", palette.Tint(i, scale.Opacity(n.Frequency))),
				fmt.Sprintf("color=%q", palette.Stroke(i)))
			if n.IsLeaf() {
				attrs = append(attrs, `style="rounded,filled,dashed"`)
			}
		}
		fmt.Fprintf(&b, "  %q [%s];\n", ids[n], strings.Join(attrs, ", "))
		return true
	})

	b.WriteString("\n")
	b.WriteString(edges.String())
	b.WriteString("}\n")
	return b.String()
}

func frequencies(root *hierarchy.Node) []float64 {
	var out []float64
	root.Walk(func(n, parent *hierarchy.Node, _ int) bool {
		if parent != nil {
			out = append(out, n.Frequency)
		}
		return true
	})
	return out
}

func nodeLabel(n *hierarchy.Node, depth int, detailed bool) string {
	switch {
	case !detailed:
		return n.Name
	case depth == 0:
		return fmt.Sprintf("%s\nweight: %d", n.Name, n.Weight)
	default:
		return fmt.Sprintf("%s\nweight: %d\nfrequency: %.0f%%", n.Name, n.Weight, n.Frequency)
	}
}

// RenderSVG lays out a DOT graph with the embedded Graphviz and returns SVG
// with a normalized root element.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
