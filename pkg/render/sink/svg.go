package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/skillgraph/pkg/geometry"
	"github.com/matzehuels/skillgraph/pkg/present"
)

// Margin around the circle, room for outside badges.
const Margin = 96.0

const cellInteractionCSS = `
    .cell { transition: fill-opacity 0.2s ease; cursor: pointer; }
    .cell:hover { fill-opacity: 1; }
    .domain { fill: none; pointer-events: none; }
    .label, .badge { pointer-events: none; font-family: system-ui, sans-serif; }
    .badge { font-weight: 600; }`

// Dispatches a "skillgraph:click" event carrying the cell path, and
// "skillgraph:background" for clicks on empty space.
const cellInteractionJS = `
    const root = document.currentScript.closest('svg');
    root.addEventListener('click', ev => {
      const cell = ev.target.closest('.cell');
      const detail = cell ? JSON.parse(cell.dataset.path) : null;
      root.dispatchEvent(new CustomEvent(cell ? 'skillgraph:click' : 'skillgraph:background', { detail, bubbles: true }));
    });`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels      bool
	badges      bool
	tinted      bool
	interactive bool
}

// WithoutLabels omits cell labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithoutBadges omits domain badges.
func WithoutBadges() SVGOption { return func(r *svgRenderer) { r.badges = false } }

// WithTint fills cells with the pre-blended tint instead of fill + opacity,
// for consumers that ignore fill-opacity.
func WithTint() SVGOption { return func(r *svgRenderer) { r.tinted = true } }

// WithInteraction embeds hover CSS and a click script.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{labels: true, badges: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws a scene centred on the origin.
func RenderSVG(sc present.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	half := sc.Radius + Margin
	size := 2 * half
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		-half, -half, size, size, size, size)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(sc.Title))
	if sc.Degraded {
		buf.WriteString("  <desc>degraded layout</desc>\n")
	}

	if len(sc.Outline) > 0 {
		fmt.Fprintf(&buf, `  <path class="outline" d="%s" fill="#f7f7f7" stroke="#d0d0d0" stroke-width="1"/>`+"\n", pathData(sc.Outline))
	}

	buf.WriteString("  <g class=\"cells\">\n")
	for _, c := range sc.Cells {
		renderCell(&buf, &r, c)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"domains\">\n")
	for _, d := range sc.Domains {
		if len(d.Polygon) == 0 {
			continue
		}
		fmt.Fprintf(&buf, `    <path class="domain" data-domain="%s" d="%s" stroke="%s" stroke-width="2"/>`+"\n",
			escapeXML(d.Name), pathData(d.Polygon), d.Stroke)
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		renderLabels(&buf, sc.Cells)
	}
	if r.badges {
		renderBadges(&buf, sc.Domains)
	}
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cellInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", cellInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCell(buf *bytes.Buffer, r *svgRenderer, c present.Cell) {
	if len(c.Polygon) == 0 {
		return
	}
	fill := fmt.Sprintf(`fill="%s" fill-opacity="%.2f"`, c.Fill, c.Opacity)
	if r.tinted {
		fill = fmt.Sprintf(`fill="%s"`, c.Tint)
	}
	fmt.Fprintf(buf, `    <path class="cell" data-domain="%s" data-path='%s' d="%s" %s stroke="#ffffff" stroke-width="1">`,
		escapeXML(c.Domain), escapeXML(jsonPath(c.Path)), pathData(c.Polygon), fill)
	fmt.Fprintf(buf, "<title>%s: %d, %.0f%%</title></path>\n", escapeXML(strings.Join(c.Path, " / ")), c.Weight, c.Frequency)
}

func renderLabels(buf *bytes.Buffer, cells []present.Cell) {
	buf.WriteString("  <g class=\"labels\">\n")
	for _, c := range cells {
		if c.Label == nil {
			continue
		}
		l := c.Label
		fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle" fill="#222">%s</text>`+"\n",
			l.Position.X, l.Position.Y, l.FontSize, escapeXML(l.Text))
	}
	buf.WriteString("  </g>\n")
}

func renderBadges(buf *bytes.Buffer, domains []present.Domain) {
	buf.WriteString("  <g class=\"badges\">\n")
	for _, d := range domains {
		if d.Badge == nil {
			continue
		}
		b := d.Badge
		fmt.Fprintf(buf, `    <text class="badge" x="%.1f" y="%.1f" font-size="13" text-anchor="%s" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
			b.Position.X, b.Position.Y, badgeAnchor(*b), d.Stroke, escapeXML(b.Text))
	}
	buf.WriteString("  </g>\n")
}

// badgeAnchor aligns outside badges away from the circle.
func badgeAnchor(b present.Badge) string {
	if !b.Outside {
		return "middle"
	}
	switch c := math.Cos(b.Angle); {
	case c > 0.2:
		return "start"
	case c < -0.2:
		return "end"
	default:
		return "middle"
	}
}

func pathData(p geometry.Polygon) string {
	var sb strings.Builder
	for i, v := range p {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.2f,%.2f", v.X, v.Y)
	}
	sb.WriteString(" Z")
	return sb.String()
}

func jsonPath(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprintf("%q", p)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
