// Package nodelink renders a weighted hierarchy as a Graphviz tree diagram,
// a plain alternative to the area layout that shows every level at once.
//
//	dot := nodelink.ToDOT(forest.Skill, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOT] lays the root out on the left (rankdir=LR). Leaves are dashed.
// With Options.Detailed, labels include weight and frequency.
//
// SVG rendering runs Graphviz in-process via [github.com/goccy/go-graphviz].
// PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
