// Package sink renders a [present.Scene] to output formats.
//
// # SVG Output
//
// [RenderSVG] draws the circle outline, leaf cells (fill with
// frequency-derived opacity), domain borders, labels and badges. The viewBox
// is centred on the origin with [Margin] around the circle so outside badges
// stay visible.
//
//	svg := sink.RenderSVG(scene, sink.WithInteraction())
//
// Options: [WithoutLabels], [WithoutBadges], [WithTint], [WithInteraction].
// With interaction, clicking a cell dispatches a "skillgraph:click" event
// whose detail is the cell path, and clicking empty space dispatches
// "skillgraph:background".
//
// # JSON Output
//
// [RenderJSON] exports the scene together with the source, drill-down domain
// and seed used to produce it.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] convert the SVG with rsvg-convert.
package sink
