// Package render turns presentation scenes into output formats.
//
// # Overview
//
//   - [sink]: scene to SVG, JSON, PDF and PNG
//   - [nodelink]: the weighted hierarchy as a Graphviz tree diagram
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// (from librsvg). Both sinks use them:
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)
//
// When rsvg-convert is missing the conversions fail with an UNSUPPORTED
// error; [ConverterAvailable] checks beforehand.
//
// [sink]: github.com/matzehuels/skillgraph/pkg/render/sink
// [nodelink]: github.com/matzehuels/skillgraph/pkg/render/nodelink
package render
