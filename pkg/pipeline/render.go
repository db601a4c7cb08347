package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/observability"
	"github.com/matzehuels/skillgraph/pkg/present"
	"github.com/matzehuels/skillgraph/pkg/render/nodelink"
	"github.com/matzehuels/skillgraph/pkg/render/sink"
)

// Render generates artifacts in the requested formats. view is only used by
// the dot and tree formats.
func Render(ctx context.Context, sc present.Scene, view *hierarchy.Node, opts Options) (artifacts map[string][]byte, err error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	svgOpts := buildSVGOptions(opts)
	artifacts = make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(sc, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(sc, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(DefaultPNGScale))
		case FormatPDF:
			data, err = sink.RenderPDF(sc, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(sc,
				sink.WithJSONSource(opts.Source),
				sink.WithJSONDomain(opts.Domain),
				sink.WithJSONSeed(opts.Layout.Tessellation.Seed))
		case FormatDOT:
			data = []byte(nodelink.ToDOT(view, nodelink.Options{Detailed: opts.Detailed}))
		case FormatTree:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(view, nodelink.Options{Detailed: opts.Detailed}))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.NoLabels {
		svgOpts = append(svgOpts, sink.WithoutLabels())
	}
	if opts.NoBadges {
		svgOpts = append(svgOpts, sink.WithoutBadges())
	}
	if opts.Tinted {
		svgOpts = append(svgOpts, sink.WithTint())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}
