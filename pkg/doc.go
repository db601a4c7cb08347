// Package pkg provides the core libraries for skill graph visualization.
//
// # Overview
//
// Skillgraph turns per-person completion records into two weighted
// hierarchies, one of roles and one of skills, and lays each out as a circle
// divided into regions whose areas follow the weights. A region's tint shows
// how far people got through that category. Regions can be drilled into one
// domain at a time.
//
// # Architecture
//
// The typical data flow:
//
//	categories.json + entities.json + entities/<id>.json
//	         ↓
//	    [source] package (fetch files from a URL or directory)
//	         ↓
//	    [hierarchy] package (aggregate into a role and a skill tree)
//	         ↓
//	    [navigate] package (pick the World view or one domain)
//	         ↓
//	    [layout] package (weighted Voronoi tessellation, with retries)
//	         ↓
//	    [present] package (colors, labels, badges)
//	         ↓
//	    [render/sink] package (SVG/PDF/PNG/JSON output)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/skillgraph/pkg/source"
//	    "github.com/matzehuels/skillgraph/pkg/hierarchy"
//	    "github.com/matzehuels/skillgraph/pkg/layout"
//	    "github.com/matzehuels/skillgraph/pkg/present"
//	    "github.com/matzehuels/skillgraph/pkg/render/sink"
//	)
//
//	ctx := context.Background()
//	src, _ := source.New("examples/team", source.Options{}, nil, nil)
//	forest, _ := src.Load(ctx)
//
//	view := hierarchy.Project(forest.Skill)
//	res, _ := layout.NewSolver(nil, nil).Solve(ctx, view, layout.DefaultOptions())
//	svg := sink.RenderSVG(present.Build(res))
//
// # Main Packages
//
// ## Domain
//
// [hierarchy] - Weighted trees, aggregation of completion records, and the
// two-level projection used for every view.
//
// [navigate] - The World/Drilldown state machine driven by region and
// background clicks.
//
// [tessellate] - Weighted Voronoi partitioning of a polygon among sites.
//
// [layout] - Solves a view: effective weights (focus share, isolated-node
// boost), tessellation of the disk and of every domain, bounded retries.
//
// [geometry] - Points and polygons.
//
// ## Visualization
//
// [present] - Turns a layout into a scene: palette, opacity scale, labels,
// and completion badges.
//
// [render/sink] - Scene output formats. PDF and PNG go through [render].
//
// [render/nodelink] - The hierarchy as a Graphviz tree diagram.
//
// ## Infrastructure
//
// [pipeline] - Load, layout, and render orchestration shared by the CLI and
// the HTTP server, with caching at every stage.
//
// [bootstrap] - Waits for the rendering library, loads data, and keeps the
// current view solved as the user navigates.
//
// [cache] - File, Redis, and null caches plus key derivation.
//
// [httputil] - Retrying JSON client with response caching.
//
// [storage] - Saved layouts in memory or MongoDB.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./...                  # All tests
//	go test ./pkg/layout/...       # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [source]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/source
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/hierarchy
// [navigate]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/navigate
// [tessellate]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/tessellate
// [layout]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/layout
// [geometry]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/geometry
// [present]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/present
// [render]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/pipeline
// [bootstrap]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/bootstrap
// [cache]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/httputil
// [storage]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/storage
// [observability]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/skillgraph/pkg/errors
package pkg
