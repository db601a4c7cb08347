package sink

import (
	"github.com/matzehuels/skillgraph/pkg/present"
	"github.com/matzehuels/skillgraph/pkg/render"
)

// RenderPDF renders the scene as PDF via SVG conversion.
func RenderPDF(sc present.Scene, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(sc, opts...))
}
