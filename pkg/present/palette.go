package present

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	paletteChroma    = 0.55
	paletteLightness = 0.62
	hueOffset        = 20.0
)

// Palette assigns each top-level node a categorical color.
type Palette struct {
	colors []colorful.Color
}

// NewPalette returns n colors with evenly spaced hues at fixed chroma and
// lightness.
func NewPalette(n int) Palette {
	p := Palette{colors: make([]colorful.Color, n)}
	for i := range n {
		hue := math.Mod(hueOffset+360*float64(i)/float64(max(n, 1)), 360)
		p.colors[i] = colorful.Hcl(hue, paletteChroma, paletteLightness).Clamped()
	}
	return p
}

// Fill returns the hex fill color for index i.
func (p Palette) Fill(i int) string {
	if len(p.colors) == 0 {
		return "#888888"
	}
	return p.colors[i%len(p.colors)].Hex()
}

// Stroke returns a darker variant of Fill for outlines.
func (p Palette) Stroke(i int) string {
	if len(p.colors) == 0 {
		return "#444444"
	}
	black := colorful.Color{}
	return p.colors[i%len(p.colors)].BlendLab(black, 0.35).Clamped().Hex()
}

// Tint returns Fill blended toward white by 1-opacity, for surfaces that
// cannot draw translucent fills.
func (p Palette) Tint(i int, opacity float64) string {
	if len(p.colors) == 0 {
		return "#888888"
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	return white.BlendLab(p.colors[i%len(p.colors)], min(1, max(0, opacity))).Clamped().Hex()
}
