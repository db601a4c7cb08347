package layout

import (
	"github.com/matzehuels/skillgraph/pkg/geometry"
	"github.com/matzehuels/skillgraph/pkg/tessellate"
)

// Default solver settings.
const (
	DefaultRadius            = 300.0
	DefaultFocusShareMinimum = 0.4
	DefaultMaxAttempts       = 4
	DefaultBoostFactor       = 1.25

	// minFocusWeight guards the focus boost denominator.
	minFocusWeight = 1e-6
)

// Options configures a solve.
type Options struct {
	Radius      float64 `json:"radius" toml:"radius"`
	CircleSteps int     `json:"circle_steps,omitempty" toml:"steps"`

	// FocusCategory names a top-level node whose effective share is pinned to
	// FocusShareMinimum. Empty disables the focus boost.
	FocusCategory     string  `json:"focus_category,omitempty" toml:"focus_category"`
	FocusShareMinimum float64 `json:"focus_share_minimum,omitempty" toml:"focus_share_minimum"`

	MaxAttempts    int     `json:"max_attempts,omitempty" toml:"max_attempts"`
	BoostFactor    float64 `json:"boost_factor,omitempty" toml:"boost_factor"`
	BoundaryMargin float64 `json:"boundary_margin,omitempty" toml:"boundary_margin"`

	Tessellation tessellate.Options `json:"tessellation" toml:"-"`
}

// DefaultOptions returns the default solve settings.
func DefaultOptions() Options {
	return Options{
		Radius:            DefaultRadius,
		CircleSteps:       geometry.DefaultCircleSteps,
		FocusShareMinimum: DefaultFocusShareMinimum,
		MaxAttempts:       DefaultMaxAttempts,
		BoostFactor:       DefaultBoostFactor,
		BoundaryMargin:    geometry.BoundaryMargin,
		Tessellation:      tessellate.DefaultOptions(),
	}
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Radius <= 0 {
		o.Radius = DefaultRadius
	}
	if o.CircleSteps < 3 {
		o.CircleSteps = geometry.DefaultCircleSteps
	}
	if o.FocusShareMinimum <= 0 || o.FocusShareMinimum >= 1 {
		o.FocusShareMinimum = DefaultFocusShareMinimum
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.BoostFactor <= 1 {
		o.BoostFactor = DefaultBoostFactor
	}
	if o.BoundaryMargin <= 0 || o.BoundaryMargin > 1 {
		o.BoundaryMargin = geometry.BoundaryMargin
	}
	o.Tessellation.SetDefaults()
}
