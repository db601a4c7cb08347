// Package pipeline runs the load, aggregate, layout, present and render
// stages used by the CLI and the HTTP server.
//
// # Architecture
//
//  1. Load: fetch the data files and aggregate them into a forest
//  2. View: pick the source hierarchy and optional drill-down domain, then
//     project it to the displayed tree
//  3. Scene: solve the layout and map it to a presentation scene
//  4. Render: produce artifacts (svg, png, pdf, json, dot, tree)
//
// Each stage caches its output through a [cache.Cache]; keys come from a
// content hash of the previous stage plus the options that affect it.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	forest, err := runner.Load(ctx, src, false)
//	result, err := runner.Execute(ctx, forest, pipeline.Options{
//	    Source:  "skill",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillgraph/pkg/cache"
	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/layout"
	"github.com/matzehuels/skillgraph/pkg/present"
	"github.com/matzehuels/skillgraph/pkg/tessellate"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server and Tests
// =============================================================================

// DefaultSource is the hierarchy shown when none is requested.
const DefaultSource = hierarchy.KindSkill

// DefaultSeed is the seed written into fresh configurations. Zero is a valid
// seed, so an unset seed in Options is not replaced.
const DefaultSeed = tessellate.DefaultSeed

// DefaultPNGScale is the PNG resolution multiplier.
const DefaultPNGScale = 2.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTree = "tree"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatTree: true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
	FormatTree: "image/svg+xml",
}

// FileExtension returns the file extension for a format.
func FileExtension(format string) string {
	switch format {
	case FormatTree:
		return "tree.svg"
	default:
		return format
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// View options
	Source string `json:"source,omitempty"`
	Domain string `json:"domain,omitempty"`

	// Layout options
	Layout layout.Options `json:"layout"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	NoLabels    bool     `json:"no_labels,omitempty"`
	NoBadges    bool     `json:"no_badges,omitempty"`
	Tinted      bool     `json:"tinted,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // tree labels with weight and frequency
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// View is the projected tree that was laid out.
	View *hierarchy.Node

	// HierarchyHash is the content hash of View.
	HierarchyHash string

	// Layout is the solver result. It is nil when the scene came from cache.
	Layout *layout.Result

	Scene present.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Domains    int
	Cells      int
	Attempts   int
	Degraded   bool
	SceneTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LoadHit   bool
	SceneHit  bool
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, formatList())
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatList() string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Kind returns the parsed source. Call after validation.
func (o *Options) Kind() hierarchy.Kind {
	return hierarchy.Kind(o.Source)
}

// SetLayoutDefaults sets default values for the view and layout stages.
func (o *Options) SetLayoutDefaults() {
	if o.Source == "" {
		o.Source = string(DefaultSource)
	}
	o.Layout.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for the view and layout stages.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	kind, err := hierarchy.ParseKind(o.Source)
	if err != nil {
		return err
	}
	o.Source = string(kind)
	o.Domain = strings.TrimSpace(o.Domain)
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// SceneKeyOpts returns cache key options for scene computation.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	l := o.Layout
	return cache.SceneKeyOpts{
		Source:            o.Source,
		Domain:            o.Domain,
		Radius:            l.Radius,
		CircleSteps:       l.CircleSteps,
		FocusCategory:     l.FocusCategory,
		FocusShareMinimum: l.FocusShareMinimum,
		MaxAttempts:       l.MaxAttempts,
		BoostFactor:       l.BoostFactor,
		BoundaryMargin:    l.BoundaryMargin,
		ConvergenceRatio:  l.Tessellation.ConvergenceRatio,
		MaxIterations:     l.Tessellation.MaxIterationCount,
		MinWeightRatio:    l.Tessellation.MinWeightRatio,
		Seed:              l.Tessellation.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Labels:      !o.NoLabels,
		Badges:      !o.NoBadges,
		Tinted:      o.Tinted,
		Interactive: o.Interactive,
		Detailed:    o.Detailed,
	}
}

// Describe returns a short human-readable summary of the view.
func (o *Options) Describe() string {
	if o.Domain == "" {
		return o.Source
	}
	return fmt.Sprintf("%s / %s", o.Source, o.Domain)
}
