package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/pipeline"
	"github.com/matzehuels/skillgraph/pkg/source"
)

// layoutFlags are the view and solver flags shared by layout, render and
// explore. Only flags the user set override the config file.
type layoutFlags struct {
	source      string
	domain      string
	focus       string
	focusShare  float64
	radius      float64
	maxAttempts int
	seed        int64
}

func (f *layoutFlags) register(cmd *cobra.Command, withDomain bool) {
	fl := cmd.Flags()
	fl.StringVarP(&f.source, "source", "s", string(pipeline.DefaultSource), "hierarchy to show: skill, role")
	if withDomain {
		fl.StringVarP(&f.domain, "domain", "d", "", "drill into one top-level domain")
	}
	fl.StringVar(&f.focus, "focus", "", "top-level category pinned to a minimum share of the circle")
	fl.Float64Var(&f.focusShare, "focus-share", 0, "minimum share of the focus category (0-1)")
	fl.Float64Var(&f.radius, "radius", 0, "circle radius")
	fl.IntVar(&f.maxAttempts, "max-attempts", 0, "solver attempts before giving up on isolated domains")
	fl.Int64Var(&f.seed, "seed", 0, "tessellation seed")
}

// options returns the config's pipeline options with set flags applied.
func (f *layoutFlags) options(cmd *cobra.Command, cfg *Config) pipeline.Options {
	opts := cfg.PipelineOptions()
	fl := cmd.Flags()
	if fl.Changed("source") {
		opts.Source = f.source
	}
	if fl.Changed("domain") {
		opts.Domain = f.domain
	}
	if fl.Changed("focus") {
		opts.Layout.FocusCategory = f.focus
	}
	if fl.Changed("focus-share") {
		opts.Layout.FocusShareMinimum = f.focusShare
	}
	if fl.Changed("radius") {
		opts.Layout.Radius = f.radius
	}
	if fl.Changed("max-attempts") {
		opts.Layout.MaxAttempts = f.maxAttempts
	}
	if fl.Changed("seed") {
		opts.Layout.Tessellation.Seed = f.seed
	}
	return opts
}

// loadForest reads input as a hierarchy file when it names a .json file,
// otherwise treats it as a data source base (empty means the configured one).
func (c *CLI) loadForest(ctx context.Context, runner *pipeline.Runner, input string, refresh bool) (hierarchy.Forest, bool, error) {
	if looksLikeHierarchyFile(input) {
		f, err := hierarchy.ReadForestFile(input)
		return f, false, err
	}
	src, err := c.newSource(input, runner.Cache)
	if err != nil {
		return hierarchy.Forest{}, false, err
	}
	return runner.LoadWithCacheInfo(ctx, src, src.Base(), refresh)
}

func looksLikeHierarchyFile(input string) bool {
	if !strings.HasSuffix(strings.ToLower(input), ".json") {
		return false
	}
	info, err := os.Stat(input)
	return err == nil && info.Mode().IsRegular()
}

// forestFile loads a hierarchy file written by "fetch".
type forestFile string

func (p forestFile) Load(context.Context) (hierarchy.Forest, error) {
	return hierarchy.ReadForestFile(string(p))
}

// newLoader returns the loader for input and the base its forest is cached
// under.
func (c *CLI) newLoader(runner *pipeline.Runner, input string) (source.Loader, string, error) {
	if looksLikeHierarchyFile(input) {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, "", err
		}
		return forestFile(abs), "file:" + abs, nil
	}
	src, err := c.newSource(input, runner.Cache)
	if err != nil {
		return nil, "", err
	}
	return src, src.Base(), nil
}
