package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgraph/pkg/pipeline"
)

// renderCommand creates the render command, which runs the whole pipeline
// and writes one file per format.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		flags      layoutFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [hierarchy.json|url|dir]",
		Short: "Render a skill graph to SVG, PNG, PDF, JSON or a DOT tree",
		Long: `Render a skill graph to SVG, PNG, PDF, JSON or a DOT tree.

The input is a hierarchy file produced by 'fetch', or a data source URL or
directory. Use --domain to render the drill-down view of one domain.

Formats:
  svg   circular map (default)
  png   rasterized map (needs rsvg-convert)
  pdf   vector document (needs rsvg-convert)
  json  scene description
  dot   Graphviz source of the displayed tree
  tree  the displayed tree rendered by Graphviz as SVG`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			full := flags.options(cmd, c.Config)
			full.Formats = parseFormats(formatsStr)
			full.NoLabels = opts.NoLabels
			full.NoBadges = opts.NoBadges
			full.Tinted = opts.Tinted
			full.Interactive = opts.Interactive
			full.Detailed = opts.Detailed
			full.Refresh = opts.Refresh
			return c.runRender(cmd.Context(), input, full, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, tree (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute instead of reading the cache")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit cell labels")
	cmd.Flags().BoolVar(&opts.NoBadges, "no-badges", false, "omit domain badges")
	cmd.Flags().BoolVar(&opts.Tinted, "tinted", false, "blend opacity into the fill instead of using fill-opacity")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "embed click handlers in the SVG")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show weight and completion in tree labels")
	flags.register(cmd, true)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	opts.Logger = c.Logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Loading "+inputLabel(input)+"...")
	spinner.Start()

	forest, _, err := c.loadForest(ctx, runner, input, opts.Refresh)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load %s: %w", inputLabel(input), err)
	}
	prog.lap("loaded", "input", inputLabel(input))

	spinner.Update("Rendering " + opts.Describe() + "...")
	result, err := runner.Execute(ctx, forest, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.lap("rendered", "formats", len(opts.Formats), "scene_cached", result.CacheInfo.SceneHit)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output, outputBase(input, opts))
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", opts.Describe())
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.SceneHit)
	if result.Stats.Degraded {
		printWarning("Some domains stayed isolated after %d attempts", result.Stats.Attempts)
	}
	return nil
}

// writeArtifacts writes each format to disk. A single format goes to output
// verbatim; several formats share output (or base) as a prefix.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, base string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	}

	prefix := base
	if output != "" {
		prefix = stripFormatExt(output)
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := prefix + "." + pipeline.FileExtension(format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// stripFormatExt removes a known format extension from path.
func stripFormatExt(path string) string {
	if strings.HasSuffix(path, ".tree.svg") {
		return strings.TrimSuffix(path, ".tree.svg")
	}
	ext := filepath.Ext(path)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(path, ext)
	}
	return path
}
