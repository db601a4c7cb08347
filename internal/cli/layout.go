package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgraph/pkg/pipeline"
	"github.com/matzehuels/skillgraph/pkg/render/sink"
)

// layoutCommand creates the layout command, which solves one view of a
// hierarchy and writes the scene as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [hierarchy.json|url|dir]",
		Short: "Solve the layout of one view and write the scene as JSON",
		Long: `Solve the layout of one view and write the scene as JSON.

The input is a hierarchy file produced by 'fetch', or a data source URL or
directory. The scene lists every domain and cell polygon with its fill,
opacity, label and badge, ready for any rendering surface.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			opts := flags.options(cmd, c.Config)
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), input, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute instead of reading the cache")
	flags.register(cmd, true)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	opts.Logger = c.Logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	forest, _, err := c.loadForest(ctx, runner, input, opts.Refresh)
	if err != nil {
		return fmt.Errorf("load %s: %w", inputLabel(input), err)
	}
	view, err := pipeline.View(forest, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Solving "+opts.Describe()+"...")
	spinner.Start()
	_, sc, hit, err := runner.SceneWithCacheInfo(ctx, view, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := sink.RenderJSON(sc,
		sink.WithJSONSource(opts.Source),
		sink.WithJSONDomain(opts.Domain),
		sink.WithJSONSeed(opts.Layout.Tessellation.Seed))
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase(input, opts) + ".scene.json"
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(pipeline.Stats{Domains: len(sc.Domains), Cells: len(sc.Cells), Attempts: sc.Attempts}, hit)
	if sc.Degraded {
		printWarning("Some domains stayed isolated after %d attempts", sc.Attempts)
	}
	printNewline()
	printNextStep("Render", "skillgraph render "+inputLabel(input)+" -f svg,png")
	return nil
}

// outputBase derives an output path prefix from the input and the view.
func outputBase(input string, opts pipeline.Options) string {
	base := appName
	if looksLikeHierarchyFile(input) {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	base += "-" + opts.Source
	if opts.Domain != "" {
		base += "-" + slug(opts.Domain)
	}
	return base
}

func inputLabel(input string) string {
	if input == "" {
		return "configured source"
	}
	return input
}

// slug lowercases s and replaces everything but letters and digits with "-".
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
