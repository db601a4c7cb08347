package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgraph/pkg/hierarchy"
)

// fetchCommand creates the fetch command, which turns the raw data files into
// a hierarchy file.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "fetch [url|dir]",
		Short: "Load the data files and aggregate them into role and skill hierarchies",
		Long: `Load the category index, the entity index and every entity detail file from a
URL or a local directory, and aggregate them into role and skill hierarchies.

Without an argument the base from the [source] config section is used. Any
failed file aborts the whole load. Responses and the aggregated result are
cached locally.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var base string
			if len(args) == 1 {
				base = args[0]
			}
			return c.runFetch(cmd.Context(), base, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "hierarchy.json", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached data and refetch")

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, base, output string, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	src, err := c.newSource(base, runner.Cache)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Fetching "+src.Base()+"...")
	spinner.Start()

	forest, hit, err := runner.LoadWithCacheInfo(ctx, src, src.Base(), refresh)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return fmt.Errorf("fetch %s: %w", src.Base(), err)
	}
	spinner.Stop()
	prog.lap("fetched", "base", src.Base(), "cached", hit)

	if err := hierarchy.WriteForestFile(forest, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	origin := "fresh"
	if hit {
		origin = "cached"
	}
	printSuccess("Hierarchies ready (%s)", origin)
	printFile(output)
	printForest(forest)
	printNewline()
	printNextStep("Render", "skillgraph render "+output)
	return nil
}
