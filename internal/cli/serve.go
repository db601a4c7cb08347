package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgraph/internal/server"
	"github.com/matzehuels/skillgraph/pkg/storage"
)

// serveCommand creates the dashboard API server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noCache  bool
		allowAll bool
	)

	cmd := &cobra.Command{
		Use:   "serve [hierarchy.json|url|dir]",
		Short: "Serve the skill graph over HTTP for dashboards",
		Long: `Serve the skill graph over HTTP for dashboards.

Dashboards create a view session, forward region and background clicks to it,
and draw the scene each response carries. Layouts can also be solved once and
saved; they are kept in MongoDB when [storage] mongo_uri is set, in memory
otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if allowAll {
				c.Config.Server.AllowAllOrigins = true
			}
			return c.runServe(cmd.Context(), input, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&allowAll, "allow-all-origins", false, "accept cross-origin requests from any origin")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	loader, base, err := c.newLoader(runner, input)
	if err != nil {
		return err
	}

	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(closeCtx)
	}()

	cfg := c.Config
	srv, err := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		AllowAllOrigins: cfg.Server.AllowAllOrigins,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Source:          loader,
		Base:            base,
		Runner:          runner,
		Layout:          cfg.LayoutOptions(),
		Store:           store,
		Logger:          c.Logger,
	})
	if err != nil {
		return err
	}
	if err := srv.WaitReady(ctx); err != nil {
		return err
	}

	printSuccess("Serving skill graph")
	printKeyValue("Address", cfg.Server.Addr)
	printKeyValue("Data", base)
	if cfg.Storage.MongoURI != "" {
		printKeyValue("Layouts", "mongodb/"+cfg.Storage.Database)
	} else {
		printKeyValue("Layouts", "memory")
	}
	printNewline()

	return srv.Run(ctx)
}

// newStore opens the configured layout store.
func (c *CLI) newStore(ctx context.Context) (storage.Store, error) {
	sc := c.Config.Storage
	if sc.MongoURI == "" {
		return storage.NewMemoryStore(), nil
	}
	return storage.NewMongoStore(ctx, sc.MongoURI, sc.Database)
}
