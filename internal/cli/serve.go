package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cropsignal/cropsignal/internal/api"
	"github.com/cropsignal/cropsignal/pkg/monitor"
)

// serveCommand creates the serve command running the API and scheduler.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen      string
		hour        int
		simulate    bool
		noCache     bool
		noScheduler bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the daily sweep schedule",
		Long: `Serve starts the HTTP API and, unless --no-scheduler is given, a
background loop that sweeps all zones once a day. The API exposes manual
sweeps, zone listings, history export, and per-zone charts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			ctx := withLogger(cmd.Context(), c.Logger)
			st, err := c.buildStack(ctx, cfg, noCache, simulate)
			if err != nil {
				return err
			}
			defer st.close(ctx)

			runner := st.runner(cfg)
			srv := api.NewServer(*cfg, runner, st.store, st.notifier)

			c.Logger.Info("serving", "addr", cfg.Listen)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.ListenAndServe(gctx) })
			if !noScheduler {
				g.Go(func() error { return monitor.NewScheduler(runner, hour).Run(gctx) })
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().IntVar(&hour, "hour", monitor.DefaultSweepHour, "UTC hour for the daily sweep")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "use simulated NDVI instead of Sentinel Hub")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "serve the API without the daily sweep")

	return cmd
}
