package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cropsignal/cropsignal/pkg/history"
	"github.com/cropsignal/cropsignal/pkg/monitor"
	"github.com/cropsignal/cropsignal/pkg/observability"
)

// sweepCommand creates the sweep command, the CLI's main entry point.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		force    bool
		refresh  bool
		simulate bool
		noCache  bool
		dateStr  string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Fetch NDVI for every zone and alert on crop stress",
		Long: `Sweep fetches the latest NDVI for every configured zone, compares it
against the zone's history and the expected value for the current growth
stage, records the observation, and delivers alerts for stressed zones.

Outside the growing season (roughly May through mid-September) a sweep
is a no-op unless --force is given. Satellite responses are cached; use
--refresh to bypass the cache for this run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := monitor.Options{Force: force, Refresh: refresh}
			if dateStr != "" {
				date, err := time.Parse(history.DateFormat, dateStr)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", dateStr)
				}
				opts.Date = date
			}
			return c.runSweep(cmd, opts, noCache, simulate)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "run outside the season and bypass alert cooldowns")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the satellite fetch cache")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "use simulated NDVI instead of Sentinel Hub")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&dateStr, "date", "", "observation date (YYYY-MM-DD, default today)")

	return cmd
}

func (c *CLI) runSweep(cmd *cobra.Command, opts monitor.Options, noCache, simulate bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	ctx := withLogger(cmd.Context(), c.Logger)
	st, err := c.buildStack(ctx, cfg, noCache, simulate)
	if err != nil {
		return err
	}
	defer st.close(ctx)

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Sweeping %d zones...", len(cfg.Zones)))
	observability.SetSweepHooks(&spinnerHooks{spinner: spinner, total: len(cfg.Zones)})
	defer observability.Reset()
	spinner.Start()

	res, err := st.runner(cfg).Sweep(ctx, opts)
	if err != nil {
		spinner.StopWithError("Sweep failed")
		return err
	}
	spinner.Stop()

	if res.OutOfSeason {
		printInfo("Outside the growing season, nothing to do (use --force to run anyway)")
		return nil
	}

	prog.done(fmt.Sprintf("Swept %d zones", len(res.Observations)))
	printSweepResult(res)
	if len(res.Alerts) == 0 {
		printNextStep("Inspect a zone", fmt.Sprintf("%s history chart %q", appName, cfg.Zones[0].Name))
	}
	return nil
}

// spinnerHooks feeds per-zone sweep progress into the spinner.
type spinnerHooks struct {
	observability.NoopSweepHooks
	spinner *Spinner
	total   int
	seen    int
}

func (h *spinnerHooks) OnZoneObserved(ctx context.Context, zone string, ndvi float64, alerted bool) {
	h.seen++
	h.spinner.SetMessage(fmt.Sprintf("Observed %s (%d/%d)...", zone, h.seen, h.total))
}

// printSweepResult prints the per-zone table and summary for a sweep.
func printSweepResult(res *monitor.Result) {
	printNewline()
	for _, obs := range res.Observations {
		printObservation(obs)
	}
	printNewline()
	printKeyValue("observed", fmt.Sprintf("%d zones", len(res.Observations)))
	if len(res.Skipped) > 0 {
		printKeyValue("skipped", fmt.Sprintf("%d zones", len(res.Skipped)))
		for _, s := range res.Skipped {
			printDetail("%s", s)
		}
	}
	printKeyValue("alerts", fmt.Sprintf("%d", len(res.Alerts)))
	printKeyValue("stress", fmt.Sprintf("%+.2f weighted z", res.StressIndex))

	for _, a := range res.Alerts {
		printWarning("%s: NDVI %.2f below %.2f (%s, %s)", a.Zone, a.NDVI, a.Expected, a.Stage, a.Severity)
	}
}
