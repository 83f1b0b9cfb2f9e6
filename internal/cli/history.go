package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cropsignal/cropsignal/pkg/chart"
	"github.com/cropsignal/cropsignal/pkg/history"
	"github.com/cropsignal/cropsignal/pkg/monitor"
)

// historyCommand creates the history command group.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show, export, or chart recorded observations",
	}

	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyExportCommand())
	cmd.AddCommand(c.historyChartCommand())

	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	var zoneName string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print recorded observations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			st, err := c.buildStack(ctx, cfg, true, true)
			if err != nil {
				return err
			}
			defer st.close(ctx)

			var recs []history.Record
			if zoneName != "" {
				recs, err = st.store.Zone(ctx, zoneName)
			} else {
				recs, err = st.store.All(ctx)
			}
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No observations recorded yet")
				return nil
			}

			for _, r := range recs {
				state := ""
				if r.Alerted {
					state = styleStressed.Render("  ALERT")
				}
				fmt.Printf("  %s  %-22s %s%s\n",
					StyleDim.Render(r.Date.Format(history.DateFormat)),
					r.Zone,
					StyleValue.Render(fmt.Sprintf("NDVI %.2f  %+.1f%%  z%+.2f", r.NDVI, r.Anomaly, r.ZScore)),
					state)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&zoneName, "zone", "", "limit to one zone")

	return cmd
}

// historyExportCommand creates the "history export" subcommand.
func (c *CLI) historyExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all observations as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			st, err := c.buildStack(ctx, cfg, true, true)
			if err != nil {
				return err
			}
			defer st.close(ctx)

			recs, err := st.store.All(ctx)
			if err != nil {
				return err
			}
			out, err := history.ExportCSV(recs)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				fmt.Print(string(out))
				return nil
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return err
			}
			printSuccess("Exported %d observations", len(recs))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// historyChartCommand creates the "history chart" subcommand.
func (c *CLI) historyChartCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "chart <zone>",
		Short: "Render a zone's NDVI history as SVG or PNG",
		Long: `Chart renders a zone's NDVI history against the current growth-stage
threshold. The output format follows the file extension: .svg or .png
(default chart.svg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			zone, ok := cfg.Zone(args[0])
			if !ok {
				return fmt.Errorf("unknown zone %q", args[0])
			}

			ctx := withLogger(cmd.Context(), c.Logger)
			st, err := c.buildStack(ctx, cfg, true, true)
			if err != nil {
				return err
			}
			defer st.close(ctx)

			recs, err := st.store.Zone(ctx, zone.Name)
			if err != nil {
				return err
			}

			stage := monitor.StageFor(time.Now().UTC())
			series := chart.SeriesFromRecords(zone.Name, recs, stage.MinNDVI)

			if output == "" {
				output = "chart.svg"
			}
			var data []byte
			switch {
			case strings.HasSuffix(output, ".png"):
				data, err = chart.RenderLinePNG(series)
				if err != nil {
					return err
				}
			case strings.HasSuffix(output, ".svg"):
				data = chart.RenderLineSVG(series, chart.WithGrid())
			default:
				return fmt.Errorf("unsupported output %q, want .svg or .png", output)
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Charted %d observations for %s", len(series.Points), zone.Name)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.svg or .png)")

	return cmd
}
