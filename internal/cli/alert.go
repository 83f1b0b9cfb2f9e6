package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cropsignal/cropsignal/pkg/alert"
	"github.com/cropsignal/cropsignal/pkg/errors"
	"github.com/cropsignal/cropsignal/pkg/monitor"
)

// alertCommand creates the alert command group.
func (c *CLI) alertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage alert channels",
	}

	cmd.AddCommand(c.alertTestCommand())

	return cmd
}

// alertTestCommand creates the "alert test" subcommand, pushing a
// synthetic alert through every configured channel.
func (c *CLI) alertTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test alert through the configured channels",
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

			if st.notifier == nil {
				return errors.New(errors.ErrCodeInvalidConfig,
					"no alert channels configured: set TELEGRAM_TOKEN/TELEGRAM_CHAT_ID or WEBHOOK_URL")
			}

			now := time.Now().UTC()
			stage := monitor.StageFor(now)
			a := alert.Alert{
				Zone:     "Test zone",
				Tier:     "small producer",
				Severity: alert.SeverityWatch,
				Date:     now,
				NDVI:     0.42,
				Expected: stage.MinNDVI,
				Anomaly:  -18.0,
				ZScore:   -1.6,
				Delta7d:  -0.12,
				Stage:    stage.Name,
				Message:  "Delivery test, no action needed.",
			}

			spinner := newSpinnerWithContext(ctx, "Sending test alert...")
			spinner.Start()
			if err := st.notifier.Notify(ctx, a); err != nil {
				spinner.StopWithError("Delivery failed")
				return err
			}
			spinner.StopWithSuccess("Test alert delivered")
			return nil
		},
	}
}
