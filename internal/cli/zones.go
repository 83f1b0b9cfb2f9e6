package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// zonesCommand creates the zones command for listing monitored zones.
func (c *CLI) zonesCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List or browse the monitored zones",
		Long: `Zones prints the monitored corn belt counties with their coordinates,
production weights, and tiers. With --interactive, a browser opens where
a zone can be selected; selecting one prints its name for piping into
other commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !interactive {
				printZoneTable(cfg.Zones)
				return nil
			}

			model := NewZoneListModel(cfg.Zones)
			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("zone browser: %w", err)
			}
			if m, ok := final.(ZoneListModel); ok && m.Selected != nil {
				fmt.Println(m.Selected.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse zones interactively")

	return cmd
}
