package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-template task completion rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			stats, err := app.client.CompletionStats(cmd.Context())
			if err != nil {
				return err
			}
			return writeOut(cmd, app, stats)
		},
	}
}
