package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the local log of mutations this client performed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			if app.log == nil {
				return fmt.Errorf("activity log unavailable")
			}
			entries, err := app.log.Tail(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Max entries (0 = all)")
	return cmd
}
