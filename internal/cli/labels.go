package cli

import (
	"dayplan-cli/internal/store"

	"github.com/spf13/cobra"
)

func newLabelsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Manage adhoc task labels",
	}
	cmd.AddCommand(newLabelsListCmd(app))
	cmd.AddCommand(newLabelsAddCmd(app))
	cmd.AddCommand(newLabelsUpdateCmd(app))
	cmd.AddCommand(newLabelsDeleteCmd(app))
	return cmd
}

func newLabelsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List labels alphabetically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			labels := store.NewLabels(app.client, app.ui(), app.recorder())
			if err := labels.Load(cmd.Context()); err != nil {
				return err
			}
			return writeOut(cmd, app, labels.All())
		},
	}
}

func newLabelsAddCmd(app *App) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			labels := store.NewLabels(app.client, app.ui(), app.recorder())
			if color == "" {
				color = store.Palette[0]
			}
			created, err := labels.Create(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, created)
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Hex color #RRGGBB (default first palette color)")
	return cmd
}

func newLabelsUpdateCmd(app *App) *cobra.Command {
	var name, color string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename and/or recolor a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			labels := store.NewLabels(app.client, app.ui(), app.recorder())
			if err := labels.Load(cmd.Context()); err != nil {
				return err
			}
			return labels.Update(cmd.Context(), args[0], name, color)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New hex color")
	return cmd
}

func newLabelsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a label; tagged tasks just lose the tag",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			labels := store.NewLabels(app.client, app.ui(), app.recorder())
			if err := labels.Load(cmd.Context()); err != nil {
				return err
			}
			return labels.Delete(cmd.Context(), args[0])
		},
	}
}
