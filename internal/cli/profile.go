package cli

import (
	"fmt"

	"dayplan-cli/internal/store"

	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit the account profile",
	}
	cmd.AddCommand(newProfileShowCmd(app))
	cmd.AddCommand(newProfileUpdateCmd(app))
	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			p := store.NewProfile(app.client, app.ui(), app.recorder())
			if err := p.Load(cmd.Context()); err != nil {
				return err
			}
			return writeOut(cmd, app, p.Current())
		},
	}
}

func newProfileUpdateCmd(app *App) *cobra.Command {
	var first, last, avatar, email string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields; only flags you pass are sent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			p := store.NewProfile(app.client, app.ui(), app.recorder())
			if err := p.Load(cmd.Context()); err != nil {
				return err
			}
			cur := p.Current()
			if cmd.Flags().Changed("first-name") {
				cur.FirstName = first
			}
			if cmd.Flags().Changed("last-name") {
				cur.LastName = last
			}
			if cmd.Flags().Changed("avatar") {
				cur.Avatar = avatar
			}
			if cmd.Flags().Changed("email") {
				cur.Email = email
			}
			if err := p.Save(cmd.Context()); err != nil {
				for field, msg := range p.FieldErrors {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
				}
				return err
			}
			return writeOut(cmd, app, p.Current())
		},
	}
	cmd.Flags().StringVar(&first, "first-name", "", "First name")
	cmd.Flags().StringVar(&last, "last-name", "", "Last name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	cmd.Flags().StringVar(&email, "email", "", "New email (two-step change; aborts the save when refused)")
	return cmd
}
