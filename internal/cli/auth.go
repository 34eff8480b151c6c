package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"dayplan-cli/internal/store"

	"github.com/spf13/cobra"
)

// promptPassword reads a password from stdin. Input is echoed; pass --password
// or pipe stdin in scripts.
func promptPassword(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return "", fmt.Errorf("no password given")
	}
	return strings.TrimSpace(sc.Text()), nil
}

func formErrorLines(errs map[string][]string) []string {
	var out []string
	for field, msgs := range errs {
		for _, m := range msgs {
			if field == "" {
				out = append(out, m)
			} else {
				out = append(out, field+": "+m)
			}
		}
	}
	return out
}

func newLoginCmd(app *App) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			if password == "" {
				var err error
				if password, err = promptPassword("Password"); err != nil {
					return err
				}
			}
			auth := store.NewAuth(app.client, app.ui(), app.recorder())
			if err := auth.Login(cmd.Context(), args[0], password); err != nil {
				for _, line := range formErrorLines(auth.FormErrors) {
					fmt.Fprintln(cmd.ErrOrStderr(), line)
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newSignupCmd(app *App) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			if password == "" {
				var err error
				if password, err = promptPassword("Password"); err != nil {
					return err
				}
			}
			auth := store.NewAuth(app.client, app.ui(), app.recorder())
			if err := auth.Signup(cmd.Context(), args[0], password); err != nil {
				for _, line := range formErrorLines(auth.FormErrors) {
					fmt.Fprintln(cmd.ErrOrStderr(), line)
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			auth := store.NewAuth(app.client, app.ui(), app.recorder())
			return auth.Logout(cmd.Context())
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			auth := store.NewAuth(app.client, app.ui(), app.recorder())
			if err := auth.Bootstrap(cmd.Context()); err != nil {
				return err
			}
			if !auth.Authenticated() {
				fmt.Fprintln(cmd.ErrOrStderr(), "not signed in")
				return store.ErrNotAuthenticated
			}
			return writeOut(cmd, app, auth.User())
		},
	}
}

func newPasswordCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change or reset the account password",
	}
	cmd.AddCommand(newPasswordChangeCmd(app))
	cmd.AddCommand(newPasswordResetRequestCmd(app))
	cmd.AddCommand(newPasswordResetCmd(app))
	return cmd
}

func newPasswordChangeCmd(app *App) *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "change",
		Short: "Change the password inside the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			var err error
			if current == "" {
				if current, err = promptPassword("Current password"); err != nil {
					return err
				}
			}
			if next == "" {
				if next, err = promptPassword("New password"); err != nil {
					return err
				}
			}
			auth := store.NewAuth(app.client, app.ui(), app.recorder())
			return auth.ChangePassword(cmd.Context(), current, next)
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "Current password (prompted when omitted)")
	cmd.Flags().StringVar(&next, "new", "", "New password (prompted when omitted)")
	return cmd
}

func newPasswordResetRequestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-request <email>",
		Short: "Ask the server to mail a password reset key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			auth := store.NewAuth(app.client, app.ui(), app.recorder())
			return auth.RequestPasswordReset(cmd.Context(), args[0])
		},
	}
}

func newPasswordResetCmd(app *App) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset <key>",
		Short: "Redeem a mailed reset key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			if password == "" {
				var err error
				if password, err = promptPassword("New password"); err != nil {
					return err
				}
			}
			auth := store.NewAuth(app.client, app.ui(), app.recorder())
			return auth.ConfirmPasswordReset(cmd.Context(), args[0], password)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "New password (prompted when omitted)")
	return cmd
}
