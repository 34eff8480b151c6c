package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"dayplan-cli/internal/activity"
	"dayplan-cli/internal/api"
	"dayplan-cli/internal/config"
	"dayplan-cli/internal/format"
	"dayplan-cli/internal/store"
	"dayplan-cli/internal/tui"

	"github.com/spf13/cobra"
)

// App carries the persistent flags plus the lazily-built client and stores
// shared by all commands.
type App struct {
	Server     string
	Session    string
	PrettyJSON bool
	Yes        bool
	Debug      bool

	cfg    *config.Config
	client *api.Client
	log    *activity.Log
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "dayplan",
		Short:        "Terminal client for a dayplan task-scheduling server",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  dayplan

  # Sign in (prompts for the password)
  dayplan login you@example.org

  # Scriptable commands
  dayplan schedule today
  dayplan adhoc add "Buy stamps" --due 2026-09-01
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Close()
		}
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("DAYPLAN_SERVER", ""), "Server base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Session, "session", envOr("DAYPLAN_SESSION", ""), "Session file path (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVarP(&app.Yes, "yes", "y", false, "Answer yes to confirmation prompts")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log requests to stderr")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newSignupCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newPasswordCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newTemplatesCmd(app))
	cmd.AddCommand(newScheduleCmd(app))
	cmd.AddCommand(newAdhocCmd(app))
	cmd.AddCommand(newLabelsCmd(app))
	cmd.AddCommand(newProfileCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newActivityCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup resolves config and builds the API client once per invocation.
func (app *App) setup() error {
	if app.client != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if app.Server != "" {
		cfg.ServerURL = app.Server
	}
	if app.Session != "" {
		cfg.SessionFile = app.Session
	}
	if app.Debug {
		cfg.Debug = true
	}
	app.cfg = cfg

	logf := func(string, ...any) {}
	if cfg.Debug {
		logf = func(f string, args ...any) { fmt.Fprintf(os.Stderr, f+"\n", args...) }
	}
	client, err := api.New(api.Options{
		ServerURL:   cfg.ServerURL,
		SessionFile: cfg.SessionFile,
		Logf:        logf,
	})
	if err != nil {
		return err
	}
	app.client = client

	if l, err := activity.Open(cfg.ActivityFile); err == nil {
		app.log = l
	}
	return nil
}

// recorder returns the activity log as a store Recorder (nil when the log
// failed to open; stores tolerate that).
func (app *App) recorder() store.Recorder {
	if app.log == nil {
		return nil
	}
	return app.log
}

func runTUI(app *App) error {
	if err := app.setup(); err != nil {
		return err
	}
	return tui.Run(app.client, app.recorder())
}

// terminalUI answers store notifications on the command line: toasts to
// stderr, confirmations as y/N prompts (auto-yes with --yes).
type terminalUI struct {
	yes bool
}

func (u terminalUI) Toast(kind store.ToastKind, msg string) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", kind, msg)
}

func (u terminalUI) Confirm(title, body string) bool {
	if u.yes {
		return true
	}
	fmt.Fprintf(os.Stderr, "%s: %s [y/N] ", title, body)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	ans := strings.ToLower(strings.TrimSpace(sc.Text()))
	return ans == "y" || ans == "yes"
}

func (app *App) ui() store.UI {
	return terminalUI{yes: app.Yes}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}
