package cli

import (
	"errors"
	"strconv"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/store"

	"github.com/spf13/cobra"
)

// dashboard wires the selected-date store with its collaborators for one
// command invocation.
func dashboard(app *App) *store.Dashboard {
	ui := app.ui()
	rec := app.recorder()
	templates := store.NewTemplates(app.client, ui, rec)
	adhoc := store.NewAdhoc(app.client, ui, rec)
	return store.NewDashboard(app.client, ui, rec, templates, adhoc)
}

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show and manage daily schedules",
	}
	cmd.AddCommand(newScheduleShowCmd(app))
	cmd.AddCommand(newScheduleTodayCmd(app))
	cmd.AddCommand(newScheduleListCmd(app))
	cmd.AddCommand(newScheduleCreateCmd(app))
	cmd.AddCommand(newScheduleDeleteCmd(app))
	cmd.AddCommand(newScheduleToggleCmd(app))
	return cmd
}

func newScheduleShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <date>",
		Short: "Show the schedule for a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			d := dashboard(app)
			if err := d.LoadDate(cmd.Context(), args[0]); err != nil {
				return err
			}
			if d.Schedule() == nil {
				return writeOut(cmd, app, map[string]any{"date": args[0], "exists": false})
			}
			return writeOut(cmd, app, d.Schedule())
		},
	}
}

func newScheduleTodayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's schedule (by the server's clock)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			sched, err := app.client.TodaySchedule(cmd.Context())
			if errors.Is(err, api.ErrNoSchedule) {
				return writeOut(cmd, app, map[string]any{"exists": false})
			}
			if err != nil {
				return err
			}
			return writeOut(cmd, app, sched)
		},
	}
}

func newScheduleListCmd(app *App) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedule summaries, optionally bounded by dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			summaries, err := app.client.ListSchedules(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, summaries)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Latest date (YYYY-MM-DD)")
	return cmd
}

func newScheduleCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create [date]",
		Short: "Materialize a date's schedule from its weekday's template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			d := dashboard(app)
			date := d.Today()
			if len(args) == 1 {
				date = args[0]
			}
			if err := d.LoadDate(cmd.Context(), date); err != nil {
				return err
			}
			if err := d.CreateSchedule(cmd.Context()); err != nil {
				return err
			}
			return writeOut(cmd, app, d.Schedule())
		},
	}
}

func newScheduleDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <date>",
		Aliases: []string{"rm"},
		Short:   "Delete a date's schedule and all its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			d := dashboard(app)
			if err := d.LoadDate(cmd.Context(), args[0]); err != nil {
				return err
			}
			return d.DeleteSchedule(cmd.Context())
		},
	}
}

func newScheduleToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <date> <task-id>",
		Short: "Flip a schedule task between done and not done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			taskID, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			d := dashboard(app)
			if err := d.LoadDate(cmd.Context(), args[0]); err != nil {
				return err
			}
			return d.ToggleTask(cmd.Context(), taskID)
		},
	}
}
