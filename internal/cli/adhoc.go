package cli

import (
	"fmt"
	"strconv"
	"time"

	"dayplan-cli/internal/store"

	"github.com/spf13/cobra"
)

func newAdhocCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adhoc",
		Short: "Manage adhoc tasks (due-dated, outside schedules)",
	}
	cmd.AddCommand(newAdhocListCmd(app))
	cmd.AddCommand(newAdhocAddCmd(app))
	cmd.AddCommand(newAdhocToggleCmd(app))
	cmd.AddCommand(newAdhocLabelCmd(app))
	cmd.AddCommand(newAdhocDeleteCmd(app))
	cmd.AddCommand(newAdhocMoveCmd(app))
	return cmd
}

// adhocForDate loads the adhoc store for a date ("" = today).
func adhocForDate(app *App, cmd *cobra.Command, date string) (*store.Adhoc, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	s := store.NewAdhoc(app.client, app.ui(), app.recorder())
	if err := s.LoadForDate(cmd.Context(), date); err != nil {
		return nil, err
	}
	return s, nil
}

func newAdhocListCmd(app *App) *cobra.Command {
	var date string
	var completed bool
	var labels []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List incomplete adhoc tasks, or tasks completed on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			s, err := adhocForDate(app, cmd, date)
			if err != nil {
				return err
			}
			if completed {
				return writeOut(cmd, app, s.Completed())
			}
			for _, id := range labels {
				s.ToggleLabelFilter(id)
			}
			return writeOut(cmd, app, s.FilteredIncomplete())
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date for the completed list (default today)")
	cmd.Flags().BoolVar(&completed, "completed", false, "Show tasks completed on the date instead")
	cmd.Flags().StringArrayVar(&labels, "label", nil, "Filter by label id (repeatable, OR semantics)")
	return cmd
}

func newAdhocAddCmd(app *App) *cobra.Command {
	var due, label string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an adhoc task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			if due == "" {
				due = time.Now().Format("2006-01-02")
			}
			s, err := adhocForDate(app, cmd, "")
			if err != nil {
				return err
			}
			created, err := s.Create(cmd.Context(), args[0], due, label)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, created)
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&label, "label", "", "Label id to attach")
	return cmd
}

func newAdhocToggleCmd(app *App) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Flip an adhoc task between done and not done",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			s, err := adhocForDate(app, cmd, date)
			if err != nil {
				return err
			}
			return s.Toggle(cmd.Context(), id)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date whose completed list holds the task (default today)")
	return cmd
}

func newAdhocLabelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label <id> [label-id]",
		Short: "Set or clear an adhoc task's label",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			labelID := ""
			if len(args) == 2 {
				labelID = args[1]
			}
			s, err := adhocForDate(app, cmd, "")
			if err != nil {
				return err
			}
			return s.SetLabel(cmd.Context(), id, labelID)
		},
	}
	return cmd
}

func newAdhocDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an adhoc task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			s, err := adhocForDate(app, cmd, "")
			if err != nil {
				return err
			}
			return s.Delete(cmd.Context(), id)
		},
	}
}

func newAdhocMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move an incomplete adhoc task between positions (1-based) and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			s, err := adhocForDate(app, cmd, "")
			if err != nil {
				return err
			}
			session := s.ReorderIncomplete(cmd.Context())
			session.Move(from-1, to-1)
			if !session.Dirty() {
				return fmt.Errorf("positions out of range or unchanged")
			}
			return session.Save()
		},
	}
}
