package cli

import (
	"fmt"
	"strconv"

	"dayplan-cli/internal/model"
	"dayplan-cli/internal/store"

	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage recurring templates",
	}
	cmd.AddCommand(newTemplatesListCmd(app))
	cmd.AddCommand(newTemplatesShowCmd(app))
	cmd.AddCommand(newTemplatesCreateCmd(app))
	cmd.AddCommand(newTemplatesDuplicateCmd(app))
	cmd.AddCommand(newTemplatesDeleteCmd(app))
	cmd.AddCommand(newTemplatesMoveCmd(app))
	cmd.AddCommand(newTemplatesWeekdaysCmd(app))
	return cmd
}

func newTemplatesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			templates := store.NewTemplates(app.client, app.ui(), app.recorder())
			if err := templates.Load(cmd.Context()); err != nil {
				return err
			}
			return writeOut(cmd, app, templates.All())
		},
	}
}

func newTemplatesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one template with its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			t, err := app.client.GetTemplate(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, t)
		},
	}
}

func newTemplatesCreateCmd(app *App) *cobra.Command {
	var title string
	var weekdays []string
	var taskIDs []int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a template from flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			for _, w := range weekdays {
				if !model.ValidWeekday(w) {
					return fmt.Errorf("invalid weekday %q (use %v)", w, model.Weekdays)
				}
			}
			templates := store.NewTemplates(app.client, app.ui(), app.recorder())
			if err := templates.Load(cmd.Context()); err != nil {
				return err
			}
			tasks := store.NewTasks(app.client, app.ui(), app.recorder())
			b := store.NewBuilder(app.client, app.ui(), templates, tasks)
			if err := b.Open(cmd.Context(), nil); err != nil {
				return err
			}
			b.SetName(title)
			for _, w := range weekdays {
				if !b.WeekdayAvailable(w) {
					return fmt.Errorf("weekday %s is already assigned to another template", w)
				}
				b.ToggleWeekday(w)
			}
			for _, id := range taskIDs {
				if _, ok := tasks.Find(id); !ok {
					return fmt.Errorf("task %d not found", id)
				}
				b.AddTask(id)
			}
			created, err := b.Save(cmd.Context())
			if err != nil {
				return err
			}
			if created == nil {
				return fmt.Errorf("template not saved")
			}
			return writeOut(cmd, app, created)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Template title")
	cmd.Flags().StringArrayVar(&weekdays, "weekday", nil, "Weekday to cover (repeatable)")
	cmd.Flags().IntSliceVar(&taskIDs, "task", nil, "Library task id to include, in order (repeatable)")
	return cmd
}

func newTemplatesDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a template's title and tasks (weekdays start unassigned)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			templates := store.NewTemplates(app.client, app.ui(), app.recorder())
			if err := templates.Load(cmd.Context()); err != nil {
				return err
			}
			created, err := templates.Duplicate(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, created)
		},
	}
}

func newTemplatesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a template (refused while schedules reference it)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			templates := store.NewTemplates(app.client, app.ui(), app.recorder())
			if err := templates.Load(cmd.Context()); err != nil {
				return err
			}
			return templates.Delete(cmd.Context(), id)
		},
	}
}

func newTemplatesMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <from> <to>",
		Short: "Move a template task between positions (1-based) and save",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return err
			}
			templates := store.NewTemplates(app.client, app.ui(), app.recorder())
			if err := templates.Load(cmd.Context()); err != nil {
				return err
			}
			session, err := templates.ReorderTasks(cmd.Context(), id)
			if err != nil {
				return err
			}
			session.Move(from-1, to-1)
			if !session.Dirty() {
				return fmt.Errorf("positions out of range or unchanged")
			}
			return session.Save()
		},
	}
}

func newTemplatesWeekdaysCmd(app *App) *cobra.Command {
	var exclude int
	cmd := &cobra.Command{
		Use:   "weekdays",
		Short: "List weekdays not yet claimed by a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			days, err := app.client.AvailableWeekdays(cmd.Context(), exclude)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, days)
		},
	}
	cmd.Flags().IntVar(&exclude, "exclude", 0, "Template id whose own weekdays stay available")
	return cmd
}
