package cli

import (
	"strconv"

	"dayplan-cli/internal/store"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the master task library",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksRenameCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			tasks := store.NewTasks(app.client, app.ui(), app.recorder())
			if err := tasks.Load(cmd.Context()); err != nil {
				return err
			}
			tasks.SetQuery(query)
			return writeOut(cmd, app, tasks.Filtered())
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by title substring")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one library task with its template usage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			task, err := app.client.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, task)
		},
	}
}

func newTasksCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Add a task to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			tasks := store.NewTasks(app.client, app.ui(), app.recorder())
			created, err := tasks.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOut(cmd, app, created)
		},
	}
}

func newTasksRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a library task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			tasks := store.NewTasks(app.client, app.ui(), app.recorder())
			if err := tasks.Load(cmd.Context()); err != nil {
				return err
			}
			return tasks.Rename(cmd.Context(), id, args[1])
		},
	}
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a library task (warns when templates use it)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			tasks := store.NewTasks(app.client, app.ui(), app.recorder())
			if err := tasks.Load(cmd.Context()); err != nil {
				return err
			}
			return tasks.Delete(cmd.Context(), id)
		},
	}
}
