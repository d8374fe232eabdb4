package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	model "todo-list.com/todo-list/internal/models"
	"todo-list.com/todo-list/internal/presenters"
)

// withPresenter builds the app and a presenter bound to a terminal view for
// the duration of fn.
func withPresenter(cmd *cobra.Command, fn func(a *app, p *presenters.TaskListPresenter) error) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	view := &terminalView{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	p := presenters.NewTaskListPresenter(view, a.store, a.importer)
	defer p.Close()

	return fn(a, p)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, newest first",
	Long:  "Lists all tasks. On the very first run the demo tasks are imported first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPresenter(cmd, func(a *app, p *presenters.TaskListPresenter) error {
			p.ViewDidLoad(cmd.Context())
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Show tasks whose title or description contains text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPresenter(cmd, func(a *app, p *presenters.TaskListPresenter) error {
			p.Search(cmd.Context(), args[0])
			return nil
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add <title> [description]",
	Short: "Create a task",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPresenter(cmd, func(a *app, p *presenters.TaskListPresenter) error {
			return p.AddTask(cmd.Context(), args[0], optionalArg(args, 1))
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id> <title> [description]",
	Short: "Change a task's title and description",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPresenter(cmd, func(a *app, p *presenters.TaskListPresenter) error {
			return p.EditTask(cmd.Context(), args[0], args[1], optionalArg(args, 2))
		})
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Mark a task done, or not done again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPresenter(cmd, func(a *app, p *presenters.TaskListPresenter) error {
			return p.ToggleTask(cmd.Context(), args[0])
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPresenter(cmd, func(a *app, p *presenters.TaskListPresenter) error {
			return p.DeleteTask(cmd.Context(), args[0])
		})
	},
}

var shareCmd = &cobra.Command{
	Use:   "share <id>",
	Short: "Print a task as shareable text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPresenter(cmd, func(a *app, p *presenters.TaskListPresenter) error {
			task, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), model.ShareText(task))
			return nil
		})
	},
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func init() {
	rootCmd.AddCommand(listCmd, searchCmd, addCmd, editCmd, toggleCmd, deleteCmd, shareCmd)
}
