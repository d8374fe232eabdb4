package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	model "todo-list.com/todo-list/internal/models"
)

// terminalView renders task lists as a table.
type terminalView struct {
	out    io.Writer
	errOut io.Writer
}

func (v *terminalView) ShowTasks(tasks []model.Task) {
	v.render(tasks)
	fmt.Fprintf(v.out, "%d tasks\n", len(tasks))
}

func (v *terminalView) ShowFilteredTasks(query string, tasks []model.Task) {
	v.render(tasks)
	fmt.Fprintf(v.out, "%d tasks matching %q\n", len(tasks), query)
}

func (v *terminalView) ShowError(message string) {
	fmt.Fprintf(v.errOut, "error: %s\n", message)
}

func (v *terminalView) render(tasks []model.Task) {
	w := tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tTITLE\tDESCRIPTION\tCREATED")
	for _, t := range tasks {
		done := "[ ]"
		if t.IsCompleted {
			done = "[x]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, done, t.Title, t.Description, t.CreatedAt.Local().Format(time.DateTime))
	}
	_ = w.Flush()
}
