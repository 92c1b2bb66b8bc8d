package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"annotator/internal/model"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the available tasks and their models",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printTasks(os.Stdout, application.ListTasks())
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}

func printTasks(out io.Writer, tasks []model.TaskCatalogEntry) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tID\tNAME\tMODEL")
	fmt.Fprintln(w, "-\t--\t----\t-----")

	for i, task := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, task.ID, task.DisplayName, task.ModelIdentifier)
	}
	w.Flush()
}
