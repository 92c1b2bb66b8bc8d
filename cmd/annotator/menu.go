package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"annotator/internal/model"
	"annotator/internal/service"

	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Choose tasks from a numbered menu (default command)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd.Context(), os.Stdin, os.Stdout, application)
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

type taskRunner interface {
	ListTasks() []model.TaskCatalogEntry
	RunTask(ctx context.Context, id string) (service.Stats, error)
}

// resolveTask maps a menu number to its task id. Anything else is passed
// through unchanged for the selector to validate.
func resolveTask(input string, tasks []model.TaskCatalogEntry) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(tasks) {
		return string(tasks[n-1].ID)
	}
	return input
}

// runMenu shows the numbered task menu until the exit option, end of input
// or cancellation of ctx. Run failures are reported and the menu is shown again.
func runMenu(ctx context.Context, in io.Reader, out io.Writer, runner taskRunner) error {
	tasks := runner.ListTasks()
	exit := strconv.Itoa(len(tasks) + 1)
	scanner := bufio.NewScanner(in)

	for ctx.Err() == nil {
		fmt.Fprintln(out, "\nSeleccione el tipo de procesamiento:")
		for i, task := range tasks {
			fmt.Fprintf(out, "%d. %s\n", i+1, task.DisplayName)
		}
		fmt.Fprintf(out, "%s. Salir\n", exit)
		fmt.Fprintf(out, "Ingrese su opción (1-%s): ", exit)

		if !scanner.Scan() {
			return scanner.Err()
		}
		// Ctrl+C while waiting for input
		if ctx.Err() != nil {
			return nil
		}
		choice := strings.TrimSpace(scanner.Text())
		if choice == exit {
			return nil
		}

		stats, err := runner.RunTask(ctx, resolveTask(choice, tasks))
		printStats(out, stats)
		if ctx.Err() != nil {
			return nil
		}

		var invalid *service.InvalidTaskError
		var loadErr *service.ModelLoadError
		var unavailable *service.SourceUnavailableError
		var acquisition *service.AcquisitionError
		switch {
		case err == nil:
		case errors.As(err, &invalid):
			fmt.Fprintln(out, "Opción no válida. Por favor, intente de nuevo.")
		case errors.As(err, &loadErr):
			fmt.Fprintf(out, "❌ No se pudo cargar el modelo: %v\n", loadErr)
		case errors.As(err, &unavailable):
			fmt.Fprintf(out, "❌ Dispositivo no disponible: %v\n", unavailable)
		case errors.As(err, &acquisition):
			fmt.Fprintf(out, "❌ No se pudo leer el frame: %v\n", acquisition)
		default:
			return err
		}
	}
	return nil
}
