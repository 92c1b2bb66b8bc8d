package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"annotator/internal/service"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Run one task until the window is closed with the quit key",
	Long:  "Runs detection, segmentation, pose or classification on the configured camera. Task may be the id or its menu number.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := resolveTask(args[0], application.ListTasks())
		stats, err := application.RunTask(cmd.Context(), id)
		printStats(os.Stdout, stats)
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func printStats(out io.Writer, stats service.Stats) {
	if stats.RunID == "" {
		return
	}
	fmt.Fprintf(out, "📊 %s: %d frames in %s (%.1f fps)\n", stats.Task, stats.Frames, stats.Duration.Round(time.Millisecond), stats.FPS())
	if failures := stats.InferenceFailures + stats.DecodeFailures + stats.RenderFailures; failures > 0 {
		fmt.Fprintf(out, "⚠️  %d frames shown without overlay (inference %d, decode %d, render %d)\n",
			failures, stats.InferenceFailures, stats.DecodeFailures, stats.RenderFailures)
	}
}
