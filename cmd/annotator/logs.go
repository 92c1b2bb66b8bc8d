package main

import (
	"fmt"

	"annotator/internal/logger"

	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Manage the log files",
}

var logsClearCmd = &cobra.Command{
	Use:       "clear [info|warning|error]",
	Short:     "Truncate one log file, or all of them",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"info", "warning", "error"},
	RunE: func(cmd *cobra.Command, args []string) error {
		files := logger.LogFiles
		if len(args) == 1 {
			if err := cobra.OnlyValidArgs(cmd, args); err != nil {
				return err
			}
			files = []string{args[0] + ".log"}
		}

		for _, file := range files {
			if err := application.Logger().CleanLogs(file); err != nil {
				return fmt.Errorf("failed to clear %s: %w", file, err)
			}
		}
		return nil
	},
}

func init() {
	logsCmd.AddCommand(logsClearCmd)
	rootCmd.AddCommand(logsCmd)
}
