package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"annotator/internal/app"

	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

// application is shared by subcommands; built in PersistentPreRunE.
var application *app.App

var rootCmd = &cobra.Command{
	Use:          "annotator",
	Short:        "Real-time YOLO overlays on camera frames",
	Long:         "Captures camera frames, runs a YOLO detection, segmentation, pose or classification model on each one and shows the annotated result.",
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		application, err = app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd.Context(), os.Stdin, os.Stdout, application)
	},
}

func Execute() {
	// The first Ctrl+C stops the current run after the frame in flight.
	// Signal handling is then restored so a second one terminates.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// execute runs the command tree and releases the application on every
// outcome, including commands that fail.
func execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if application != nil {
		application.Close()
		application = nil
	}
	return err
}
