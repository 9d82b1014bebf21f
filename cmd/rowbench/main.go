package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rowbench",
		Short: "Keyed-table benchmark for the row reconciler",
		Long: `Rowbench measures how cheaply an ordered keyed table can be kept in
sync with its rendered form. It drives the canonical row operations
(create, append, update every tenth, select, swap, remove, clear)
against a server-side document and reports timings and mutation counts.

Two modes are available:

  run     execute the benchmark schedule and print a report
  serve   host the table live over WebSocket for browser inspection`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		serveCmd(),
		historyCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
