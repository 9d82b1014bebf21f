package main

import (
	"github.com/spf13/cobra"

	"github.com/rowbench-dev/rowbench/internal/config"
	"github.com/rowbench-dev/rowbench/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		seed      int64
		noMetrics bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the table live over WebSocket",
		Long: `Serve the table for interactive use. Each browser connection gets
its own table; commands are applied server-side and the resulting
patches stream back over the socket. Prometheus metrics are exposed
on /metrics.

Examples:
  rowbench serve
  rowbench serve --addr=:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Address
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Serve.Seed
			}

			srv := server.New(&server.Config{
				Address:        addr,
				Seed:           seed,
				Logger:         newLogger(verbose),
				DisableMetrics: noMetrics,
			})
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from rowbench.json)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Base seed for session label sequences")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Do not expose /metrics")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	return cmd
}
