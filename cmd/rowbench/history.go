package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rowbench-dev/rowbench/internal/config"
	"github.com/rowbench-dev/rowbench/pkg/bench"
)

func historyCmd() *cobra.Command {
	var (
		path  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect stored benchmark reports",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "History database path (default from rowbench.json)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored reports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHistory(path)
			if err != nil {
				return err
			}
			defer h.Close()

			entries, err := h.List(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no reports stored")
				return nil
			}
			fmt.Printf("%5s  %-20s  %s\n", "seq", "timestamp", "steps")
			for _, e := range entries {
				fmt.Printf("%5d  %-20s  %d\n",
					e.Seq, e.Report.Timestamp.Format("2006-01-02 15:04:05"), len(e.Report.Steps))
			}
			return nil
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum entries to list (0 = all)")

	show := &cobra.Command{
		Use:   "show <seq>",
		Short: "Print one stored report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid sequence number %q", args[0])
			}
			h, err := openHistory(path)
			if err != nil {
				return err
			}
			defer h.Close()

			r, err := h.Get(seq)
			if err != nil {
				return err
			}
			data, err := r.Encode()
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func openHistory(path string) (*bench.History, error) {
	if path == "" {
		cfg, err := config.Load(".")
		if err != nil {
			return nil, err
		}
		path = cfg.Run.History
	}
	if path == "" {
		return nil, fmt.Errorf("no history database configured; pass --path or set run.history in %s", config.ConfigFileName)
	}
	return bench.OpenHistory(path)
}
