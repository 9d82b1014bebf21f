package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/rowbench-dev/rowbench/internal/config"
	"github.com/rowbench-dev/rowbench/pkg/bench"
)

func runCmd() *cobra.Command {
	var (
		rows       int
		largeRows  int
		iterations int
		warmup     int
		seed       int64
		output     string
		history    string
		s3Bucket   string
		s3Key      string
		steps      []string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the benchmark schedule",
		Long: `Run every benchmark step and print the aggregated report.

Each step runs on a fresh table: warmup iterations are discarded, the
rest are aggregated into mean/median/p95/p99. DOM mutation counts per
step are included in the report.

Examples:
  rowbench run
  rowbench run --iterations=20 --output=report.json
  rowbench run --s3-bucket=bench-results`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rows") {
				rows = cfg.Run.Rows
			}
			if !cmd.Flags().Changed("large-rows") {
				largeRows = cfg.Run.LargeRows
			}
			if !cmd.Flags().Changed("iterations") {
				iterations = cfg.Run.Iterations
			}
			if !cmd.Flags().Changed("warmup") {
				warmup = cfg.Run.Warmup
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Run.Seed
			}
			if output == "" {
				output = cfg.Run.Output
			}
			if history == "" {
				history = cfg.Run.History
			}
			if s3Bucket == "" {
				s3Bucket = cfg.Run.S3Bucket
			}
			if s3Key == "" {
				s3Key = cfg.Run.S3Key
			}
			return runBench(cmd.Context(), runOptions{
				rows:       rows,
				largeRows:  largeRows,
				iterations: iterations,
				warmup:     warmup,
				seed:       seed,
				output:     output,
				history:    history,
				s3Bucket:   s3Bucket,
				s3Key:      s3Key,
				steps:      steps,
				verbose:    verbose,
			})
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 1000, "Standard table size")
	cmd.Flags().IntVar(&largeRows, "large-rows", 10000, "Large-create table size")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "Measured iterations per step")
	cmd.Flags().IntVar(&warmup, "warmup", 3, "Warmup iterations per step")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Label sequence seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the JSON report to this file")
	cmd.Flags().StringVar(&history, "history", "", "Append the report to this history database")
	cmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "Upload the report to this S3 bucket")
	cmd.Flags().StringVar(&s3Key, "s3-key", "", "S3 object key (default derived from timestamp)")
	cmd.Flags().StringSliceVar(&steps, "steps", nil, "Run only these steps (default all)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	return cmd
}

type runOptions struct {
	rows, largeRows    int
	iterations, warmup int
	seed               int64
	output, history    string
	s3Bucket, s3Key    string
	steps              []string
	verbose            bool
}

func runBench(ctx context.Context, opts runOptions) error {
	logger := newLogger(opts.verbose)

	steps := bench.DefaultSteps(opts.rows, opts.largeRows)
	if len(opts.steps) > 0 {
		filtered, err := filterSteps(steps, opts.steps)
		if err != nil {
			return err
		}
		steps = filtered
	}

	runner := bench.NewRunner(opts.warmup, opts.iterations, opts.seed, logger)
	report, err := runner.Run(ctx, steps)
	if err != nil {
		return err
	}

	printReport(report)

	if opts.output != "" {
		exp := &bench.FileExporter{Path: opts.output}
		if err := exp.Export(ctx, report); err != nil {
			return err
		}
		logger.Info("report written", "path", opts.output)
	}

	if opts.history != "" {
		h, err := bench.OpenHistory(opts.history)
		if err != nil {
			return err
		}
		defer h.Close()
		seq, err := h.Add(report)
		if err != nil {
			return err
		}
		logger.Info("report stored", "history", opts.history, "seq", seq)
	}

	if opts.s3Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("load aws config: %w", err)
		}
		exp := &bench.S3Exporter{
			Client: s3.NewFromConfig(awsCfg),
			Bucket: opts.s3Bucket,
			Key:    opts.s3Key,
		}
		if err := exp.Export(ctx, report); err != nil {
			return err
		}
		logger.Info("report uploaded", "bucket", opts.s3Bucket)
	}

	return nil
}

func filterSteps(all []bench.Step, names []string) ([]bench.Step, error) {
	byName := make(map[string]bench.Step, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}
	out := make([]bench.Step, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown step %q", name)
		}
		out = append(out, s)
	}
	return out, nil
}

func printReport(r *bench.Report) {
	fmt.Printf("%-14s %6s %10s %10s %10s %10s %10s\n",
		"step", "iters", "mean ms", "median ms", "p95 ms", "p99 ms", "dom ops")
	for _, s := range r.Steps {
		fmt.Printf("%-14s %6d %10.3f %10.3f %10.3f %10.3f %10d\n",
			s.Name, s.Iterations, s.MeanMillis, s.MedianMillis, s.P95Millis, s.P99Millis, s.DOMOpsTotal)
	}
}
