package bench

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rowbench-dev/rowbench/pkg/dom"
	"github.com/rowbench-dev/rowbench/pkg/reactive"
)

// Step is one measured benchmark operation. Setup prepares the table
// untimed; Action is the timed operation.
type Step struct {
	Name   string
	Setup  func(t *Table)
	Action func(t *Table)
}

// DefaultSteps returns the canonical operation schedule. rows is the
// standard table size (1 000 in the reference benchmark), largeRows the
// big-create size (10 000).
func DefaultSteps(rows, largeRows int) []Step {
	return []Step{
		{
			Name:   "create",
			Action: func(t *Table) { t.Create(rows) },
		},
		{
			Name:   "replace",
			Setup:  func(t *Table) { t.Create(rows) },
			Action: func(t *Table) { t.Create(rows) },
		},
		{
			Name:   "update",
			Setup:  func(t *Table) { t.Create(rows) },
			Action: func(t *Table) { t.UpdateEveryTenth() },
		},
		{
			Name:  "select",
			Setup: func(t *Table) { t.Create(rows) },
			Action: func(t *Table) {
				all := t.Rows()
				t.Select(all[len(all)/2].ID)
			},
		},
		{
			Name:   "swap",
			Setup:  func(t *Table) { t.Create(rows) },
			Action: func(t *Table) { t.Swap() },
		},
		{
			Name:  "remove",
			Setup: func(t *Table) { t.Create(rows) },
			Action: func(t *Table) {
				all := t.Rows()
				t.Remove(all[len(all)/2].ID)
			},
		},
		{
			Name:   "create-large",
			Action: func(t *Table) { t.Create(largeRows) },
		},
		{
			Name:   "append",
			Setup:  func(t *Table) { t.Create(rows) },
			Action: func(t *Table) { t.Append(rows) },
		},
		{
			Name:   "clear",
			Setup:  func(t *Table) { t.Create(rows) },
			Action: func(t *Table) { t.Clear() },
		},
	}
}

// Runner executes steps over fresh tables and aggregates timings.
type Runner struct {
	Warmup     int
	Iterations int
	Seed       int64
	Logger     *slog.Logger

	tracer trace.Tracer
}

// NewRunner creates a runner with the given iteration counts. A nil
// logger discards nothing; it defaults to slog.Default().
func NewRunner(warmup, iterations int, seed int64, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		Warmup:     warmup,
		Iterations: iterations,
		Seed:       seed,
		Logger:     logger,
		tracer:     otel.Tracer("rowbench"),
	}
}

// Run executes every step Warmup+Iterations times, each iteration on a
// fresh document and scope so steps cannot contaminate each other, and
// returns the aggregated report.
func (r *Runner) Run(ctx context.Context, steps []Step) (*Report, error) {
	if r.Iterations <= 0 {
		return nil, fmt.Errorf("bench: iterations must be positive, got %d", r.Iterations)
	}

	report := NewReport()
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("bench: canceled before step %s: %w", step.Name, err)
		}
		result := r.runStep(ctx, step)
		report.Steps = append(report.Steps, result)
		r.Logger.Info("step complete",
			"step", step.Name,
			"iterations", result.Iterations,
			"median_ms", result.MedianMillis,
			"dom_ops", result.DOMOpsTotal,
		)
	}
	return report, nil
}

func (r *Runner) runStep(ctx context.Context, step Step) StepResult {
	_, span := r.tracer.Start(ctx, "bench.step",
		trace.WithAttributes(attribute.String("bench.step", step.Name)))
	defer span.End()

	durations := make([]time.Duration, 0, r.Iterations)
	sink := &dom.CountingSink{}
	var ops map[string]uint64
	var opsTotal uint64

	total := r.Warmup + r.Iterations
	for i := 0; i < total; i++ {
		doc := dom.NewDocument()
		scope := reactive.NewScope(nil)
		table := NewTable(doc, scope, r.Seed+int64(i))

		if step.Setup != nil {
			step.Setup(table)
		}

		sink.Reset()
		doc.SetSink(sink)
		start := time.Now()
		step.Action(table)
		elapsed := time.Since(start)
		doc.SetSink(nil)

		if i >= r.Warmup {
			durations = append(durations, elapsed)
		}
		if i == total-1 {
			// DOM op counts are deterministic per step; keep the last
			// iteration's.
			ops = sink.Snapshot()
			opsTotal = sink.Total()
		}
		scope.Dispose()
	}

	result := aggregate(step.Name, durations)
	result.DOMOps = ops
	result.DOMOpsTotal = opsTotal
	span.SetAttributes(
		attribute.Int64("bench.median_ns", int64(result.median)),
		attribute.Int64("bench.dom_ops", int64(opsTotal)),
	)
	return result
}

// aggregate computes latency statistics over the sample.
func aggregate(name string, samples []time.Duration) StepResult {
	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	mean := time.Duration(0)
	if len(sorted) > 0 {
		mean = sum / time.Duration(len(sorted))
	}
	median := percentile(sorted, 50)

	return StepResult{
		Name:         name,
		Iterations:   len(sorted),
		MeanMillis:   toMillis(mean),
		MedianMillis: toMillis(median),
		P95Millis:    toMillis(percentile(sorted, 95)),
		P99Millis:    toMillis(percentile(sorted, 99)),
		MinMillis:    toMillis(first(sorted)),
		MaxMillis:    toMillis(last(sorted)),
		median:       median,
	}
}

// percentile returns the pth percentile of a sorted sample using
// nearest-rank.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

func first(sorted []time.Duration) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[0]
}

func last(sorted []time.Duration) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)-1]
}

func toMillis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
