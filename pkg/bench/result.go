package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// StepResult holds the aggregated timings and DOM-mutation counts for
// one benchmark step.
type StepResult struct {
	Name         string            `json:"name"`
	Iterations   int               `json:"iterations"`
	MeanMillis   float64           `json:"mean_ms"`
	MedianMillis float64           `json:"median_ms"`
	P95Millis    float64           `json:"p95_ms"`
	P99Millis    float64           `json:"p99_ms"`
	MinMillis    float64           `json:"min_ms"`
	MaxMillis    float64           `json:"max_ms"`
	DOMOps       map[string]uint64 `json:"dom_ops,omitempty"`
	DOMOpsTotal  uint64            `json:"dom_ops_total"`

	median time.Duration
}

// Report is one full benchmark run.
type Report struct {
	Timestamp time.Time    `json:"timestamp"`
	GoVersion string       `json:"go_version"`
	GOOS      string       `json:"goos"`
	GOARCH    string       `json:"goarch"`
	Steps     []StepResult `json:"steps"`
}

// NewReport creates an empty report stamped with the current time and
// build platform.
func NewReport() *Report {
	return &Report{
		Timestamp: time.Now().UTC(),
		GoVersion: runtime.Version(),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
	}
}

// Encode returns the report as indented JSON.
func (r *Report) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("bench: encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// Exporter publishes a finished report somewhere.
type Exporter interface {
	Export(ctx context.Context, r *Report) error
}

// FileExporter writes the report as JSON to a local path.
type FileExporter struct {
	Path string
}

// Export implements Exporter.
func (e *FileExporter) Export(_ context.Context, r *Report) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(e.Path, data, 0o644); err != nil {
		return fmt.Errorf("bench: write report: %w", err)
	}
	return nil
}

// S3PutAPI is the slice of the S3 client the exporter needs.
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Exporter uploads the report JSON to an S3 object. An empty Key
// derives one from the report timestamp.
type S3Exporter struct {
	Client S3PutAPI
	Bucket string
	Key    string
}

// Export implements Exporter.
func (e *S3Exporter) Export(ctx context.Context, r *Report) error {
	key := e.Key
	if key == "" {
		key = fmt.Sprintf("rowbench/%s.json", r.Timestamp.Format("20060102-150405"))
	}
	data, err := r.Encode()
	if err != nil {
		return err
	}
	_, err = e.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("bench: upload report to s3://%s/%s: %w", e.Bucket, key, err)
	}
	return nil
}
