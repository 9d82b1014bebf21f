package bench

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"
)

func sampleReport() *Report {
	r := NewReport()
	r.Timestamp = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	r.Steps = []StepResult{
		{Name: "create", Iterations: 5, MedianMillis: 1.5, DOMOpsTotal: 9000},
	}
	return r
}

func TestReportEncodeRoundtrip(t *testing.T) {
	r := sampleReport()
	data, err := r.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var back Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(*r, back, cmp.AllowUnexported(StepResult{})); diff != "" {
		t.Errorf("roundtrip mismatch (-orig +decoded):\n%s", diff)
	}
}

func TestFileExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	e := &FileExporter{Path: path}

	if err := e.Export(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var back Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
	if len(back.Steps) != 1 || back.Steps[0].Name != "create" {
		t.Errorf("unexpected report content: %+v", back)
	}
}

type fakeS3 struct {
	bucket string
	key    string
	body   []byte
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = *in.Bucket
	f.key = *in.Key
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Exporter(t *testing.T) {
	fake := &fakeS3{}
	e := &S3Exporter{Client: fake, Bucket: "results"}

	if err := e.Export(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if fake.bucket != "results" {
		t.Errorf("bucket = %q, want results", fake.bucket)
	}
	if want := "rowbench/20260314-092653.json"; fake.key != want {
		t.Errorf("derived key = %q, want %q", fake.key, want)
	}
	var back Report
	if err := json.Unmarshal(fake.body, &back); err != nil {
		t.Fatalf("uploaded body is not valid JSON: %v", err)
	}
}

func TestS3ExporterExplicitKey(t *testing.T) {
	fake := &fakeS3{}
	e := &S3Exporter{Client: fake, Bucket: "results", Key: "nightly/latest.json"}

	if err := e.Export(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if fake.key != "nightly/latest.json" {
		t.Errorf("key = %q, want nightly/latest.json", fake.key)
	}
}

func TestS3ExporterWrapsClientError(t *testing.T) {
	cause := errors.New("access denied")
	e := &S3Exporter{Client: &fakeS3{err: cause}, Bucket: "results", Key: "k"}

	err := e.Export(context.Background(), sampleReport())
	if !errors.Is(err, cause) {
		t.Fatalf("error %v does not wrap the client error", err)
	}
	if !strings.Contains(err.Error(), "s3://results/k") {
		t.Errorf("error %v does not name the destination", err)
	}
}
