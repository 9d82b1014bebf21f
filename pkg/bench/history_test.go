package bench

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	t.Cleanup(func() {
		if err := h.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return h
}

func TestHistoryRoundtrip(t *testing.T) {
	h := openTestHistory(t)

	r := sampleReport()
	seq, err := h.Add(r)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if seq != 1 {
		t.Errorf("first seq = %d, want 1", seq)
	}

	got, err := h.Get(seq)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Timestamp.Equal(r.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, r.Timestamp)
	}
	if len(got.Steps) != 1 || got.Steps[0].Name != "create" {
		t.Errorf("unexpected stored report: %+v", got)
	}
}

func TestHistoryGetMissing(t *testing.T) {
	h := openTestHistory(t)

	if _, err := h.Get(7); !errors.Is(err, ErrNoReport) {
		t.Fatalf("Get missing = %v, want ErrNoReport", err)
	}
}

func TestHistoryListNewestFirst(t *testing.T) {
	h := openTestHistory(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		r := sampleReport()
		r.Timestamp = base.AddDate(0, 0, i)
		if _, err := h.Add(r); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}

	entries, err := h.List(3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	wantSeqs := []uint64{5, 4, 3}
	for i, e := range entries {
		if e.Seq != wantSeqs[i] {
			t.Errorf("entries[%d].Seq = %d, want %d", i, e.Seq, wantSeqs[i])
		}
	}
	if !entries[0].Report.Timestamp.After(entries[1].Report.Timestamp) {
		t.Error("entries are not newest first")
	}
}

func TestHistoryListAll(t *testing.T) {
	h := openTestHistory(t)

	for i := 0; i < 3; i++ {
		if _, err := h.Add(sampleReport()); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	entries, err := h.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("len(entries) = %d, want 3 with no limit", len(entries))
	}
}
