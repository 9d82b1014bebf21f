package bench

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const historyBucket = "reports"

// ErrNoReport is returned when the requested history entry does not exist.
var ErrNoReport = errors.New("bench: no such report")

// History is a local, append-only store of past reports.
type History struct {
	db *bolt.DB
}

// HistoryEntry pairs a stored report with its sequence number.
type HistoryEntry struct {
	Seq    uint64
	Report *Report
}

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*History, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bench: open history %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bench: init history: %w", err)
	}
	return &History{db: db}, nil
}

// Close releases the database.
func (h *History) Close() error {
	return h.db.Close()
}

// Add appends a report and returns its sequence number.
func (h *History) Add(r *Report) (uint64, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("bench: encode history entry: %w", err)
	}
	var seq uint64
	err = h.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(historyBucket))
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), data)
	})
	if err != nil {
		return 0, fmt.Errorf("bench: store history entry: %w", err)
	}
	return seq, nil
}

// Get returns the report with the given sequence number.
func (h *History) Get(seq uint64) (*Report, error) {
	var r Report
	err := h.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(historyBucket)).Get(marshalSeq(seq))
		if v == nil {
			return ErrNoReport
		}
		return json.Unmarshal(v, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (h *History) List(limit int) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := h.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(historyBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var r Report
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("bench: decode history entry %d: %w", unmarshalSeq(k), err)
			}
			entries = append(entries, HistoryEntry{Seq: unmarshalSeq(k), Report: &r})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func marshalSeq(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

func unmarshalSeq(k []byte) uint64 {
	return binary.BigEndian.Uint64(k)
}
