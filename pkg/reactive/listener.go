package reactive

import "sync/atomic"

// Listener is anything notified when a value it read changes: effects and
// memos. Invalidate must be cheap; effects defer their re-run to the next
// scope flush, memos drop their cached value.
type Listener interface {
	Invalidate()
	ID() uint64
}

// Cleanup is returned by an effect body and runs before the effect's next
// run and on disposal.
type Cleanup func()

var idCounter atomic.Uint64

// nextID returns a process-unique ID for a reactive primitive.
func nextID() uint64 {
	return idCounter.Add(1)
}
