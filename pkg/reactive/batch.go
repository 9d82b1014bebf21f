package reactive

// Batch groups signal writes so each affected listener is invalidated
// once, when the outermost batch closes. Every benchmark operation wraps
// its mutations in one batch: one logical update, one invalidation per
// listener, one reconcile on the next flush.
//
// Batches nest; only the outermost close delivers notifications.
func Batch(fn func()) {
	st := state()
	st.batchDepth++
	defer func() {
		st.batchDepth--
		if st.batchDepth == 0 {
			deliverQueued(st)
		}
	}()
	fn()
}

// deliverQueued invalidates the queued listeners, deduplicated by ID.
// Memo invalidation may queue further listeners; loop until drained.
func deliverQueued(st *trackState) {
	seen := make(map[uint64]bool)
	for len(st.queued) > 0 {
		queued := st.queued
		st.queued = nil
		for _, l := range queued {
			if seen[l.ID()] {
				continue
			}
			seen[l.ID()] = true
			l.Invalidate()
		}
	}
}
