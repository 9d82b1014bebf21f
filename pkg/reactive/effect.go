package reactive

import "sync/atomic"

// Effect is a side-effecting computation that re-runs when its inputs
// change. It runs once on creation; later invalidations queue it on its
// scope and the next Flush re-runs it.
type Effect struct {
	id      uint64
	fn      func() Cleanup
	cleanup Cleanup
	sources []*signalCore
	scope   *Scope

	pending  atomic.Bool
	disposed atomic.Bool
}

// NewEffect creates an effect owned by the current scope and runs it
// immediately. The returned effect is disposed with its scope; callers
// rarely need the handle.
func NewEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		scope: currentScope(),
	}
	if e.scope != nil {
		e.scope.adoptEffect(e)
	}
	e.run()
	return e
}

// Invalidate schedules the effect on its scope. Implements Listener.
func (e *Effect) Invalidate() {
	if e.disposed.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) {
		if e.scope != nil {
			e.scope.enqueue(e)
		}
	}
}

// ID returns the effect's unique identifier.
func (e *Effect) ID() uint64 { return e.id }

// run executes the body: previous cleanup first, then retrack
// dependencies from scratch while the body runs.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}
	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	for _, src := range e.sources {
		src.unsubscribe(e)
	}
	e.sources = e.sources[:0]

	old := swapListener(e)
	e.cleanup = e.fn()
	swapListener(old)
}

// addSource records an input for unsubscription on the next run.
// Implements sourceTracker.
func (e *Effect) addSource(c *signalCore) {
	for _, s := range e.sources {
		if s == c {
			return
		}
	}
	e.sources = append(e.sources, c)
}

func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	for _, src := range e.sources {
		src.unsubscribe(e)
	}
	e.sources = nil
}
