package reactive

import (
	"runtime"
	"sync"
)

// trackState is the per-goroutine reactive state: what is currently
// tracking reads, which scope adopts new primitives, and the batch queue.
type trackState struct {
	listener Listener
	scope    *Scope

	batchDepth int
	queued     []Listener
}

var trackStates sync.Map // goroutine id -> *trackState

// goroutineID extracts the current goroutine's ID from the runtime stack
// header ("goroutine <id> ..."). Implementation detail; never exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n && buf[i] != ' '; i++ {
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func state() *trackState {
	gid := goroutineID()
	if s, ok := trackStates.Load(gid); ok {
		return s.(*trackState)
	}
	s := &trackState{}
	trackStates.Store(gid, s)
	return s
}

func currentListener() Listener {
	return state().listener
}

func swapListener(l Listener) Listener {
	s := state()
	old := s.listener
	s.listener = l
	return old
}

func currentScope() *Scope {
	return state().scope
}

func swapScope(sc *Scope) *Scope {
	s := state()
	old := s.scope
	s.scope = sc
	return old
}

// CurrentScope returns the scope adopting newly created primitives on
// this goroutine, or nil outside any scope.
func CurrentScope() *Scope {
	return currentScope()
}

// WithScope runs fn with sc adopting any effects and cleanups created
// inside. Used when driving a scope tree from a fresh goroutine.
func WithScope(sc *Scope, fn func()) {
	old := swapScope(sc)
	defer swapScope(old)
	fn()
}

// CleanupGoroutineState drops the tracking state of the current
// goroutine. Goroutine IDs are never reused, so a goroutine that touched
// the reactive layer must call this before exiting or its state entry
// stays behind forever. Long-lived callers that spawn a goroutine per
// unit of work (one per server session, for example) defer it at the
// top of the goroutine.
func CleanupGoroutineState() {
	trackStates.Delete(goroutineID())
}

// Untracked runs fn without subscribing the current listener to anything
// it reads.
func Untracked(fn func()) {
	old := swapListener(nil)
	defer swapListener(old)
	fn()
}
