package reactive

import (
	"sync"
	"sync/atomic"
)

// Scope owns reactive primitives. Effects created while a scope is
// current are disposed with it; invalidated effects queue here until the
// scope is flushed. Scopes nest: disposing a parent disposes children
// first-created-last-disposed.
type Scope struct {
	id     uint64
	parent *Scope

	mu       sync.Mutex
	children []*Scope
	effects  []*Effect
	cleanups []func()
	pending  []*Effect

	disposed atomic.Bool
}

// NewScope creates a scope under parent; a nil parent makes a root scope.
func NewScope(parent *Scope) *Scope {
	s := &Scope{id: nextID(), parent: parent}
	if parent != nil {
		parent.mu.Lock()
		parent.children = append(parent.children, s)
		parent.mu.Unlock()
	}
	return s
}

// ID returns the scope's unique identifier.
func (s *Scope) ID() uint64 { return s.id }

// IsDisposed reports whether Dispose has run.
func (s *Scope) IsDisposed() bool { return s.disposed.Load() }

// Run makes s the current scope for the duration of fn.
func (s *Scope) Run(fn func()) {
	old := swapScope(s)
	defer swapScope(old)
	fn()
}

// OnCleanup registers fn to run on disposal. If the scope is already
// disposed, fn runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.disposed.Load() {
		fn()
		return
	}
	s.mu.Lock()
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

func (s *Scope) adoptEffect(e *Effect) {
	if s.disposed.Load() {
		return
	}
	s.mu.Lock()
	s.effects = append(s.effects, e)
	s.mu.Unlock()
}

func (s *Scope) enqueue(e *Effect) {
	if s.disposed.Load() {
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, e)
	s.mu.Unlock()
}

// Flush runs every effect invalidated since the last flush, in this scope
// and its descendants. The harness calls it once per logical operation,
// after the operation's batch closes.
func (s *Scope) Flush() {
	if s.disposed.Load() {
		return
	}

	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	s.mu.Unlock()

	for _, e := range pending {
		if e.pending.Load() {
			e.run()
		}
	}
	for _, c := range children {
		c.Flush()
	}
}

// HasPending reports whether any effect in this scope tree awaits a flush.
func (s *Scope) HasPending() bool {
	if s.disposed.Load() {
		return false
	}
	s.mu.Lock()
	n := len(s.pending)
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	s.mu.Unlock()
	if n > 0 {
		return true
	}
	for _, c := range children {
		if c.HasPending() {
			return true
		}
	}
	return false
}

// Dispose tears the scope down: children in reverse creation order, then
// effects, then cleanups in reverse registration order.
func (s *Scope) Dispose() {
	if s.disposed.Swap(true) {
		return
	}
	if s.parent != nil {
		s.parent.removeChild(s)
	}

	s.mu.Lock()
	children := s.children
	s.children = nil
	effects := s.effects
	s.effects = nil
	cleanups := s.cleanups
	s.cleanups = nil
	s.pending = nil
	s.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	for _, e := range effects {
		e.dispose()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (s *Scope) removeChild(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}
