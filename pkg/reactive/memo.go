package reactive

import "sync"

// Memo is a cached derived value. The first Get computes it; when an
// input changes, the memo recomputes immediately and notifies its own
// subscribers only if the new value differs from the cached one. That is
// the selector pattern: many per-row memos can read one shared signal,
// yet a change fans out only to the rows whose derived value actually
// flipped.
type Memo[T any] struct {
	core    signalCore
	compute func() T

	mu       sync.Mutex
	value    T
	valid    bool
	disposed bool
	equal    func(a, b T) bool
	sources  []*signalCore
}

// NewMemo creates a memo over compute. The computation runs on first Get.
// A memo created inside a scope is disposed with it, dropping its input
// subscriptions.
func NewMemo[T any](compute func() T) *Memo[T] {
	m := &Memo[T]{
		core:    signalCore{id: nextID()},
		compute: compute,
	}
	if sc := currentScope(); sc != nil {
		sc.OnCleanup(m.Dispose)
	}
	return m
}

// Dispose unsubscribes the memo from its inputs. Further Gets return the
// last cached value without recomputing.
func (m *Memo[T]) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.disposed = true
	for _, src := range m.sources {
		src.unsubscribe(m)
	}
	m.sources = nil
}

// WithEqual sets a custom change-detection function and returns the memo.
func (m *Memo[T]) WithEqual(eq func(a, b T) bool) *Memo[T] {
	m.equal = eq
	return m
}

// ID returns the memo's unique identifier.
func (m *Memo[T]) ID() uint64 { return m.core.id }

// Get returns the cached value, recomputing it first if an input changed,
// and subscribes the current listener.
func (m *Memo[T]) Get() T {
	m.mu.Lock()
	if !m.valid && !m.disposed {
		m.recompute()
	}
	v := m.value
	m.mu.Unlock()

	m.core.track()
	return v
}

// recompute runs the computation with the memo as the tracked listener.
// Caller holds m.mu.
func (m *Memo[T]) recompute() {
	for _, src := range m.sources {
		src.unsubscribe(m)
	}
	m.sources = m.sources[:0]

	old := swapListener(m)
	m.value = m.compute()
	swapListener(old)
	m.valid = true
}

// Invalidate drops the cached value and notifies subscribers. Implements
// Listener; called by the memo's inputs.
func (m *Memo[T]) Invalidate() {
	m.mu.Lock()
	if !m.valid || m.disposed {
		m.mu.Unlock()
		return
	}
	prev := m.value
	m.recompute()
	changed := !m.equals(prev, m.value)
	m.mu.Unlock()

	if changed {
		m.core.notify()
	}
}

// addSource records an input for unsubscription on recompute. Implements
// sourceTracker.
func (m *Memo[T]) addSource(c *signalCore) {
	for _, s := range m.sources {
		if s == c {
			return
		}
	}
	m.sources = append(m.sources, c)
}

func (m *Memo[T]) equals(a, b T) bool {
	if m.equal != nil {
		return m.equal(a, b)
	}
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return false
	}
}
