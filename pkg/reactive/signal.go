package reactive

import "sync"

// signalCore carries type-erased subscriber bookkeeping, shared by
// Signal[T] and Memo[T].
type signalCore struct {
	id   uint64
	mu   sync.Mutex
	subs []Listener
}

// sourceTracker is implemented by listeners that retrack their
// dependencies on every run and need the source list to unsubscribe.
type sourceTracker interface {
	addSource(c *signalCore)
}

func (c *signalCore) subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lid := l.ID()
	for _, s := range c.subs {
		if s.ID() == lid {
			return
		}
	}
	c.subs = append(c.subs, l)
}

func (c *signalCore) unsubscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lid := l.ID()
	for i, s := range c.subs {
		if s.ID() == lid {
			c.subs[i] = c.subs[len(c.subs)-1]
			c.subs = c.subs[:len(c.subs)-1]
			return
		}
	}
}

// notify invalidates all subscribers, or queues them when a batch is open
// so each listener fires once per logical update.
func (c *signalCore) notify() {
	c.mu.Lock()
	subs := make([]Listener, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	st := state()
	if st.batchDepth > 0 {
		st.queued = append(st.queued, subs...)
		return
	}
	for _, s := range subs {
		s.Invalidate()
	}
}

// track subscribes the current listener, if any, to this core.
func (c *signalCore) track() {
	l := currentListener()
	if l == nil {
		return
	}
	c.subscribe(l)
	if t, ok := l.(sourceTracker); ok {
		t.addSource(c)
	}
}

// Signal is a reactive value container. Get inside a tracked computation
// subscribes that computation; Set notifies subscribers when the value
// actually changed.
type Signal[T any] struct {
	core  signalCore
	mu    sync.RWMutex
	value T
	equal func(a, b T) bool
}

// NewSignal creates a signal holding initial. Change detection uses ==
// for the common scalar types; composite values (slices, structs,
// pointers) always count as changed unless an Equal function is set.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		core:  signalCore{id: nextID()},
		value: initial,
	}
}

// WithEqual sets a custom change-detection function and returns the signal.
func (s *Signal[T]) WithEqual(eq func(a, b T) bool) *Signal[T] {
	s.equal = eq
	return s
}

// ID returns the signal's unique identifier.
func (s *Signal[T]) ID() uint64 { return s.core.id }

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	v := s.value
	s.mu.RUnlock()
	s.core.track()
	return v
}

// Peek returns the current value without subscribing anything.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and notifies subscribers unless it equals the current
// value.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()
	if changed {
		s.core.notify()
	}
}

// Update applies fn to the current value and stores the result, notifying
// subscribers on change.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	changed := !s.equals(s.value, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()
	if changed {
		s.core.notify()
	}
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
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
		// Composite values: assume changed. Deep comparison on every Set
		// would dominate the very mutations this harness measures.
		return false
	}
}
