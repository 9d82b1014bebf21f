package reactive

import (
	"sync"
	"testing"
)

// testListener records invalidations for subscription assertions.
type testListener struct {
	id uint64
	mu sync.Mutex
	n  int
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) Invalidate() {
	l.mu.Lock()
	l.n++
	l.mu.Unlock()
}

func (l *testListener) ID() uint64 { return l.id }

func (l *testListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

// withListener runs fn with l tracking reads.
func withListener(l Listener, fn func()) {
	old := swapListener(l)
	defer swapListener(old)
	fn()
}

func TestSignalGetSetUpdate(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("initial value = %d, want 0", count.Get())
	}
	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("value = %d, want 5", count.Get())
	}
	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("value = %d, want 10", count.Get())
	}
}

func TestSignalSubscription(t *testing.T) {
	count := NewSignal(0)
	l := newTestListener()

	withListener(l, func() { _ = count.Get() })

	count.Set(1)
	if l.count() != 1 {
		t.Errorf("notifications = %d, want 1", l.count())
	}
	count.Set(1) // unchanged scalar, no notification
	if l.count() != 1 {
		t.Errorf("notifications = %d, want 1 after same-value Set", l.count())
	}
	count.Set(2)
	if l.count() != 2 {
		t.Errorf("notifications = %d, want 2", l.count())
	}
}

func TestSignalPeekDoesNotSubscribe(t *testing.T) {
	count := NewSignal(42)
	l := newTestListener()

	withListener(l, func() {
		if v := count.Peek(); v != 42 {
			t.Errorf("Peek = %d, want 42", v)
		}
	})
	count.Set(100)
	if l.count() != 0 {
		t.Errorf("Peek subscribed the listener: %d notifications", l.count())
	}
}

func TestSignalUntracked(t *testing.T) {
	count := NewSignal(0)
	l := newTestListener()

	withListener(l, func() {
		Untracked(func() { _ = count.Get() })
	})
	count.Set(1)
	if l.count() != 0 {
		t.Errorf("Untracked read subscribed the listener: %d notifications", l.count())
	}
}

func TestSignalCompositeAlwaysNotifies(t *testing.T) {
	rows := NewSignal([]int{1, 2, 3})
	l := newTestListener()
	withListener(l, func() { _ = rows.Get() })

	rows.Set([]int{1, 2, 3}) // structurally equal but still a change
	if l.count() != 1 {
		t.Errorf("notifications = %d, want 1 (composite Set always notifies)", l.count())
	}
}

func TestSignalCustomEqual(t *testing.T) {
	type pt struct{ x, y int }
	p := NewSignal(pt{1, 2}).WithEqual(func(a, b pt) bool { return a == b })
	l := newTestListener()
	withListener(l, func() { _ = p.Get() })

	p.Set(pt{1, 2})
	if l.count() != 0 {
		t.Errorf("notifications = %d, want 0 with equal values", l.count())
	}
	p.Set(pt{3, 4})
	if l.count() != 1 {
		t.Errorf("notifications = %d, want 1", l.count())
	}
}

func TestSignalDeduplicatesSubscribers(t *testing.T) {
	count := NewSignal(0)
	l := newTestListener()

	withListener(l, func() {
		_ = count.Get()
		_ = count.Get()
		_ = count.Get()
	})
	count.Set(1)
	if l.count() != 1 {
		t.Errorf("notifications = %d, want 1 (subscriber must be deduplicated)", l.count())
	}
}

func TestBatchDeliversOnce(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	l := newTestListener()
	withListener(l, func() {
		_ = a.Get()
		_ = b.Get()
	})

	Batch(func() {
		a.Set(1)
		b.Set(2)
		if l.count() != 0 {
			t.Errorf("notified inside batch: %d", l.count())
		}
	})
	if l.count() != 1 {
		t.Errorf("notifications = %d, want 1 after batch", l.count())
	}
}

func TestBatchNesting(t *testing.T) {
	a := NewSignal(0)
	l := newTestListener()
	withListener(l, func() { _ = a.Get() })

	Batch(func() {
		a.Set(1)
		Batch(func() {
			a.Set(2)
		})
		if l.count() != 0 {
			t.Error("inner batch close must not deliver")
		}
	})
	if l.count() != 1 {
		t.Errorf("notifications = %d, want 1 after outermost batch", l.count())
	}
}
