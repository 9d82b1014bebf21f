package reactive

import "testing"

func TestEffectRunsImmediately(t *testing.T) {
	count := NewSignal(1)
	runs := 0

	scope := NewScope(nil)
	scope.Run(func() {
		NewEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})
	defer scope.Dispose()

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestEffectRerunsOnFlush(t *testing.T) {
	count := NewSignal(1)
	var seen []int

	scope := NewScope(nil)
	defer scope.Dispose()
	scope.Run(func() {
		NewEffect(func() Cleanup {
			seen = append(seen, count.Get())
			return nil
		})
	})

	count.Set(2)
	if len(seen) != 1 {
		t.Fatalf("effect ran before flush: %v", seen)
	}
	scope.Flush()
	if len(seen) != 2 || seen[1] != 2 {
		t.Errorf("seen = %v, want [1 2]", seen)
	}
}

func TestEffectCoalescesWrites(t *testing.T) {
	count := NewSignal(0)
	runs := 0

	scope := NewScope(nil)
	defer scope.Dispose()
	scope.Run(func() {
		NewEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})

	Batch(func() {
		count.Set(1)
		count.Set(2)
		count.Set(3)
	})
	scope.Flush()
	if runs != 2 {
		t.Errorf("runs = %d, want 2 (initial + one per flushed update)", runs)
	}
	if count.Peek() != 3 {
		t.Errorf("value = %d, want 3", count.Peek())
	}
}

func TestEffectRetracksDependencies(t *testing.T) {
	useA := NewSignal(true)
	a := NewSignal("a")
	b := NewSignal("b")
	runs := 0

	scope := NewScope(nil)
	defer scope.Dispose()
	scope.Run(func() {
		NewEffect(func() Cleanup {
			runs++
			if useA.Get() {
				_ = a.Get()
			} else {
				_ = b.Get()
			}
			return nil
		})
	})

	useA.Set(false)
	scope.Flush()
	if runs != 2 {
		t.Fatalf("runs = %d, want 2", runs)
	}

	// a is no longer a dependency; writing it must not re-run the effect.
	a.Set("a2")
	scope.Flush()
	if runs != 2 {
		t.Errorf("runs = %d, want 2 after writing dropped dependency", runs)
	}

	b.Set("b2")
	scope.Flush()
	if runs != 3 {
		t.Errorf("runs = %d, want 3 after writing live dependency", runs)
	}
}

func TestEffectCleanupBeforeRerunAndOnDispose(t *testing.T) {
	count := NewSignal(0)
	var events []string

	scope := NewScope(nil)
	scope.Run(func() {
		NewEffect(func() Cleanup {
			v := count.Get()
			events = append(events, "run")
			return func() {
				events = append(events, "cleanup")
				_ = v
			}
		})
	})

	count.Set(1)
	scope.Flush()
	scope.Dispose()

	want := []string{"run", "cleanup", "run", "cleanup"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestDisposedEffectIgnoresInvalidation(t *testing.T) {
	count := NewSignal(0)
	runs := 0

	scope := NewScope(nil)
	scope.Run(func() {
		NewEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})
	scope.Dispose()

	count.Set(1)
	scope.Flush()
	if runs != 1 {
		t.Errorf("runs = %d, want 1 after dispose", runs)
	}
}

func TestScopeDisposalOrder(t *testing.T) {
	var order []string

	root := NewScope(nil)
	root.OnCleanup(func() { order = append(order, "root") })
	childA := NewScope(root)
	childA.OnCleanup(func() { order = append(order, "a") })
	childB := NewScope(root)
	childB.OnCleanup(func() { order = append(order, "b") })

	root.Dispose()

	// Children dispose in reverse creation order, before the parent's
	// own cleanups.
	want := []string{"b", "a", "root"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestScopeOnCleanupAfterDisposeRunsImmediately(t *testing.T) {
	scope := NewScope(nil)
	scope.Dispose()

	ran := false
	scope.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after dispose should run immediately")
	}
}

func TestHasPending(t *testing.T) {
	count := NewSignal(0)
	scope := NewScope(nil)
	defer scope.Dispose()
	scope.Run(func() {
		NewEffect(func() Cleanup {
			_ = count.Get()
			return nil
		})
	})

	if scope.HasPending() {
		t.Error("no pending effects expected after initial run")
	}
	count.Set(1)
	if !scope.HasPending() {
		t.Error("expected a pending effect after write")
	}
	scope.Flush()
	if scope.HasPending() {
		t.Error("no pending effects expected after flush")
	}
}
