package keyed

import (
	"github.com/rowbench-dev/rowbench/pkg/dom"
	"github.com/rowbench-dev/rowbench/pkg/reactive"
)

// Bind mounts a reconciler driven by a signal: every flush after the
// signal changes re-applies its current slice to parent, and disposing
// the current scope detaches all nodes. Factory errors surface through
// onErr; a nil onErr ignores them (the next apply is the recovery path).
func Bind[T any](parent *dom.Node, items *reactive.Signal[[]T], key KeyFunc[T], create Factory[T], onErr func(error)) *Reconciler[T] {
	r := New(parent, key, create)
	reactive.NewEffect(func() reactive.Cleanup {
		if err := r.Apply(items.Get()); err != nil && onErr != nil {
			onErr(err)
		}
		return nil
	})
	if sc := reactive.CurrentScope(); sc != nil {
		sc.OnCleanup(r.Detach)
	}
	return r
}
