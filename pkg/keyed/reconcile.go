package keyed

import (
	"fmt"

	"github.com/rowbench-dev/rowbench/pkg/dom"
)

// KeyFunc extracts the stable identity of an item. Keys must be unique
// within one item slice.
type KeyFunc[T any] func(item T) string

// Factory builds the dom node for a newly observed key. It is invoked
// exactly once per key while that key remains live.
type Factory[T any] func(item T) (*dom.Node, error)

// Reconciler keeps one container's children in sync with a keyed item
// sequence. It exclusively owns the container's child list; no other code
// may attach or detach children between Apply calls.
type Reconciler[T any] struct {
	parent *dom.Node
	key    KeyFunc[T]
	create Factory[T]
	nodes  map[string]*dom.Node
}

// New creates a reconciler for parent. The container is assumed empty or
// to contain exactly the nodes from this reconciler's previous Apply.
func New[T any](parent *dom.Node, key KeyFunc[T], create Factory[T]) *Reconciler[T] {
	return &Reconciler[T]{
		parent: parent,
		key:    key,
		create: create,
		nodes:  make(map[string]*dom.Node),
	}
}

// Len returns the number of live keys.
func (r *Reconciler[T]) Len() int { return len(r.nodes) }

// Node returns the node for key, or nil when the key is not live.
func (r *Reconciler[T]) Node(key string) *dom.Node { return r.nodes[key] }

// Apply mutates the container so its child order matches items.
//
// Passes, in order: remove nodes whose key is gone, create-and-append
// nodes for new keys, then reorder. The reorder walks the target sequence
// backward and moves each out-of-place node immediately before the
// already-placed node that follows it; nodes on the longest increasing
// run of previous positions stay put, so a pure append, a pure removal,
// or a two-row swap issues no moves for the unaffected nodes.
//
// A duplicate key in items is a caller bug and panics. A Factory error is
// returned to the caller with the container left partially updated; the
// expected recovery is a follow-up Apply with corrected input.
func (r *Reconciler[T]) Apply(items []T) error {
	// Total clear is the dominant benchmark case. Drop everything in bulk
	// instead of routing it through per-key removal.
	if len(items) == 0 {
		if len(r.nodes) > 0 {
			r.parent.Clear()
			r.nodes = make(map[string]*dom.Node)
		}
		return nil
	}

	keys := make([]string, len(items))
	keep := make(map[string]struct{}, len(items))
	for i, item := range items {
		k := r.key(item)
		if _, dup := keep[k]; dup {
			panic(fmt.Sprintf("keyed: duplicate key %q at index %d", k, i))
		}
		keys[i] = k
		keep[k] = struct{}{}
	}

	// Removal pass.
	for k, n := range r.nodes {
		if _, ok := keep[k]; !ok {
			r.parent.RemoveChild(n)
			delete(r.nodes, k)
		}
	}

	// The survivors' physical order is the previous order; index it before
	// materialization appends anything.
	pos := make(map[*dom.Node]int, r.parent.Len()+len(items))
	for i, c := range r.parent.Children() {
		pos[c] = i
	}
	next := len(pos)

	// Materialization pass. New nodes are appended; the reorder pass puts
	// them in place.
	target := make([]*dom.Node, len(items))
	seq := make([]int, len(items))
	for i, item := range items {
		n, ok := r.nodes[keys[i]]
		if !ok {
			created, err := r.create(item)
			if err != nil {
				return fmt.Errorf("keyed: create node for key %q: %w", keys[i], err)
			}
			n = created
			r.parent.AppendChild(n)
			r.nodes[keys[i]] = n
			pos[n] = next
			next++
		}
		target[i] = n
		seq[i] = pos[n]
	}

	r.reorder(target, seq)
	return nil
}

// reorder brings the container to the order of target. seq holds each
// target node's current physical index; nodes whose indices form the
// longest increasing subsequence are already in relative order and anchor
// the rest, which are inserted before their (by then final) successor,
// second-to-last position first.
func (r *Reconciler[T]) reorder(target []*dom.Node, seq []int) {
	if isIncreasing(seq) {
		return
	}
	stay := longestIncreasing(seq)
	var anchor *dom.Node
	for j := len(target) - 1; j >= 0; j-- {
		if stay[j] {
			anchor = target[j]
			continue
		}
		if anchor == nil {
			r.parent.AppendChild(target[j])
		} else {
			r.parent.InsertBefore(target[j], anchor)
		}
		anchor = target[j]
	}
}

// Detach removes every live node from the container and forgets them.
// Called when the owning scope ends.
func (r *Reconciler[T]) Detach() {
	if len(r.nodes) == 0 {
		return
	}
	r.parent.Clear()
	r.nodes = make(map[string]*dom.Node)
}

// isIncreasing reports whether seq is strictly increasing, the zero-move
// case (pure append, pure removal, no-op).
func isIncreasing(seq []int) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i] <= seq[i-1] {
			return false
		}
	}
	return true
}

// longestIncreasing marks the members of one longest strictly increasing
// subsequence of seq. Patience sorting with binary search, O(n log n).
func longestIncreasing(seq []int) []bool {
	n := len(seq)
	tails := make([]int, 0, n) // index into seq of smallest tail per length
	prev := make([]int, n)     // back-pointer to previous member

	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	stay := make([]bool, n)
	if len(tails) == 0 {
		return stay
	}
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		stay[i] = true
	}
	return stay
}
