// Package keyed reconciles an ordered, keyed collection of items against a
// live dom container with minimal mutation. Nodes are created once per key,
// reused across passes while the key remains present, and removed the pass
// after the key disappears. Reordering moves only nodes that are out of
// relative order; a total clear is recognized and applied as one bulk
// container operation.
package keyed
