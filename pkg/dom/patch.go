package dom

// PatchOp is the type of mutation reported to a PatchSink.
type PatchOp uint8

const (
	OpCreateElement PatchOp = 0x01 // New element node
	OpCreateText    PatchOp = 0x02 // New text node
	OpSetText       PatchOp = 0x03 // Update text content
	OpSetAttr       PatchOp = 0x04 // Set/update attribute
	OpRemoveAttr    PatchOp = 0x05 // Remove attribute
	OpInsert        PatchOp = 0x06 // Attach a detached node
	OpMove          PatchOp = 0x07 // Reposition an attached node
	OpRemove        PatchOp = 0x08 // Detach a node
	OpClear         PatchOp = 0x09 // Bulk-remove all children
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpInsert:
		return "Insert"
	case OpMove:
		return "Move"
	case OpRemove:
		return "Remove"
	case OpClear:
		return "Clear"
	default:
		return "Unknown"
	}
}

// Patch describes one mutation of the document tree.
//
// BeforeID carries the anchor for Insert and Move: the node ends up
// immediately before that sibling, or last in the parent when BeforeID
// is zero.
type Patch struct {
	Op       PatchOp
	ID       uint64 // Target node
	ParentID uint64 // For Insert/Move/Remove
	BeforeID uint64 // Anchor sibling for Insert/Move (0 = append)
	Tag      string // For CreateElement
	Key      string // Attribute name for SetAttr/RemoveAttr
	Value    string // Text or attribute value
}

// PatchSink receives every mutation made through a Document's nodes.
type PatchSink interface {
	Record(p Patch)
}

// CountingSink tallies mutations by op. It is the sink the benchmark
// runner installs to report DOM-operation counts per benchmark step.
type CountingSink struct {
	counts [16]uint64
	total  uint64
}

// Record implements PatchSink.
func (s *CountingSink) Record(p Patch) {
	s.counts[p.Op&0x0F]++
	s.total++
}

// Count returns the number of recorded mutations for op.
func (s *CountingSink) Count(op PatchOp) uint64 {
	return s.counts[op&0x0F]
}

// Total returns the number of recorded mutations across all ops.
func (s *CountingSink) Total() uint64 {
	return s.total
}

// Snapshot returns the non-zero counts keyed by op name.
func (s *CountingSink) Snapshot() map[string]uint64 {
	out := make(map[string]uint64)
	for op := OpCreateElement; op <= OpClear; op++ {
		if n := s.counts[op]; n > 0 {
			out[op.String()] = n
		}
	}
	return out
}

// Reset zeroes all counts.
func (s *CountingSink) Reset() {
	s.counts = [16]uint64{}
	s.total = 0
}

// RecordingSink captures every patch in order. Used by tests that assert
// on exact mutation sequences.
type RecordingSink struct {
	Patches []Patch
}

// Record implements PatchSink.
func (s *RecordingSink) Record(p Patch) {
	s.Patches = append(s.Patches, p)
}

// Reset discards all captured patches.
func (s *RecordingSink) Reset() {
	s.Patches = s.Patches[:0]
}
