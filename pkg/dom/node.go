package dom

import "fmt"

// NodeKind is the node type discriminator.
type NodeKind uint8

const (
	KindElement NodeKind = iota // <tr>, <td>, etc.
	KindText                    // Plain text node
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Document owns node creation and the patch sink. All nodes of one tree
// share a Document; node IDs are unique within it.
type Document struct {
	nextID uint64
	sink   PatchSink
}

// NewDocument creates an empty document with no sink installed.
func NewDocument() *Document {
	return &Document{}
}

// SetSink installs the sink that receives all subsequent mutations.
// A nil sink disables recording.
func (d *Document) SetSink(s PatchSink) {
	d.sink = s
}

// CreateElement creates a detached element node.
func (d *Document) CreateElement(tag string) *Node {
	n := &Node{
		kind: KindElement,
		id:   d.assignID(),
		tag:  tag,
		doc:  d,
	}
	d.emit(Patch{Op: OpCreateElement, ID: n.id, Tag: tag})
	return n
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) *Node {
	n := &Node{
		kind: KindText,
		id:   d.assignID(),
		text: text,
		doc:  d,
	}
	d.emit(Patch{Op: OpCreateText, ID: n.id, Value: text})
	return n
}

func (d *Document) assignID() uint64 {
	d.nextID++
	return d.nextID
}

func (d *Document) emit(p Patch) {
	if d.sink != nil {
		d.sink.Record(p)
	}
}

// Node is one element or text node in the tree. Node identity is pointer
// identity and is stable for the node's whole life.
type Node struct {
	kind     NodeKind
	id       uint64
	tag      string
	text     string
	attrs    map[string]string
	doc      *Document
	parent   *Node
	children []*Node
}

// ID returns the document-unique numeric ID.
func (n *Node) ID() uint64 { return n.id }

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Tag returns the element tag, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// Text returns the text content of a text node.
func (n *Node) Text() string { return n.text }

// Parent returns the parent node, or nil for detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the child at index i.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// NextSibling returns the node immediately after n in its parent, or nil
// when n is last or detached.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	sib := n.parent.children
	for i, c := range sib {
		if c == n {
			if i+1 < len(sib) {
				return sib[i+1]
			}
			return nil
		}
	}
	return nil
}

// Attr returns the attribute value and whether it is set.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// SetAttr sets an attribute on an element node.
func (n *Node) SetAttr(key, value string) {
	if n.kind != KindElement {
		panic("dom: SetAttr on non-element node")
	}
	if old, ok := n.attrs[key]; ok && old == value {
		return
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
	n.doc.emit(Patch{Op: OpSetAttr, ID: n.id, Key: key, Value: value})
}

// RemoveAttr removes an attribute. Removing an absent attribute is a no-op.
func (n *Node) RemoveAttr(key string) {
	if _, ok := n.attrs[key]; !ok {
		return
	}
	delete(n.attrs, key)
	n.doc.emit(Patch{Op: OpRemoveAttr, ID: n.id, Key: key})
}

// SetText updates the content of a text node.
func (n *Node) SetText(text string) {
	if n.kind != KindText {
		panic("dom: SetText on non-text node")
	}
	if n.text == text {
		return
	}
	n.text = text
	n.doc.emit(Patch{Op: OpSetText, ID: n.id, Value: text})
}

// AppendChild attaches c as the last child of n. If c is already in the
// tree it is moved, like the browser's appendChild.
func (n *Node) AppendChild(c *Node) {
	n.InsertBefore(c, nil)
}

// InsertBefore places c immediately before ref among n's children. A nil
// ref appends. If c is already attached anywhere in the document it is
// detached first; reattaching under the same document reports a Move
// instead of an Insert.
func (n *Node) InsertBefore(c *Node, ref *Node) {
	if n.kind != KindElement {
		panic("dom: InsertBefore on non-element node")
	}
	if c == n {
		panic("dom: node cannot be inserted into itself")
	}
	if ref != nil && ref.parent != n {
		panic(fmt.Sprintf("dom: reference node %d is not a child of node %d", ref.id, n.id))
	}
	if c == ref {
		return
	}

	moved := c.parent != nil
	if moved {
		c.parent.detach(c)
	}

	idx := len(n.children)
	if ref != nil {
		idx = n.indexOf(ref)
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = c
	c.parent = n

	var beforeID uint64
	if ref != nil {
		beforeID = ref.id
	}
	op := OpInsert
	if moved {
		op = OpMove
	}
	n.doc.emit(Patch{Op: op, ID: c.id, ParentID: n.id, BeforeID: beforeID})
}

// RemoveChild detaches c from n. Panics if c is not a child of n.
func (n *Node) RemoveChild(c *Node) {
	if c.parent != n {
		panic(fmt.Sprintf("dom: node %d is not a child of node %d", c.id, n.id))
	}
	n.detach(c)
	n.doc.emit(Patch{Op: OpRemove, ID: c.id, ParentID: n.id})
}

// Clear detaches all children of n in one bulk operation. A single Clear
// patch is reported regardless of child count; this is the fast path for
// emptying a large container.
func (n *Node) Clear() {
	if len(n.children) == 0 {
		return
	}
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = n.children[:0]
	n.doc.emit(Patch{Op: OpClear, ID: n.id})
}

// detach removes c from n's child list without reporting a patch.
func (n *Node) detach(c *Node) {
	i := n.indexOf(c)
	n.children = append(n.children[:i], n.children[i+1:]...)
	c.parent = nil
}

func (n *Node) indexOf(c *Node) int {
	for i, ch := range n.children {
		if ch == c {
			return i
		}
	}
	panic(fmt.Sprintf("dom: node %d not found among children of node %d", c.id, n.id))
}
