package protocol

import (
	"fmt"

	"github.com/rowbench-dev/rowbench/pkg/dom"
)

// PatchesFrame carries one batch of document mutations. Seq numbers
// batches per session so the client can detect gaps after a reconnect.
type PatchesFrame struct {
	Seq     uint64
	Patches []dom.Patch
}

// EncodePatches encodes a patch batch payload.
//
// Wire format: [Seq: uvarint][Count: uvarint][Patch...] where each
// patch is [Op: 1 byte] followed by op-specific fields. Node IDs are
// uvarints; Tag, Key, and Value are length-prefixed strings.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for _, p := range pf.Patches {
		e.WriteByte(byte(p.Op))
		switch p.Op {
		case dom.OpCreateElement:
			e.WriteUvarint(p.ID)
			e.WriteString(p.Tag)
		case dom.OpCreateText:
			e.WriteUvarint(p.ID)
			e.WriteString(p.Value)
		case dom.OpSetText:
			e.WriteUvarint(p.ID)
			e.WriteString(p.Value)
		case dom.OpSetAttr:
			e.WriteUvarint(p.ID)
			e.WriteString(p.Key)
			e.WriteString(p.Value)
		case dom.OpRemoveAttr:
			e.WriteUvarint(p.ID)
			e.WriteString(p.Key)
		case dom.OpInsert, dom.OpMove:
			e.WriteUvarint(p.ID)
			e.WriteUvarint(p.ParentID)
			e.WriteUvarint(p.BeforeID)
		case dom.OpRemove:
			e.WriteUvarint(p.ID)
			e.WriteUvarint(p.ParentID)
		case dom.OpClear:
			e.WriteUvarint(p.ID)
		}
	}
	return e.Bytes()
}

// DecodePatches decodes a patch batch payload.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, fmt.Errorf("protocol: read patch seq: %w", err)
	}
	count, err := d.ReadUvarint()
	if err != nil {
		return nil, fmt.Errorf("protocol: read patch count: %w", err)
	}
	// Every patch takes at least two bytes on the wire.
	if count > uint64(d.Remaining()) {
		return nil, fmt.Errorf("protocol: patch count %d exceeds payload", count)
	}

	pf := &PatchesFrame{Seq: seq, Patches: make([]dom.Patch, 0, count)}
	for i := uint64(0); i < count; i++ {
		p, err := decodePatch(d)
		if err != nil {
			return nil, fmt.Errorf("protocol: decode patch %d: %w", i, err)
		}
		pf.Patches = append(pf.Patches, p)
	}
	if !d.EOF() {
		return nil, fmt.Errorf("protocol: %d trailing bytes after patches", d.Remaining())
	}
	return pf, nil
}

func decodePatch(d *Decoder) (dom.Patch, error) {
	var p dom.Patch
	op, err := d.ReadByte()
	if err != nil {
		return p, err
	}
	p.Op = dom.PatchOp(op)

	switch p.Op {
	case dom.OpCreateElement:
		if p.ID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.Tag, err = d.ReadString()
	case dom.OpCreateText, dom.OpSetText:
		if p.ID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.Value, err = d.ReadString()
	case dom.OpSetAttr:
		if p.ID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		if p.Key, err = d.ReadString(); err != nil {
			return p, err
		}
		p.Value, err = d.ReadString()
	case dom.OpRemoveAttr:
		if p.ID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.Key, err = d.ReadString()
	case dom.OpInsert, dom.OpMove:
		if p.ID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		if p.ParentID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.BeforeID, err = d.ReadUvarint()
	case dom.OpRemove:
		if p.ID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.ParentID, err = d.ReadUvarint()
	case dom.OpClear:
		p.ID, err = d.ReadUvarint()
	default:
		return p, fmt.Errorf("unknown patch op 0x%02x", op)
	}
	return p, err
}
