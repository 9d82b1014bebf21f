package protocol

import (
	"errors"
	"fmt"
)

// CommandOp identifies a table operation requested by the client.
type CommandOp uint8

const (
	CmdCreate      CommandOp = 0x01 // Arg = row count
	CmdAppend      CommandOp = 0x02 // Arg = row count
	CmdUpdateEvery CommandOp = 0x03 // Arg unused
	CmdClear       CommandOp = 0x04 // Arg unused
	CmdSwap        CommandOp = 0x05 // Arg unused
	CmdSelect      CommandOp = 0x06 // Arg = row ID
	CmdRemove      CommandOp = 0x07 // Arg = row ID
)

// String returns the string representation of the command op.
func (op CommandOp) String() string {
	switch op {
	case CmdCreate:
		return "Create"
	case CmdAppend:
		return "Append"
	case CmdUpdateEvery:
		return "UpdateEvery"
	case CmdClear:
		return "Clear"
	case CmdSwap:
		return "Swap"
	case CmdSelect:
		return "Select"
	case CmdRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// ErrInvalidCommand is returned for an unknown command op.
var ErrInvalidCommand = errors.New("protocol: invalid command op")

// Command is a client request to mutate the table.
//
// Wire format: [Op: 1 byte][Arg: svarint]
type Command struct {
	Op  CommandOp
	Arg int64
}

// String formats the command for logs.
func (c Command) String() string {
	return fmt.Sprintf("%s(%d)", c.Op, c.Arg)
}

// EncodeCommand encodes a command payload.
func EncodeCommand(c Command) []byte {
	e := NewEncoder()
	e.WriteByte(byte(c.Op))
	e.WriteSvarint(c.Arg)
	return e.Bytes()
}

// DecodeCommand decodes a command payload.
func DecodeCommand(data []byte) (Command, error) {
	d := NewDecoder(data)
	op, err := d.ReadByte()
	if err != nil {
		return Command{}, err
	}
	if CommandOp(op) < CmdCreate || CommandOp(op) > CmdRemove {
		return Command{}, fmt.Errorf("%w: 0x%02x", ErrInvalidCommand, op)
	}
	arg, err := d.ReadSvarint()
	if err != nil {
		return Command{}, err
	}
	return Command{Op: CommandOp(op), Arg: arg}, nil
}
