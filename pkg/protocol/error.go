package protocol

// Error codes carried by FrameError.
const (
	ErrCodeBadFrame   uint16 = 1 // Frame could not be decoded
	ErrCodeBadCommand uint16 = 2 // Command op or argument invalid
	ErrCodeInternal   uint16 = 3 // Server-side failure applying the command
)

// ErrorFrame reports a server-side failure to the client.
//
// Wire format: [Code: uvarint][Message: len-prefixed string]
type ErrorFrame struct {
	Code    uint16
	Message string
}

// EncodeError encodes an error payload.
func EncodeError(ef *ErrorFrame) []byte {
	e := NewEncoder()
	e.WriteUvarint(uint64(ef.Code))
	e.WriteString(ef.Message)
	return e.Bytes()
}

// DecodeError decodes an error payload.
func DecodeError(data []byte) (*ErrorFrame, error) {
	d := NewDecoder(data)
	code, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	msg, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &ErrorFrame{Code: uint16(code), Message: msg}, nil
}
