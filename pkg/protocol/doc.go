// Package protocol implements the binary wire format for live sessions.
//
// Commands flow from client to server, patch batches flow back. All
// messages are framed with a 6-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// Payloads use varints for integers (protobuf-style, ZigZag for signed
// values) and varint-length-prefixed bytes for strings. A full patch
// batch for a 10 000-row create is a few hundred kilobytes, which is
// why the length field is 32 bits rather than 16.
package protocol
