/*
NAME
  record.go

DESCRIPTION
  record.go provides the Record type, the binary form of a descriptor.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package desc

import (
	"bytes"
	"fmt"
)

// Record is a descriptor in binary form: a tag and its payload. The payload
// of an extension descriptor starts with the extension tag.
type Record struct {
	Tag     uint8
	Payload []byte
}

// NewRecord returns a record holding a copy of payload.
func NewRecord(tag uint8, payload []byte) Record {
	return Record{Tag: tag, Payload: append([]byte(nil), payload...)}
}

// ParseRecord reads one descriptor from the start of b and returns it with
// the number of bytes consumed.
func ParseRecord(b []byte) (Record, int, error) {
	if len(b) < 2 {
		return Record{}, 0, fmt.Errorf("%w: %d bytes left for descriptor header", ErrMalformed, len(b))
	}
	n := int(b[1])
	if len(b) < 2+n {
		return Record{}, 0, fmt.Errorf("%w: descriptor 0x%02X needs %d bytes, %d left", ErrMalformed, b[0], n, len(b)-2)
	}
	return NewRecord(b[0], b[2:2+n]), 2 + n, nil
}

// Valid reports whether the payload fits in the length byte and, for an
// extension descriptor, holds the extension tag.
func (r Record) Valid() bool {
	if len(r.Payload) > MaxPayloadSize {
		return false
	}
	return r.Tag != ExtensionTag || len(r.Payload) > 0
}

// ExtensionTag returns the extension tag of an extension descriptor.
func (r Record) ExtensionTag() (uint8, bool) {
	if r.Tag != ExtensionTag || len(r.Payload) == 0 {
		return 0, false
	}
	return r.Payload[0], true
}

// Size returns the size of the binary form including the header.
func (r Record) Size() int { return 2 + len(r.Payload) }

// Bytes returns the binary form: tag, length and payload.
func (r Record) Bytes() []byte {
	b := make([]byte, 0, r.Size())
	b = append(b, r.Tag, byte(len(r.Payload)))
	return append(b, r.Payload...)
}

// Equal reports whether r and o have the same tag and payload.
func (r Record) Equal(o Record) bool {
	return r.Tag == o.Tag && bytes.Equal(r.Payload, o.Payload)
}

// Identity returns the global identity of r in the context of the private
// data specifier pds.
func (r Record) Identity(pds uint32) Identity {
	if ext, ok := r.ExtensionTag(); ok {
		return Extension(ext)
	}
	if r.Tag >= PrivateTagMin {
		return Private(r.Tag, pds)
	}
	return Regular(r.Tag)
}

// PDS returns the private data specifier declared by a
// private_data_specifier_descriptor.
func (r Record) PDS() (uint32, bool) {
	if r.Tag != PDSTag || len(r.Payload) < 4 {
		return 0, false
	}
	p := r.Payload
	return uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3]), true
}
