/*
NAME
  fields.go

DESCRIPTION
  fields.go provides integer, BCD and byte string accessors and the length
  prefixed region stack of Buffer.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bits

import "golang.org/x/exp/constraints"

// Get reads an n bit field from b into an integer of type T.
func Get[T constraints.Integer](b *Buffer, n int) T { return T(b.GetBits(n)) }

// Put writes the n least significant bits of v into b.
func Put[T constraints.Integer](b *Buffer, v T, n int) { b.PutBits(uint64(v), n) }

func (b *Buffer) GetUint8() uint8   { return uint8(b.GetBits(8)) }
func (b *Buffer) GetUint16() uint16 { return uint16(b.GetBits(16)) }
func (b *Buffer) GetUint24() uint32 { return uint32(b.GetBits(24)) }
func (b *Buffer) GetUint32() uint32 { return uint32(b.GetBits(32)) }
func (b *Buffer) GetUint48() uint64 { return b.GetBits(48) }
func (b *Buffer) GetUint64() uint64 { return b.GetBits(64) }

func (b *Buffer) PutUint8(v uint8)   { b.PutBits(uint64(v), 8) }
func (b *Buffer) PutUint16(v uint16) { b.PutBits(uint64(v), 16) }
func (b *Buffer) PutUint24(v uint32) { b.PutBits(uint64(v), 24) }
func (b *Buffer) PutUint32(v uint32) { b.PutBits(uint64(v), 32) }
func (b *Buffer) PutUint48(v uint64) { b.PutBits(v, 48) }
func (b *Buffer) PutUint64(v uint64) { b.PutBits(v, 64) }

// GetBCD reads a binary coded decimal value of the given number of digits,
// one digit per nibble, most significant first. Any number of digits is
// accepted since nibbles need not be byte aligned. A nibble greater than 9
// latches a read error and the result is 0.
func (b *Buffer) GetBCD(digits int) uint64 {
	if digits < 0 || !b.CanReadBits(4*digits) {
		b.rerr = true
		return 0
	}
	var v uint64
	for i := 0; i < digits; i++ {
		d := b.GetBits(4)
		if d > 9 {
			b.rerr = true
			return 0
		}
		v = v*10 + d
	}
	return v
}

// PutBCD writes the given number of least significant decimal digits of v as
// binary coded decimal.
func (b *Buffer) PutBCD(v uint64, digits int) {
	if digits < 0 || 4*digits > b.RemainingWriteBits() {
		b.werr = true
		return
	}
	div := uint64(1)
	for i := 1; i < digits; i++ {
		div *= 10
	}
	for ; digits > 0; digits-- {
		b.PutBits(v/div%10, 4)
		div /= 10
	}
}

// GetBytes reads n bytes. The cursor must be byte aligned.
func (b *Buffer) GetBytes(n int) []byte {
	if !b.ByteAligned() || !b.CanReadBytes(n) {
		b.rerr = true
		return nil
	}
	out := make([]byte, n)
	copy(out, b.buf[b.pos/8:])
	b.pos += n * 8
	return out
}

// GetRemaining reads all bytes left in the current readable region.
func (b *Buffer) GetRemaining() []byte { return b.GetBytes(b.RemainingReadBytes()) }

// PutBytes writes p. The cursor must be byte aligned.
func (b *Buffer) PutBytes(p []byte) {
	if !b.ByteAligned() || len(p)*8 > b.RemainingWriteBits() {
		b.werr = true
		return
	}
	copy(b.buf[b.pos/8:], p)
	b.pos += len(p) * 8
	if b.pos > b.hi {
		b.hi = b.pos
	}
}

// GetString reads a length prefixed string of single byte characters, the
// length field being lenBits wide.
func (b *Buffer) GetString(lenBits int) string {
	n := int(b.GetBits(lenBits))
	return string(b.GetBytes(n))
}

// PutString writes s preceded by its length in a lenBits wide field.
func (b *Buffer) PutString(s string, lenBits int) {
	if len(s) >= 1<<lenBits {
		b.werr = true
		return
	}
	b.PutBits(uint64(len(s)), lenBits)
	b.PutBytes([]byte(s))
}

// PushReadSizeFromLength reads a lenBits wide length field and restricts the
// readable region to the number of bytes it declares. The cursor must be byte
// aligned after the length field. A length larger than the remaining data
// latches a read error and the region is clamped to what is available.
// Every call must be balanced by PopReadSize.
func (b *Buffer) PushReadSizeFromLength(lenBits int) bool {
	n := int(b.GetBits(lenBits))
	s := state{kind: readRegion, limit: b.limit}
	b.states = append(b.states, s)
	if b.rerr {
		return false
	}
	if !b.ByteAligned() {
		b.rerr = true
		return false
	}
	if n*8 > b.limit-b.pos {
		b.rerr = true
		return false
	}
	b.limit = b.pos + n*8
	return true
}

// PopReadSize moves the cursor to the end of the current region and restores
// the enclosing readable region.
func (b *Buffer) PopReadSize() bool {
	s, ok := b.pop(readRegion)
	if !ok {
		return false
	}
	if b.pos < b.limit {
		b.pos = b.limit
	}
	b.limit = s.limit
	return true
}

// PushWriteSequenceWithLeadingLength writes a lenBits wide placeholder length
// field. PopWriteSequence later fills it with the number of bytes written
// after it. The cursor must be byte aligned after the length field.
func (b *Buffer) PushWriteSequenceWithLeadingLength(lenBits int) bool {
	s := state{kind: writeSequence, lenAt: b.pos, lenN: lenBits}
	b.PutBits(0, lenBits)
	s.start = b.pos
	b.states = append(b.states, s)
	if !b.ByteAligned() {
		b.werr = true
	}
	return !b.werr
}

// PopWriteSequence pads the current sequence with zero bits to a byte
// boundary and back-patches its leading length field.
func (b *Buffer) PopWriteSequence() bool {
	s, ok := b.pop(writeSequence)
	if !ok {
		return false
	}
	if !b.ByteAligned() {
		b.PutZeroBits(8 - b.pos%8)
	}
	n := (b.pos - s.start) / 8
	if s.lenN < MaxBits && uint64(n) >= 1<<s.lenN {
		b.werr = true
		return false
	}
	if b.werr {
		return false
	}
	b.putBitsAt(s.lenAt, uint64(n), s.lenN)
	return true
}

// Depth returns the number of open regions.
func (b *Buffer) Depth() int { return len(b.states) }

func (b *Buffer) pop(k stateKind) (state, bool) {
	if len(b.states) == 0 || b.states[len(b.states)-1].kind != k {
		b.uerr = true
		return state{}, false
	}
	s := b.states[len(b.states)-1]
	b.states = b.states[:len(b.states)-1]
	return s, true
}
