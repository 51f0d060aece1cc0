/*
NAME
  buffer.go

DESCRIPTION
  buffer.go provides a bit level reader and writer over a byte slice, used to
  serialize and deserialize descriptor payloads.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides a bounded bit buffer that can be used either to read
// or to write bit packed fields such as those found in MPEG-TS descriptors.
//
// A Buffer never panics on out of range access. Reading past the end of the
// readable region returns zero and latches a read error; writing past the
// capacity drops the data and latches a write error. Callers check the latches
// once a whole structure has been processed.
package bits

import (
	"errors"
	"fmt"
)

// Errors reported by Err.
var (
	ErrRead  = errors.New("bit buffer read error")
	ErrWrite = errors.New("bit buffer write error")
	ErrUser  = errors.New("bit buffer user error")
)

// MaxBits is the largest field width accepted by GetBits and PutBits.
const MaxBits = 64

type stateKind int

const (
	readRegion stateKind = iota
	writeSequence
)

// state is a saved region on the buffer state stack.
type state struct {
	kind  stateKind
	limit int // Outer limit in bits, restored on pop.
	lenAt int // Bit offset of the length field for a write sequence.
	lenN  int // Width of the length field in bits.
	start int // Bit offset immediately after the length field.
}

// Buffer is a cursor over a byte slice, operating in either read or write
// mode. The zero value is an empty reader.
type Buffer struct {
	buf      []byte
	writing  bool
	pos      int // Cursor in bits.
	limit    int // Readable end, or writable capacity, in bits.
	hi       int // Highest written bit offset.
	states   []state
	rerr     bool
	werr     bool
	uerr     bool
	reserved int // Reserved bits read with an unexpected value.
}

// NewReader returns a Buffer reading from b. The slice is not copied.
func NewReader(b []byte) *Buffer {
	return &Buffer{buf: b, limit: len(b) * 8}
}

// NewWriter returns a Buffer that accepts at most capacity bytes.
func NewWriter(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{buf: make([]byte, capacity), writing: true, limit: capacity * 8}
}

// Bytes returns the bytes written so far, including a partially written last
// byte. For a reader it returns the complete underlying slice.
func (b *Buffer) Bytes() []byte {
	if !b.writing {
		return b.buf
	}
	return b.buf[:(b.hi+7)/8]
}

// Writing reports whether b is a writer.
func (b *Buffer) Writing() bool { return b.writing }

// ReadError reports whether a read has failed.
func (b *Buffer) ReadError() bool { return b.rerr }

// WriteError reports whether a write has failed.
func (b *Buffer) WriteError() bool { return b.werr }

// UserError reports whether SetUserError has been called.
func (b *Buffer) UserError() bool { return b.uerr }

// HasError reports whether any of the error latches is set.
func (b *Buffer) HasError() bool { return b.rerr || b.werr || b.uerr }

// SetUserError latches a user error. The buffer remains usable but the
// enclosing operation must report failure.
func (b *Buffer) SetUserError() { b.uerr = true }

// ClearErrors resets all error latches.
func (b *Buffer) ClearErrors() { b.rerr, b.werr, b.uerr = false, false, false }

// Err returns the latched errors, or nil.
func (b *Buffer) Err() error {
	var errs []error
	if b.rerr {
		errs = append(errs, fmt.Errorf("%w at bit offset %d", ErrRead, b.pos))
	}
	if b.werr {
		errs = append(errs, fmt.Errorf("%w at bit offset %d", ErrWrite, b.pos))
	}
	if b.uerr {
		errs = append(errs, ErrUser)
	}
	return errors.Join(errs...)
}

// ReservedBitsErrors returns the number of reserved bits that were read with a
// value other than 1.
func (b *Buffer) ReservedBitsErrors() int { return b.reserved }

// BitOffset returns the cursor position in bits.
func (b *Buffer) BitOffset() int { return b.pos }

// ByteOffset returns the cursor position in whole bytes.
func (b *Buffer) ByteOffset() int { return b.pos / 8 }

// ByteAligned reports whether the cursor is on a byte boundary.
func (b *Buffer) ByteAligned() bool { return b.pos%8 == 0 }

// RemainingReadBits returns the number of bits left in the current readable
// region.
func (b *Buffer) RemainingReadBits() int {
	if b.writing {
		return 0
	}
	return b.limit - b.pos
}

// RemainingReadBytes returns the number of whole bytes left in the current
// readable region.
func (b *Buffer) RemainingReadBytes() int { return b.RemainingReadBits() / 8 }

// RemainingWriteBits returns the number of bits that may still be written.
func (b *Buffer) RemainingWriteBits() int {
	if !b.writing {
		return 0
	}
	return b.limit - b.pos
}

// CanReadBits reports whether n bits may be read without error.
func (b *Buffer) CanReadBits(n int) bool {
	return !b.writing && !b.rerr && n >= 0 && n <= b.limit-b.pos
}

// CanReadBytes reports whether n bytes may be read without error.
func (b *Buffer) CanReadBytes(n int) bool { return b.CanReadBits(n * 8) }

// EndOfRead reports whether the whole current readable region has been
// consumed.
func (b *Buffer) EndOfRead() bool { return !b.writing && b.pos >= b.limit }

// GetBits reads an n bit big endian field. On error it returns 0 and the
// cursor does not move.
func (b *Buffer) GetBits(n int) uint64 {
	if n == 0 {
		return 0
	}
	if n < 0 || n > MaxBits || !b.CanReadBits(n) {
		b.rerr = true
		return 0
	}
	var v uint64
	for n > 0 {
		off := b.pos % 8
		take := 8 - off
		if take > n {
			take = n
		}
		c := b.buf[b.pos/8] >> (8 - off - take) & byte(1<<take-1)
		v = v<<take | uint64(c)
		b.pos += take
		n -= take
	}
	return v
}

// GetBit reads a single bit.
func (b *Buffer) GetBit() bool { return b.GetBits(1) == 1 }

// PutBits writes the n least significant bits of v. On error nothing is
// written.
func (b *Buffer) PutBits(v uint64, n int) {
	if n == 0 {
		return
	}
	if !b.writing || b.werr || n < 0 || n > MaxBits || n > b.limit-b.pos {
		b.werr = true
		return
	}
	b.putBitsAt(b.pos, v, n)
	b.pos += n
	if b.pos > b.hi {
		b.hi = b.pos
	}
}

// putBitsAt writes n bits of v at bit offset at without bounds checks.
func (b *Buffer) putBitsAt(at int, v uint64, n int) {
	for n > 0 {
		off := at % 8
		take := 8 - off
		if take > n {
			take = n
		}
		shift := 8 - off - take
		mask := byte(1<<take-1) << shift
		c := byte(v>>(n-take)) << shift
		b.buf[at/8] = b.buf[at/8]&^mask | c&mask
		at += take
		n -= take
	}
}

// PutBit writes a single bit.
func (b *Buffer) PutBit(set bool) {
	var v uint64
	if set {
		v = 1
	}
	b.PutBits(v, 1)
}

// SkipBits moves the read cursor n bits forward.
func (b *Buffer) SkipBits(n int) {
	if !b.CanReadBits(n) {
		b.rerr = true
		return
	}
	b.pos += n
}

// SkipBytes moves the read cursor n bytes forward.
func (b *Buffer) SkipBytes(n int) { b.SkipBits(n * 8) }

// SkipReservedBits moves the read cursor over n reserved bits. Reserved bits
// that are not 1 are counted but do not fail the read.
func (b *Buffer) SkipReservedBits(n int) {
	if !b.CanReadBits(n) {
		b.rerr = true
		return
	}
	for ; n > 0; n-- {
		if !b.GetBit() {
			b.reserved++
		}
	}
}

// PutReservedBits writes n bits set to 1.
func (b *Buffer) PutReservedBits(n int) {
	for n > MaxBits {
		b.PutBits(^uint64(0), MaxBits)
		n -= MaxBits
	}
	b.PutBits(^uint64(0), n)
}

// PutZeroBits writes n bits set to 0.
func (b *Buffer) PutZeroBits(n int) {
	for n > MaxBits {
		b.PutBits(0, MaxBits)
		n -= MaxBits
	}
	b.PutBits(0, n)
}
