/*
NAME
  buffer_test.go

DESCRIPTION
  buffer_test.go provides testing for the Buffer type.

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

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/icza/bitio"
)

const (
	errNotExpectedOut = "did not get expected output: \ngot : %v, \nwant: %v"
	errUnexpectedErr  = "unexpected error: %v"
)

// TestGetBits checks field reads against the example given for the h264 bit
// reader: 1000 1111, 1110 0011.
func TestGetBits(t *testing.T) {
	b := NewReader([]byte{0x8f, 0xe3})
	tests := []struct {
		n    int
		want uint64
	}{
		{n: 4, want: 0x8},
		{n: 2, want: 0x3},
		{n: 4, want: 0xf},
		{n: 6, want: 0x23},
	}
	for i, test := range tests {
		got := b.GetBits(test.n)
		if got != test.want {
			t.Errorf("did not get expected result for test %d: got %#x, want %#x", i, got, test.want)
		}
	}
	if !b.EndOfRead() {
		t.Error("expected end of read")
	}
	if b.HasError() {
		t.Errorf(errUnexpectedErr, b.Err())
	}
}

// TestGetBitsOracle compares random width reads with an independent bit reader.
func TestGetBitsOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 512)
	rng.Read(data)

	b := NewReader(data)
	r := bitio.NewReader(bytes.NewReader(data))
	for b.RemainingReadBits() > 0 {
		n := 1 + rng.Intn(64)
		if n > b.RemainingReadBits() {
			n = b.RemainingReadBits()
		}
		want, err := r.ReadBits(uint8(n))
		if err != nil {
			t.Fatalf(errUnexpectedErr, err)
		}
		got := b.GetBits(n)
		if got != want {
			t.Fatalf("read of %d bits at offset %d: got %#x, want %#x", n, b.BitOffset()-n, got, want)
		}
	}
	if b.HasError() {
		t.Errorf(errUnexpectedErr, b.Err())
	}
}

// TestPutBitsOracle writes random width fields and reads them back with an
// independent bit reader.
func TestPutBitsOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	type field struct {
		v uint64
		n int
	}
	var fields []field
	total := 0
	for total < 2000 {
		n := 1 + rng.Intn(64)
		v := rng.Uint64()
		if n < 64 {
			v &= 1<<n - 1
		}
		fields = append(fields, field{v, n})
		total += n
	}

	w := NewWriter((total + 7) / 8)
	for _, f := range fields {
		w.PutBits(f.v, f.n)
	}
	if w.HasError() {
		t.Fatalf(errUnexpectedErr, w.Err())
	}

	r := bitio.NewReader(bytes.NewReader(w.Bytes()))
	for i, f := range fields {
		got, err := r.ReadBits(uint8(f.n))
		if err != nil {
			t.Fatalf(errUnexpectedErr, err)
		}
		if got != f.v {
			t.Fatalf("field %d: got %#x, want %#x", i, got, f.v)
		}
	}
}

// TestReadPastEnd checks that reading beyond the data latches an error rather
// than panicking, and that the cursor does not move.
func TestReadPastEnd(t *testing.T) {
	b := NewReader([]byte{0xff})
	if got := b.GetBits(4); got != 0xf {
		t.Errorf(errNotExpectedOut, got, 0xf)
	}
	if got := b.GetBits(8); got != 0 {
		t.Errorf(errNotExpectedOut, got, 0)
	}
	if !b.ReadError() {
		t.Error("expected read error")
	}
	if b.BitOffset() != 4 {
		t.Errorf("cursor moved: got %d, want 4", b.BitOffset())
	}
	if got := b.GetBits(1); got != 0 {
		t.Errorf("read after error: got %d, want 0", got)
	}
	if !errors.Is(b.Err(), ErrRead) {
		t.Errorf("expected ErrRead, got %v", b.Err())
	}
}

func TestWritePastCapacity(t *testing.T) {
	w := NewWriter(1)
	w.PutBits(0x5, 4)
	w.PutBits(0xff, 8)
	if !w.WriteError() {
		t.Error("expected write error")
	}
	if got, want := w.Bytes(), []byte{0x50}; !bytes.Equal(got, want) {
		t.Errorf(errNotExpectedOut, got, want)
	}
}

// TestBCDRoundTrip checks that every value representable in the number of
// digits survives an encode and decode, including odd digit counts.
func TestBCDRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for digits := 1; digits <= 16; digits++ {
		max := uint64(1)
		for i := 0; i < digits; i++ {
			max *= 10
		}
		for i := 0; i < 100; i++ {
			v := rng.Uint64() % max
			w := NewWriter(8)
			w.PutBCD(v, digits)
			r := NewReader(w.Bytes())
			got := r.GetBCD(digits)
			if got != v || r.HasError() {
				t.Fatalf("digits %d: got %d (err %v), want %d", digits, got, r.Err(), v)
			}
		}
	}
}

func TestBCDLayout(t *testing.T) {
	w := NewWriter(4)
	w.PutBCD(4750000, 8)
	if got, want := w.Bytes(), []byte{0x04, 0x75, 0x00, 0x00}; !bytes.Equal(got, want) {
		t.Errorf(errNotExpectedOut, got, want)
	}

	// Seven digits followed by a nibble.
	r := NewReader([]byte{0x00, 0x68, 0x00, 0x04})
	if got := r.GetBCD(7); got != 68000 {
		t.Errorf(errNotExpectedOut, got, 68000)
	}
	if got := r.GetBits(4); got != 4 {
		t.Errorf(errNotExpectedOut, got, 4)
	}
}

func TestBCDInvalidNibble(t *testing.T) {
	r := NewReader([]byte{0x1a})
	if got := r.GetBCD(2); got != 0 {
		t.Errorf(errNotExpectedOut, got, 0)
	}
	if !r.ReadError() {
		t.Error("expected read error for nibble 0xa")
	}
}

func TestReservedBits(t *testing.T) {
	w := NewWriter(2)
	w.PutReservedBits(12)
	w.PutBits(0x2, 4)
	if got, want := w.Bytes(), []byte{0xff, 0xf2}; !bytes.Equal(got, want) {
		t.Errorf(errNotExpectedOut, got, want)
	}

	r := NewReader([]byte{0xf7, 0xf2})
	r.SkipReservedBits(12)
	if got := r.GetBits(4); got != 2 {
		t.Errorf(errNotExpectedOut, got, 2)
	}
	if r.ReservedBitsErrors() != 1 {
		t.Errorf("reserved bit errors: got %d, want 1", r.ReservedBitsErrors())
	}
	if r.HasError() {
		t.Errorf(errUnexpectedErr, r.Err())
	}
}

// TestReadRegions checks nested length prefixed regions, including skipping of
// unread bytes when a region is popped.
func TestReadRegions(t *testing.T) {
	data := []byte{
		0x04,       // Outer length.
		0xaa,       // Outer field.
		0x02,       // Inner length.
		0x01, 0x02, // Inner data, only the first byte is read.
		0xbb, // Trailing field.
	}
	b := NewReader(data)
	if !b.PushReadSizeFromLength(8) {
		t.Fatalf(errUnexpectedErr, b.Err())
	}
	if got := b.GetUint8(); got != 0xaa {
		t.Errorf(errNotExpectedOut, got, 0xaa)
	}
	if !b.PushReadSizeFromLength(8) {
		t.Fatalf(errUnexpectedErr, b.Err())
	}
	if b.RemainingReadBytes() != 2 {
		t.Errorf("inner remaining: got %d, want 2", b.RemainingReadBytes())
	}
	b.GetUint8()
	b.PopReadSize()
	if !b.EndOfRead() {
		t.Error("expected outer region to be consumed")
	}
	b.PopReadSize()
	if got := b.GetUint8(); got != 0xbb {
		t.Errorf(errNotExpectedOut, got, 0xbb)
	}
	if b.HasError() || b.Depth() != 0 {
		t.Errorf("unexpected state: err %v depth %d", b.Err(), b.Depth())
	}
}

func TestReadRegionTooLong(t *testing.T) {
	b := NewReader([]byte{0x05, 0x01, 0x02})
	if b.PushReadSizeFromLength(8) {
		t.Error("expected push to fail")
	}
	if !b.ReadError() {
		t.Error("expected read error")
	}
	b.PopReadSize()
	if b.Depth() != 0 {
		t.Errorf("depth: got %d, want 0", b.Depth())
	}
}

func TestReadRegionReadBeyond(t *testing.T) {
	b := NewReader([]byte{0x01, 0x01, 0x02})
	b.PushReadSizeFromLength(8)
	b.GetUint16()
	if !b.ReadError() {
		t.Error("expected read error reading beyond region")
	}
}

// TestWriteSequence checks back-patching of a 12 bit length preceded by 4
// reserved bits, the layout of a descriptor loop.
func TestWriteSequence(t *testing.T) {
	w := NewWriter(16)
	w.PutReservedBits(4)
	w.PushWriteSequenceWithLeadingLength(12)
	w.PutUint8(0x0a)
	w.PushWriteSequenceWithLeadingLength(8)
	w.PutUint16(0x1234)
	w.PutBits(0x1, 3)
	w.PopWriteSequence()
	w.PopWriteSequence()
	if w.HasError() {
		t.Fatalf(errUnexpectedErr, w.Err())
	}
	want := []byte{0xf0, 0x05, 0x0a, 0x03, 0x12, 0x34, 0x20}
	if got := w.Bytes(); !bytes.Equal(got, want) {
		t.Errorf(errNotExpectedOut, got, want)
	}
}

func TestWriteSequenceOverflow(t *testing.T) {
	w := NewWriter(300)
	w.PushWriteSequenceWithLeadingLength(8)
	w.PutBytes(make([]byte, 256))
	if w.PopWriteSequence() {
		t.Error("expected pop to fail")
	}
	if !w.WriteError() {
		t.Error("expected write error")
	}
}

func TestUnbalancedPop(t *testing.T) {
	b := NewReader([]byte{0x00})
	if b.PopReadSize() {
		t.Error("expected pop to fail")
	}
	if !b.UserError() {
		t.Error("expected user error")
	}
}

func TestGeneric(t *testing.T) {
	w := NewWriter(2)
	Put(w, int16(-1), 12)
	Put(w, uint8(3), 4)
	r := NewReader(w.Bytes())
	if got := Get[uint16](r, 12); got != 0xfff {
		t.Errorf(errNotExpectedOut, got, 0xfff)
	}
	if got := Get[int](r, 4); got != 3 {
		t.Errorf(errNotExpectedOut, got, 3)
	}
}

func TestStrings(t *testing.T) {
	w := NewWriter(8)
	w.PutString("CUEI", 8)
	r := NewReader(w.Bytes())
	if got := r.GetString(8); got != "CUEI" {
		t.Errorf(errNotExpectedOut, got, "CUEI")
	}
}

func FuzzRegions(f *testing.F) {
	f.Add([]byte{0x02, 0x01, 0x00})
	f.Add([]byte{0xff})
	f.Fuzz(func(t *testing.T, data []byte) {
		b := NewReader(data)
		for !b.EndOfRead() && !b.HasError() {
			b.PushReadSizeFromLength(8)
			b.GetBCD(3)
			b.SkipReservedBits(1)
			b.PopReadSize()
		}
	})
}
