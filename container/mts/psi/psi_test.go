/*
NAME
  psi_test.go

DESCRIPTION
  psi_test.go provides testing of PAT and PMT building and parsing.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const (
	errNotExpectedOut = "Did not get expected output: \ngot : %v, \nwant: %v"
	errUnexpectedErr  = "Unexpected error: %v\n"
)

var (
	// standardPat is a minimal PAT for program 1 with PMT PID 0x1000.
	standardPat = []byte{
		0x00,             // Pointer.
		0x00, 0xb0, 0x0d, // Table ID, section length.
		0x00, 0x01, 0xc1, 0x00, 0x00, // Table ID extension, version, section numbers.
		0x00, 0x01, 0xf0, 0x00, // Program 1, PMT PID.
		0x2a, 0xb1, 0x04, 0xb2, // CRC.
	}

	// standardPmt is a minimal PMT with one H.264 stream and no descriptors.
	standardPmt = []byte{
		0x00,
		0x02, 0xb0, 0x12,
		0x00, 0x01, 0xc1, 0x00, 0x00,
		0xe1, 0x00, // PCR PID.
		0xf0, 0x00, // Program info length.
		0x1b, 0xe1, 0x00, 0xf0, 0x00, // Stream.
		0x15, 0xbd, 0x4d, 0x56,
	}
)

func TestBuildPAT(t *testing.T) {
	got := BuildPAT(1, 0x1000)
	if !bytes.Equal(got, standardPat) {
		t.Errorf(errNotExpectedOut, got, standardPat)
	}
	if !Section(got).CRCValid() {
		t.Error("expected valid CRC")
	}
	if Section(got).TableID() != PATID {
		t.Errorf("unexpected table ID: %d", Section(got).TableID())
	}
}

func TestPMTBytes(t *testing.T) {
	p := &PMT{Program: 1, PCRPID: 0x100, Streams: []Stream{{Type: 0x1b, PID: 0x100}}}
	got, err := p.Bytes()
	if err != nil {
		t.Fatalf(errUnexpectedErr, err)
	}
	if !bytes.Equal(got, standardPmt) {
		t.Errorf(errNotExpectedOut, got, standardPmt)
	}
}

func TestPMTRoundTrip(t *testing.T) {
	want := &PMT{
		Program:     3,
		Version:     7,
		PCRPID:      0x101,
		Descriptors: []byte{0x26, 0x03, 0x00, 0x10, 0x00},
		Streams: []Stream{
			{Type: 0x1b, PID: 0x101, Descriptors: []byte{0x02, 0x01, 0x18}},
			{Type: 0x0f, PID: 0x102},
		},
	}
	b, err := want.Bytes()
	if err != nil {
		t.Fatalf(errUnexpectedErr, err)
	}
	s := Section(b)
	if !s.CRCValid() {
		t.Fatal("expected valid CRC")
	}
	if int(s.SectionLength()) != len(b)-1-3 {
		t.Errorf("unexpected section length: %d", s.SectionLength())
	}
	got, err := ParsePMT(s)
	if err != nil {
		t.Fatalf(errUnexpectedErr, err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("PMT mismatch (-want +got):\n%s", diff)
	}

	// Padding after the section must be ignored.
	got, err = ParsePMT(AddPadding(b))
	if err != nil {
		t.Fatalf(errUnexpectedErr, err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("padded PMT mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePMTErrors(t *testing.T) {
	corrupt := append([]byte(nil), standardPmt...)
	corrupt[len(corrupt)-1] ^= 0xff

	badLoop := append([]byte(nil), standardPmt[:len(standardPmt)-4]...)
	badLoop[12] = 0x06 // Program info length beyond section.
	badLoop = AddCRC(badLoop)

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{name: "empty", in: nil, want: ErrShortSection},
		{name: "truncated", in: standardPmt[:10], want: ErrShortSection},
		{name: "PAT", in: standardPat, want: ErrNotPMT},
		{name: "bad CRC", in: corrupt, want: ErrBadCRC},
		{name: "bad loop", in: badLoop, want: ErrShortSection},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParsePMT(test.in)
			if !errors.Is(err, test.want) {
				t.Errorf("got error %v, want %v", err, test.want)
			}
		})
	}
}

func TestPMTTooLong(t *testing.T) {
	p := &PMT{Descriptors: make([]byte, 1024)}
	if _, err := p.Bytes(); !errors.Is(err, ErrTooLong) {
		t.Errorf("got error %v, want %v", err, ErrTooLong)
	}
}

func TestAddPadding(t *testing.T) {
	got := AddPadding(standardPat)
	if len(got) != PacketSize {
		t.Fatalf("unexpected length: %d", len(got))
	}
	if !bytes.Equal(got[:len(standardPat)], standardPat) {
		t.Errorf(errNotExpectedOut, got[:len(standardPat)], standardPat)
	}
	for i, b := range got[len(standardPat):] {
		if b != 0xff {
			t.Fatalf("byte %d of padding is 0x%02x", i, b)
		}
	}
}
