/*
NAME
  psi.go

DESCRIPTION
  psi.go provides parsing and building of the PAT and PMT sections which
  carry program and elementary stream descriptor loops.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package psi provides encoding and decoding of MPEG-TS program specific
// information sections.
package psi

import (
	"encoding/binary"

	gotspsi "github.com/Comcast/gots/psi"
	"github.com/pkg/errors"

	"github.com/ausocean/tsmeta/container/mts/bits"
)

// PacketSize of psi (without MPEG-TS header)
const PacketSize = 184

// Table IDs.
const (
	PATID = 0x00
	PMTID = 0x02
)

// Section header sizes.
const (
	headerSize = 3 // table_id and section_length.
	syntaxSize = 5 // Extension, version, section numbers.
	crcSize    = 4
)

// Maximum section_length of a PAT or PMT.
const maxSectionLen = 1021

// MetadataTag is the descriptor tag used for metadata.
const MetadataTag = 0x26

var (
	ErrShortSection = errors.New("section too short")
	ErrNotPMT       = errors.New("section is not a PMT")
	ErrNotPAT       = errors.New("section is not a PAT")
	ErrBadCRC       = errors.New("section CRC mismatch")
	ErrTooLong      = errors.New("section too long")
)

// Section is a PSI packet payload: a pointer field followed by a section.
type Section []byte

// start returns the index of the table_id.
func (s Section) start() int { return 1 + int(s[0]) }

// check ensures the section header and declared length fit within s.
func (s Section) check() error {
	if len(s) == 0 || s.start()+headerSize > len(s) {
		return ErrShortSection
	}
	if s.start()+headerSize+int(s.SectionLength()) > len(s) {
		return errors.Wrapf(ErrShortSection, "section_length %d exceeds %d available bytes", s.SectionLength(), len(s)-s.start()-headerSize)
	}
	return nil
}

// TableID returns the table_id of the section.
func (s Section) TableID() uint8 { return gotspsi.TableID(s) }

// SectionLength returns the section_length field.
func (s Section) SectionLength() uint16 { return gotspsi.SectionLength(s) }

// Table returns the section from table_id up to and including the CRC.
func (s Section) Table() ([]byte, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s[s.start() : s.start()+headerSize+int(s.SectionLength())], nil
}

// CRCValid reports whether the CRC of the section is correct.
func (s Section) CRCValid() bool {
	t, err := s.Table()
	if err != nil || len(t) < headerSize+crcSize {
		return false
	}
	return CRC(t[:len(t)-crcSize]) == binary.BigEndian.Uint32(t[len(t)-crcSize:])
}

// Stream is an elementary stream entry of a PMT.
type Stream struct {
	Type        uint8
	PID         uint16
	Descriptors []byte // ES_info descriptor loop.
}

// PMT is a single section program map table.
type PMT struct {
	Program     uint16
	Version     uint8
	PCRPID      uint16
	Descriptors []byte // Program info descriptor loop.
	Streams     []Stream
}

// ParsePMT decodes a PMT section.
func ParsePMT(s Section) (*PMT, error) {
	t, err := s.Table()
	if err != nil {
		return nil, err
	}
	if t[0] != PMTID {
		return nil, errors.Wrapf(ErrNotPMT, "table_id 0x%02X", t[0])
	}
	if !s.CRCValid() {
		return nil, ErrBadCRC
	}

	b := bits.NewReader(t[headerSize : len(t)-crcSize])
	p := &PMT{}
	p.Program = b.GetUint16()
	b.SkipReservedBits(2)
	p.Version = bits.Get[uint8](b, 5)
	b.SkipBits(1 + 16) // current_next, section numbers.
	b.SkipReservedBits(3)
	p.PCRPID = bits.Get[uint16](b, 13)
	b.SkipReservedBits(4)
	b.PushReadSizeFromLength(12)
	p.Descriptors = b.GetRemaining()
	b.PopReadSize()
	for b.CanReadBytes(5) {
		var st Stream
		st.Type = b.GetUint8()
		b.SkipReservedBits(3)
		st.PID = bits.Get[uint16](b, 13)
		b.SkipReservedBits(4)
		b.PushReadSizeFromLength(12)
		st.Descriptors = b.GetRemaining()
		b.PopReadSize()
		p.Streams = append(p.Streams, st)
	}
	if b.HasError() || !b.EndOfRead() {
		return p, errors.Wrap(ErrShortSection, "malformed PMT loops")
	}
	return p, nil
}

// Bytes returns the PMT as a section with a zero pointer field and CRC.
func (p *PMT) Bytes() ([]byte, error) {
	b := bits.NewWriter(1 + headerSize + maxSectionLen)
	b.PutUint8(0) // Pointer field.
	b.PutUint8(PMTID)
	b.PutBit(true) // section_syntax_indicator.
	b.PutBit(false)
	b.PutReservedBits(2)
	b.PushWriteSequenceWithLeadingLength(12)
	b.PutUint16(p.Program)
	b.PutReservedBits(2)
	b.PutBits(uint64(p.Version), 5)
	b.PutBit(true) // current_next_indicator.
	b.PutUint16(0) // section_number, last_section_number.
	b.PutReservedBits(3)
	b.PutBits(uint64(p.PCRPID), 13)
	b.PutReservedBits(4)
	b.PushWriteSequenceWithLeadingLength(12)
	b.PutBytes(p.Descriptors)
	b.PopWriteSequence()
	for _, s := range p.Streams {
		b.PutUint8(s.Type)
		b.PutReservedBits(3)
		b.PutBits(uint64(s.PID), 13)
		b.PutReservedBits(4)
		b.PushWriteSequenceWithLeadingLength(12)
		b.PutBytes(s.Descriptors)
		b.PopWriteSequence()
	}
	b.PutUint32(0) // CRC placeholder.
	b.PopWriteSequence()
	if b.HasError() {
		return nil, ErrTooLong
	}
	out := b.Bytes()
	if len(out)-1-headerSize > maxSectionLen {
		return nil, ErrTooLong
	}
	UpdateCrc(out[1:])
	return out, nil
}

// BuildPAT returns a single program PAT section with a zero pointer field
// and CRC.
func BuildPAT(program, pmtPID uint16) []byte {
	b := bits.NewWriter(1 + headerSize + syntaxSize + 4 + crcSize)
	b.PutUint8(0)
	b.PutUint8(PATID)
	b.PutBit(true)
	b.PutBit(false)
	b.PutReservedBits(2)
	b.PushWriteSequenceWithLeadingLength(12)
	b.PutUint16(1) // transport_stream_id.
	b.PutReservedBits(2)
	b.PutBits(0, 5)
	b.PutBit(true)
	b.PutUint16(0)
	b.PutUint16(program)
	b.PutReservedBits(3)
	b.PutBits(uint64(pmtPID), 13)
	b.PutUint32(0)
	b.PopWriteSequence()
	out := b.Bytes()
	UpdateCrc(out[1:])
	return out
}

// AddPadding pads a section to fill the payload of an MPEG-TS packet.
func AddPadding(d []byte) []byte {
	t := make([]byte, PacketSize)
	copy(t, d)
	padding := t[len(d):]
	for i := range padding {
		padding[i] = 0xff
	}
	return t
}
