/*
NAME
  mpegts.go - provides functions for locating PSI in clips of MPEG-TS
  packets and decoding the descriptors carried by their PMTs.

DESCRIPTION
  See Readme.md

AUTHORS
  Saxon A. Nelson-Milton <saxon.milton@gmail.com>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mts provides functions for finding program specific information in
// MPEG-TS (mts) and decoding the descriptors it carries.
package mts

import (
	"fmt"
	"slices"

	"github.com/Comcast/gots/packet"
	gotspsi "github.com/Comcast/gots/psi"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/desc/mpeg"
	"github.com/ausocean/tsmeta/container/mts/desc/registry"
	"github.com/ausocean/tsmeta/container/mts/psi"
)

const PacketSize = 188

// Standard program IDs for program specific information MPEG-TS packets.
const (
	PatPid = 0
	PmtPid = 4096
)

// HeadSize is the size of an MPEG-TS packet header.
const HeadSize = 4

// Adaptation field control values of octet 3.
const (
	afcPayload    = 0x1
	afcAdaptation = 0x2
)

// Errors used by FindPid.
var (
	ErrInvalidLen = errors.New("MPEG-TS data not of valid length")
)

// FindPid will take a clip of MPEG-TS and try to find a packet with given PID - if one
// is found, then it is returned along with its index, otherwise nil, -1 and an error is returned.
func FindPid(d []byte, pid uint16) (pkt []byte, i int, err error) {
	if len(d) < PacketSize {
		return nil, -1, ErrInvalidLen
	}
	for i = 0; i+PacketSize <= len(d); i += PacketSize {
		p := (uint16(d[i+1]&0x1f) << 8) | uint16(d[i+2])
		if p == pid {
			pkt = d[i : i+PacketSize]
			return
		}
	}
	return nil, -1, fmt.Errorf("could not find packet with PID %d", pid)
}

// LastPid will take a clip of MPEG-TS and try to find a packet
// with given PID searching in reverse from the end of the clip. If
// one is found, then it is returned along with its index, otherwise
// nil, -1 and an error is returned.
func LastPid(d []byte, pid uint16) (pkt []byte, i int, err error) {
	if len(d) < PacketSize {
		return nil, -1, ErrInvalidLen
	}

	for i = len(d) - len(d)%PacketSize - PacketSize; i >= 0; i -= PacketSize {
		p := (uint16(d[i+1]&0x1f) << 8) | uint16(d[i+2])
		if p == pid {
			pkt = d[i : i+PacketSize]
			return
		}
	}
	return nil, -1, fmt.Errorf("could not find packet with PID %d", pid)
}

// Errors used by FindPSI.
var (
	ErrMultiplePrograms = errors.New("more than one program not supported")
	ErrNoPrograms       = errors.New("no programs in PAT")
	ErrNotConsecutive   = errors.New("could not find consecutive PIDs")
)

// FindPSI finds the first PAT in a slice of MPEG-TS and returns its index
// along with the PMT that directly follows it.
func FindPSI(d []byte) (int, *psi.PMT, error) {
	if len(d) < PacketSize {
		return -1, nil, ErrInvalidLen
	}

	pkt, i, err := FindPid(d, PatPid)
	if err != nil {
		return -1, nil, errors.Wrap(err, "error finding PAT")
	}

	// NB: currently we only support one program.
	progs, err := Programs(pkt)
	if err != nil {
		return i, nil, errors.Wrap(err, "cannot get programs from PAT")
	}
	switch {
	case len(progs) == 0:
		return i, nil, ErrNoPrograms
	case len(progs) > 1:
		return i, nil, ErrMultiplePrograms
	}

	pkt, pmtIdx, err := FindPid(d[i+PacketSize:], PMTPIDs(progs)[0])
	if err != nil {
		return i, nil, errors.Wrap(err, "error finding PMT")
	}
	if pmtIdx != 0 {
		return i, nil, ErrNotConsecutive
	}

	pmt, err := pmtFromPacket(pkt)
	if err != nil {
		return i, nil, err
	}
	return i, pmt, nil
}

// pmtFromPacket parses the PMT section carried by an MPEG-TS packet.
func pmtFromPacket(pkt []byte) (*psi.PMT, error) {
	payload, err := Payload(pkt)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get packet payload")
	}
	pmt, err := psi.ParsePMT(payload)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse PMT")
	}
	return pmt, nil
}

// ProgramDescriptors returns the program info descriptor loop of a PMT.
func ProgramDescriptors(reg *desc.Registry, pmt *psi.PMT, l logging.Logger) (*desc.List, error) {
	return desc.ParseList(reg, desc.TIDPMT, pmt.Descriptors, l)
}

// StreamDescriptors returns the ES info descriptor loop of each stream of a
// PMT, keyed by stream PID.
func StreamDescriptors(reg *desc.Registry, pmt *psi.PMT, l logging.Logger) (map[uint16]*desc.List, error) {
	m := make(map[uint16]*desc.List, len(pmt.Streams))
	for _, s := range pmt.Streams {
		list, err := desc.ParseList(reg, desc.TIDPMT, s.Descriptors, l)
		m[s.PID] = list
		if err != nil {
			return m, errors.Wrapf(err, "stream PID %d", s.PID)
		}
	}
	return m, nil
}

// PSIPacket returns a single MPEG-TS packet with the given PID and
// continuity counter carrying a PSI section that starts with its pointer
// field.
func PSIPacket(pid uint16, cc uint8, section []byte) ([]byte, error) {
	if len(section) > psi.PacketSize {
		return nil, errors.Errorf("section of %d bytes does not fit in one packet", len(section))
	}
	p := make([]byte, HeadSize, PacketSize)
	p[0] = 0x47
	p[1] = 0x40 | byte(pid>>8)&0x1f // PUSI set.
	p[2] = byte(pid)
	p[3] = afcPayload<<4 | cc&0x0f
	return append(p, psi.AddPadding(section)...), nil
}

// PID returns the packet identifier for the given packet.
func PID(p []byte) (uint16, error) {
	if len(p) < PacketSize {
		return 0, errors.New("packet length less than 188")
	}
	return uint16(p[1]&0x1f)<<8 | uint16(p[2]), nil
}

// Programs returns a map of program numbers and corresponding PMT PIDs for a
// given MPEG-TS PAT packet.
func Programs(p []byte) (map[uint16]uint16, error) {
	pat, err := gotspsi.NewPAT(p)
	if err != nil {
		return nil, err
	}
	m := make(map[uint16]uint16)
	for k, v := range pat.ProgramMap() {
		m[uint16(k)] = uint16(v)
	}
	return m, nil
}

// PMTPIDs returns the sorted PMT PIDs from a map containing program numbers
// as keys and corresponding PMT PIDs as values.
func PMTPIDs(m map[uint16]uint16) []uint16 {
	r := make([]uint16, 0, len(m))
	for _, v := range m {
		r = append(r, v)
	}
	slices.Sort(r)
	return r
}

// Errors used by Payload.
var ErrNoPayload = errors.New("no payload")

// Payload returns the payload of an MPEG-TS packet p.
// NB: this is not a copy of the payload in the interests of performance.
func Payload(p []byte) ([]byte, error) {
	if len(p) < PacketSize {
		return nil, ErrInvalidLen
	}
	c := (p[3] & 0x30) >> 4
	if c&afcPayload == 0 {
		return nil, ErrNoPayload
	}

	off := HeadSize
	if c&afcAdaptation != 0 {
		off += 1 + int(p[4])
	}
	if off >= PacketSize {
		return nil, ErrNoPayload
	}
	return p[off:], nil
}

var errNoMeta = errors.New("PMT does not contain meta")

// ExtractMeta returns a map of metadata from the first PMT's metadata
// descriptor that is found in the MPEG-TS clip d. d must contain a series of
// complete MPEG-TS packets.
func ExtractMeta(d []byte) (map[string]string, error) {
	pmt, _, err := FindPid(d, PmtPid)
	if err != nil {
		return nil, err
	}
	return metaFromPMT(pmt)
}

// metaFromPMT returns metadata, if any, from a PMT packet.
func metaFromPMT(d []byte) (map[string]string, error) {
	pmt, err := pmtFromPacket(d)
	if err != nil {
		return nil, err
	}
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	list, err := ProgramDescriptors(reg, pmt, nil)
	if err != nil {
		return nil, err
	}
	for i := list.Search(mpeg.TagMetadata, 0, 0); i < list.Len(); i = list.Search(mpeg.TagMetadata, i+1, 0) {
		c, err := list.Decode(i)
		if err != nil {
			return nil, err
		}
		if m, ok := c.(*mpeg.Metadata); ok {
			return m.All(), nil
		}
	}
	return nil, errNoMeta
}

// Errors used by TrimToMetaRange.
var (
	errMetaLowerBound = errors.New("'from' meta value not found")
	errMetaUpperBound = errors.New("'to' meta value not found")
)

// TrimToMetaRange trims a slice of MPEG-TS to a segment between two points of
// meta data described by key, from and to.
func TrimToMetaRange(d []byte, key, from, to string) ([]byte, error) {
	if len(d)%PacketSize != 0 {
		return nil, errors.New("MTS clip is not of valid size")
	}

	if from == to {
		return nil, errors.New("'from' and 'to' cannot be identical")
	}

	var (
		start = -1 // Index of the start of the segment in d.
		off   int  // Index of remaining slice of d to check after each PMT found.
	)

	for {
		if off >= len(d) {
			if start == -1 {
				return nil, errMetaLowerBound
			}
			return nil, errMetaUpperBound
		}
		pmt, idx, err := FindPid(d[off:], PmtPid)
		if err != nil {
			if start == -1 {
				return nil, errMetaLowerBound
			}
			return nil, errMetaUpperBound
		}
		off += idx + PacketSize

		meta, err := metaFromPMT(pmt)
		switch {
		case err == nil:
		case errors.Is(err, errNoMeta):
			continue
		default:
			return nil, err
		}

		if start == -1 {
			if meta[key] == from {
				start = off - PacketSize
			}
		} else if meta[key] == to {
			return d[start:off], nil
		}
	}
}

// SegmentForMeta returns segments of MTS slice d that correspond to a value of
// meta for key and val. Therefore, any sequence of packets corresponding to
// key and val will be appended to the returned [][]byte.
func SegmentForMeta(d []byte, key, val string) ([][]byte, error) {
	var (
		pkt        packet.Packet // We copy data to this so that we can use comcast gots stuff.
		segmenting bool          // If true we are currently in a segment corresponsing to given meta.
		res        [][]byte      // The resultant [][]byte holding the segments.
		start      int           // The start index of the current segment.
	)

	for i := 0; i+PacketSize <= len(d); i += PacketSize {
		copy(pkt[:], d[i:i+PacketSize])
		if pkt.PID() != PmtPid {
			continue
		}
		meta, err := metaFromPMT(pkt[:])
		switch {
		case err == nil:
		// If there's no meta or a problem with meta, we consider this the end
		// of the segment.
		case errors.Is(err, errNoMeta), errors.Is(err, desc.ErrMalformed):
			if segmenting {
				res = append(res, d[start:i])
				segmenting = false
			}
			continue
		default:
			return nil, err
		}

		if meta[key] == val && !segmenting {
			start = i
			segmenting = true
		} else if meta[key] != val && segmenting {
			res = append(res, d[start:i])
			segmenting = false
		}
	}

	// We've reached the end of the entire MTS clip so if we're segmenting we need
	// to append current segment to res.
	if segmenting {
		res = append(res, d[start:])
	}

	return res, nil
}
