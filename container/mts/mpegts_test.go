/*
NAME
  mpegts_test.go

DESCRIPTION
  mpegts_test.go contains testing for functionality found in mpegts.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"bytes"
	"reflect"
	"strconv"
	"testing"

	"github.com/Comcast/gots/packet"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/desc/mpeg"
	"github.com/ausocean/tsmeta/container/mts/desc/registry"
	"github.com/ausocean/tsmeta/container/mts/psi"
)

// TestFindPid checks that FindPid can correctly extract the first instance
// of a PID from an MPEG-TS stream.
func TestFindPid(t *testing.T) {
	const targetPacketNum, numOfPackets, targetPid, stdPid = 6, 15, 1, 0

	// Prepare the stream of packets.
	var stream []byte
	for i := 0; i < numOfPackets; i++ {
		pid := uint16(stdPid)
		if i == targetPacketNum {
			pid = targetPid
		}
		stream = append(stream, mediaPacket(pid, byte(i))...)
	}

	// Try to find the targetPid in the stream.
	p, i, err := FindPid(stream, targetPid)
	if err != nil {
		t.Fatalf("unexpected error finding PID: %v\n", err)
	}

	// Check the payload.
	var _p packet.Packet
	copy(_p[:], p)
	payload, err := packet.Payload(&_p)
	if err != nil {
		t.Fatalf("unexpected error getting packet payload: %v\n", err)
	}
	got := payload[0]
	if got != targetPacketNum {
		t.Errorf("payload of found packet is not correct.\nGot: %v, Want: %v\n", got, targetPacketNum)
	}

	// Check the index.
	_got := i / PacketSize
	if _got != targetPacketNum {
		t.Errorf("index of found packet is not correct.\nGot: %v, want: %v\n", _got, targetPacketNum)
	}

	// LastPid finds the final packet of the standard PID.
	_, i, err = LastPid(stream, stdPid)
	if err != nil {
		t.Fatalf("unexpected error finding PID: %v\n", err)
	}
	if i/PacketSize != numOfPackets-1 {
		t.Errorf("index of last packet is not correct.\nGot: %v, want: %v\n", i/PacketSize, numOfPackets-1)
	}

	if _, _, err := FindPid(stream, 0x1fff); err == nil {
		t.Error("expected error finding absent PID")
	}
	if _, _, err := FindPid(stream[:PacketSize-1], stdPid); err != ErrInvalidLen {
		t.Errorf("got error %v, want %v", err, ErrInvalidLen)
	}
}

func TestPayload(t *testing.T) {
	p := mediaPacket(PIDVideo, 9)
	got, err := Payload(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != PacketSize-HeadSize || got[0] != 9 {
		t.Errorf("unexpected payload: %v", got[:2])
	}

	// Adaptation field of 5 bytes followed by payload.
	af := append([]byte(nil), p...)
	af[3] = 0x30
	af[4] = 5
	got, err = Payload(af)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != PacketSize-HeadSize-6 {
		t.Errorf("unexpected payload length: %d", len(got))
	}

	// Adaptation field only.
	af[3] = 0x20
	if _, err := Payload(af); err != ErrNoPayload {
		t.Errorf("got error %v, want %v", err, ErrNoPayload)
	}
}

func TestPSIPacket(t *testing.T) {
	pat := psi.BuildPAT(1, PmtPid)
	p, err := PSIPacket(PatPid, 3, pat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p) != PacketSize {
		t.Fatalf("unexpected packet length: %d", len(p))
	}
	if p[1]&0x40 == 0 {
		t.Error("expected payload unit start indicator")
	}
	if cc := p[3] & 0x0f; cc != 3 {
		t.Errorf("unexpected continuity counter: %d", cc)
	}

	progs, err := Programs(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := map[uint16]uint16{1: PmtPid}; !reflect.DeepEqual(progs, want) {
		t.Errorf("unexpected programs: got %v, want %v", progs, want)
	}

	if _, err := PSIPacket(PatPid, 0, make([]byte, psi.PacketSize+1)); err == nil {
		t.Error("expected error for oversized section")
	}
}

func TestPMTPIDs(t *testing.T) {
	got := PMTPIDs(map[uint16]uint16{3: 0x300, 1: 0x100, 2: 0x200})
	want := []uint16{0x100, 0x200, 0x300}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// TestTrimToMetaRange checks that TrimToMetaRange can correctly return a segment
// of MPEG-TS corresponding to a meta interval in a slice of MPEG-TS.
func TestTrimToMetaRange(t *testing.T) {
	const (
		nPSI = 10
		key  = "n"
	)

	var clip bytes.Buffer
	e := newEncoder(t, &clip)

	for i := 0; i < nPSI; i++ {
		e.AddMeta(key, strconv.Itoa((i*2)+1))
		err := e.WritePSI()
		if err != nil {
			t.Fatalf("did not expect to get error writing PSI, error: %v", err)
		}
	}

	tests := []struct {
		from   string
		to     string
		expect []byte
		err    error
	}{
		{
			from:   "3",
			to:     "9",
			expect: clip.Bytes()[3*PacketSize : 10*PacketSize],
			err:    nil,
		},
		{
			from:   "30",
			to:     "8",
			expect: nil,
			err:    errMetaLowerBound,
		},
		{
			from:   "3",
			to:     "30",
			expect: nil,
			err:    errMetaUpperBound,
		},
	}

	for i, test := range tests {
		got, err := TrimToMetaRange(clip.Bytes(), key, test.from, test.to)
		if err != test.err {
			t.Errorf("unexpected error: %v for test: %v, want: %v", err, i, test.err)
			continue
		}
		if test.err == nil && !bytes.Equal(test.expect, got) {
			t.Errorf("did not get expected data for test: %v\n Got: %v\n, Want: %v\n", i, got, test.expect)
		}
	}

	if _, err := TrimToMetaRange(clip.Bytes()[1:], key, "3", "9"); err == nil {
		t.Error("expected error for clip of invalid size")
	}
	if _, err := TrimToMetaRange(clip.Bytes(), key, "3", "3"); err == nil {
		t.Error("expected error for identical bounds")
	}
}

// TestSegmentForMeta checks that SegmentForMeta can correctly segment some MTS
// data based on a given meta key and value.
func TestSegmentForMeta(t *testing.T) {
	// Copyright information prefixed to all metadata.
	const (
		metaPreambleKey  = "copyright"
		metaPreambleData = "ausocean.org/license/content2019"
	)

	const (
		nPSI = 10  // The number of PSI pairs to write.
		key  = "n" // The meta key we will work with.
		val  = "*" // This is the meta value we will look for.
	)

	tests := []struct {
		metaVals   [nPSI]string // This represents the meta value for meta pairs (PAT and PMT)
		expectIdxs []rng        // This gives the expected index ranges for the segments.
	}{
		{
			metaVals: [nPSI]string{"1", "2", val, val, val, "3", val, val, "4", "4"},
			expectIdxs: []rng{
				scale(2, 5),
				scale(6, 8),
			},
		},
		{
			metaVals: [nPSI]string{"1", "2", val, val, val, "", "3", val, val, "4"},
			expectIdxs: []rng{
				scale(2, 5),
				scale(7, 9),
			},
		},
		{
			metaVals: [nPSI]string{"1", "2", val, val, val, "", "3", val, val, val},
			expectIdxs: []rng{
				scale(2, 5),
				{((7 * 2) + 1) * PacketSize, (nPSI * 2) * PacketSize},
			},
		},
		{
			metaVals:   [nPSI]string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
			expectIdxs: nil,
		},
	}

	var clip bytes.Buffer

	for testn, test := range tests {
		// We want a clean buffer for each new test, so reset.
		clip.Reset()
		e := newEncoder(t, &clip)
		e.AddMeta(metaPreambleKey, metaPreambleData)

		// Add meta and write PSI to clip.
		for i := 0; i < nPSI; i++ {
			if test.metaVals[i] != "" {
				e.AddMeta(key, test.metaVals[i])
			} else {
				e.DeleteMeta(key)
			}
			err := e.WritePSI()
			if err != nil {
				t.Fatalf("did not expect to get error writing PSI, error: %v", err)
			}
		}

		// Now we get the expected segments using the index ranges from the test.
		var want [][]byte
		for _, idxs := range test.expectIdxs {
			want = append(want, clip.Bytes()[idxs.start:idxs.end])
		}

		got, err := SegmentForMeta(clip.Bytes(), key, val)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(want, got) {
			t.Errorf("did not get expected result for test %v\nGot: %v\nWant: %v\n", testn, got, want)
		}

		// Now test FindPSI.
		i, pmt, err := FindPSI(clip.Bytes())
		if err != nil {
			t.Fatalf("FindPSI failed with error: %v", err)
		}
		if i != 0 {
			t.Fatalf("FindPSI unexpected index; got %d, expected 0", i)
		}
		m, err := metaFromPMT(clip.Bytes()[PacketSize : 2*PacketSize])
		if err != nil {
			t.Fatalf("could not get meta: %v", err)
		}
		if m["n"] != "1" {
			t.Fatalf("unexpected metadata; got %s, expected 1", m["n"])
		}
		if len(pmt.Streams) != 1 || pmt.Streams[0].PID != PIDVideo {
			t.Fatalf("unexpected streams: %+v", pmt.Streams)
		}
	}

	// Finally, test FindPSI error handling.
	for _, d := range [][]byte{{}, make([]byte, PacketSize/2), make([]byte, PacketSize)} {
		_, _, err := FindPSI(d)
		if err == nil {
			t.Fatalf("FindPSI expected error")
		}
	}
}

type rng struct {
	start int
	end   int
}

// scale takes a PSI pair index range and converts it to the packet index
// range of the PMTs.
func scale(x, y int) rng {
	return rng{
		((x * 2) + 1) * PacketSize,
		((y * 2) + 1) * PacketSize,
	}
}

func TestFindPSINotConsecutive(t *testing.T) {
	p, err := PSIPacket(PatPid, 0, psi.BuildPAT(1, PmtPid))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clip := append(p, mediaPacket(PIDVideo, 0)...)
	pmt, err := (&psi.PMT{Program: 1, PCRPID: PIDVideo}).Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err = PSIPacket(PmtPid, 0, pmt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clip = append(clip, p...)

	_, _, err = FindPSI(clip)
	if !errors.Is(err, ErrNotConsecutive) {
		t.Errorf("got error %v, want %v", err, ErrNotConsecutive)
	}
}

func TestStreamDescriptors(t *testing.T) {
	video := mpeg.VideoStream{FrameRateCode: 3, ProfileLevel: 0x48, ChromaFormat: 1}
	video.SetValid(true)
	reg := registry.MustDefault()
	l := desc.NewList(reg, desc.TIDPMT, nil)
	if err := l.Add(&video); err != nil {
		t.Fatalf("could not add descriptor: %v", err)
	}

	pmt := &psi.PMT{
		Program: 1,
		PCRPID:  PIDVideo,
		Streams: []psi.Stream{
			{Type: H264StreamType, PID: PIDVideo, Descriptors: l.Bytes()},
			{Type: 0x0f, PID: PIDAudio},
		},
	}
	m, err := StreamDescriptors(reg, pmt, (*logging.TestLogger)(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m[PIDVideo].Len() != 1 || m[PIDAudio].Len() != 0 {
		t.Fatalf("unexpected descriptor counts: %d, %d", m[PIDVideo].Len(), m[PIDAudio].Len())
	}
	c, err := m[PIDVideo].Decode(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*mpeg.VideoStream); !ok {
		t.Errorf("unexpected codec type %T", c)
	}

	pmt.Streams[1].Descriptors = []byte{0x02, 0x05, 0x00}
	if _, err := StreamDescriptors(reg, pmt, (*logging.TestLogger)(t)); err == nil {
		t.Error("expected error for truncated descriptor loop")
	}
}
