/*
NAME
  encoder.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/realtime"

	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/desc/mpeg"
	"github.com/ausocean/tsmeta/container/mts/psi"
)

// These constants are used to select between the different methods of when
// the PSI is sent.
const (
	psiMethodPacket = iota // PSI is inserted after a certain number of packets.
	psiMethodTime          // PSI is inserted after a certain amount of time.
)

// The program IDs we assign to different types of media.
const (
	PIDVideo = 256
	PIDAudio = 210
)

// H264StreamType is the PMT stream type of H.264 video.
const H264StreamType = 0x1b

// If we are not using time based PSI intervals then we will send PSI every 7 packets.
const psiSendCount = 7

// Used to consistently read and write MTS metadata entries.
const (
	TimestampKey = "ts"
	LocationKey  = "loc"
)

// RealTime will help us obtain a realtime for timestamp meta encoding.
var RealTime = realtime.NewRealTime()

// Encoder inserts a PAT and a PMT, carrying a program descriptor loop, into
// a stream of MPEG-TS packets.
type Encoder struct {
	dst io.WriteCloser

	continuity map[uint16]byte

	psiMethod    int
	pktCount     int
	psiSendCount int
	psiTime      time.Duration
	psiSetTime   time.Duration
	startTime    time.Time

	pmt      psi.PMT
	descs    *desc.List
	meta     *mpeg.Metadata
	patBytes []byte

	// log is a function that will be used through the encoder code for logging.
	log logging.Logger
}

// NewEncoder returns an Encoder writing to dst. Program descriptors are
// resolved using reg.
func NewEncoder(dst io.WriteCloser, reg *desc.Registry, log logging.Logger, options ...func(*Encoder) error) (*Encoder, error) {
	e := &Encoder{
		dst:          dst,
		psiMethod:    psiMethodPacket,
		psiSendCount: psiSendCount,
		pktCount:     psiSendCount,
		continuity:   map[uint16]byte{PatPid: 0, PmtPid: 0},
		log:          log,
		pmt: psi.PMT{
			Program: 1,
			PCRPID:  PIDVideo,
			Streams: []psi.Stream{{Type: H264StreamType, PID: PIDVideo}},
		},
		descs: desc.NewList(reg, desc.TIDPMT, log),
		meta:  mpeg.NewMetadataWith(nil),
	}

	for _, option := range options {
		err := option(e)
		if err != nil {
			return nil, fmt.Errorf("option failed with error: %w", err)
		}
	}
	e.patBytes = psi.BuildPAT(e.pmt.Program, PmtPid)
	log.Debug("encoder options applied")
	return e, nil
}

// Descriptors returns the program descriptor loop written in each PMT.
func (e *Encoder) Descriptors() *desc.List { return e.descs }

// Meta returns the metadata written in each PMT. An empty metadata
// descriptor is omitted.
func (e *Encoder) Meta() *mpeg.Metadata { return e.meta }

// AddMeta adds or updates a metadata key.
func (e *Encoder) AddMeta(key, val string) { e.meta.Add(key, val) }

// DeleteMeta removes a metadata key.
func (e *Encoder) DeleteMeta(key string) { e.meta.Delete(key) }

// Write implements io.Writer. Write takes complete MPEG-TS packets and writes
// them to the encoder's destination, inserting PSI as configured. PAT and PMT
// packets already present in data are dropped.
func (e *Encoder) Write(data []byte) (int, error) {
	if len(data)%PacketSize != 0 {
		return 0, ErrInvalidLen
	}
	e.log.Debug("writing data", "len(data)", len(data))
	for i := 0; i < len(data); i += PacketSize {
		pkt := data[i : i+PacketSize]
		pid, _ := PID(pkt)
		if pid == PatPid || pid == PmtPid {
			continue
		}

		switch e.psiMethod {
		case psiMethodPacket:
			if e.pktCount >= e.psiSendCount {
				e.pktCount = 0
				err := e.writePSI()
				if err != nil {
					return i, fmt.Errorf("could not write psi (psiMethodPacket): %w", err)
				}
			}
		case psiMethodTime:
			if time.Since(e.startTime) >= e.psiTime {
				e.psiTime = e.psiSetTime
				e.startTime = time.Now()
				err := e.writePSI()
				if err != nil {
					return i, fmt.Errorf("could not write psi (psiMethodTime): %w", err)
				}
			}
		default:
			panic("undefined PSI method")
		}

		_, err := e.dst.Write(pkt)
		if err != nil {
			return i, fmt.Errorf("could not write MTS packet to destination: %w", err)
		}
		e.pktCount++
	}
	return len(data), nil
}

// WritePSI writes a PAT and PMT immediately.
func (e *Encoder) WritePSI() error { return e.writePSI() }

// writePSI writes the PAT followed by the PMT with its descriptor loop
// updated.
func (e *Encoder) writePSI() error {
	pat, err := PSIPacket(PatPid, e.ccFor(PatPid), e.patBytes)
	if err != nil {
		return fmt.Errorf("could not packetize pat: %w", err)
	}
	_, err = e.dst.Write(pat)
	if err != nil {
		return fmt.Errorf("could not write pat packet: %w", err)
	}
	e.pktCount++

	e.updateMeta()
	e.descs.RemoveByTag(mpeg.TagMetadata, 0)
	if len(e.meta.Keys()) != 0 {
		err = e.descs.Add(e.meta)
		if err != nil {
			return fmt.Errorf("could not update pmt metadata: %w", err)
		}
	}
	e.pmt.Descriptors = e.descs.Bytes()
	section, err := e.pmt.Bytes()
	if err != nil {
		return fmt.Errorf("could not build pmt: %w", err)
	}
	pmt, err := PSIPacket(PmtPid, e.ccFor(PmtPid), section)
	if err != nil {
		return fmt.Errorf("could not packetize pmt: %w", err)
	}
	_, err = e.dst.Write(pmt)
	if err != nil {
		return fmt.Errorf("could not write pmt packet: %w", err)
	}
	e.pktCount++

	e.log.Debug("PSI written", "descriptors", e.descs.Len())
	return nil
}

// updateMeta adds the current real time to the metadata descriptor, if the
// real time is known.
func (e *Encoder) updateMeta() {
	if !RealTime.IsSet() {
		return
	}
	t := strconv.Itoa(int(RealTime.Get().Unix()))
	e.meta.Add(TimestampKey, t)
	e.log.Debug("latest time added to meta", "time", t)
}

// ccFor returns the next continuity counter for pid.
func (e *Encoder) ccFor(pid uint16) byte {
	cc := e.continuity[pid]
	const continuityCounterMask = 0xf
	e.continuity[pid] = (cc + 1) & continuityCounterMask
	return cc
}

func (e *Encoder) Close() error {
	e.log.Debug("closing encoder")
	return e.dst.Close()
}
