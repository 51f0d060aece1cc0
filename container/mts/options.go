/*
NAME
  options.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"errors"
	"time"

	"github.com/ausocean/tsmeta/container/mts/psi"
)

var (
	ErrInvalidSendCount = errors.New("invalid PSI send count")
	ErrNoStreams        = errors.New("no elementary streams")
)

// PacketBasedPSI is an option that can be passed to NewEncoder to select
// packet based PSI writing, i.e. PSI are written to the destination every
// sendCount packets.
func PacketBasedPSI(sendCount int) func(*Encoder) error {
	return func(e *Encoder) error {
		if sendCount < 1 {
			return ErrInvalidSendCount
		}
		e.psiMethod = psiMethodPacket
		e.psiSendCount = sendCount
		e.pktCount = e.psiSendCount
		e.log.Debug("configured for packet based PSI insertion", "count", sendCount)
		return nil
	}
}

// TimeBasedPSI is another option that can be passed to NewEncoder to select
// time based PSI writing, i.e. PSI are written to the destination every dur
// (duration).
func TimeBasedPSI(dur time.Duration) func(*Encoder) error {
	return func(e *Encoder) error {
		e.psiMethod = psiMethodTime
		e.psiTime = 0
		e.psiSetTime = dur
		e.startTime = time.Now()
		e.log.Debug("configured for time based PSI insertion")
		return nil
	}
}

// Program is an option that sets the program number of the PAT and PMT.
func Program(n uint16) func(*Encoder) error {
	return func(e *Encoder) error {
		e.pmt.Program = n
		return nil
	}
}

// Streams is an option that sets the elementary streams listed in the PMT.
// The first stream carries the PCR.
func Streams(s ...psi.Stream) func(*Encoder) error {
	return func(e *Encoder) error {
		if len(s) == 0 {
			return ErrNoStreams
		}
		e.pmt.Streams = s
		e.pmt.PCRPID = s[0].PID
		e.log.Debug("configured streams", "count", len(s))
		return nil
	}
}
