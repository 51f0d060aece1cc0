/*
NAME
  time.go

DESCRIPTION
  time.go provides the splice_time_descriptor.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package scte

import (
	"fmt"
	"io"
	"time"

	"github.com/ausocean/tsmeta/container/mts/bits"
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/names"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

const SpliceTimeXMLName = "splice_time_descriptor"

const maxTAISeconds = 1<<48 - 1

// SpliceTime is a splice_time_descriptor. The TAI time counts from
// 1970-01-01 and UTCOffset is the number of seconds TAI is ahead of UTC.
type SpliceTime struct {
	desc.Base
	Identifier uint32
	TAISeconds uint64 // 48 bits.
	TAINanos   uint32
	UTCOffset  uint16
}

// NewSpliceTime returns an empty splice_time_descriptor.
func NewSpliceTime() *SpliceTime { return &SpliceTime{Identifier: CUEI} }

func (d *SpliceTime) Identity() desc.Identity {
	return desc.TableSpecific(TagSpliceTime, desc.TIDSCTE)
}
func (d *SpliceTime) XMLName() string               { return SpliceTimeXMLName }
func (d *SpliceTime) Duplication() desc.Duplication { return desc.Replace }

func (d *SpliceTime) Clear() {
	*d = SpliceTime{Base: d.Base, Identifier: CUEI}
}

// UTC returns the time in UTC.
func (d *SpliceTime) UTC() time.Time {
	return time.Unix(int64(d.TAISeconds)-int64(d.UTCOffset), int64(d.TAINanos)).UTC()
}

func (d *SpliceTime) SerializePayload(b *bits.Buffer) {
	b.PutUint32(d.Identifier)
	b.PutUint48(d.TAISeconds)
	b.PutUint32(d.TAINanos)
	b.PutUint16(d.UTCOffset)
}

func (d *SpliceTime) DeserializePayload(b *bits.Buffer) {
	d.Identifier = b.GetUint32()
	d.TAISeconds = b.GetUint48()
	d.TAINanos = b.GetUint32()
	d.UTCOffset = b.GetUint16()
}

func (d *SpliceTime) BuildXML(e *xmldoc.Element) {
	xmldoc.SetIntAttribute(e, "identifier", d.Identifier, true)
	xmldoc.SetIntAttribute(e, "TAI_seconds", d.TAISeconds, false)
	xmldoc.SetIntAttribute(e, "TAI_ns", d.TAINanos, false)
	xmldoc.SetIntAttribute(e, "UTC_offset", d.UTCOffset, false)
}

func (d *SpliceTime) AnalyzeXML(e *xmldoc.Element) error {
	var errs xmldoc.Errors
	var err error
	d.Identifier, err = getIdentifier(e)
	errs.Add(err)
	d.TAISeconds, err = xmldoc.GetIntAttribute[uint64](e, "TAI_seconds", true, 0, 0, maxTAISeconds)
	errs.Add(err)
	d.TAINanos, err = xmldoc.GetIntAttribute[uint32](e, "TAI_ns", true, 0, 0, 999_999_999)
	errs.Add(err)
	d.UTCOffset, err = xmldoc.GetIntAttribute[uint16](e, "UTC_offset", true, 0, 0, 0xFFFF)
	errs.Add(err)
	return errs.Err()
}

func displaySpliceTime(w io.Writer, b *bits.Buffer, margin string, ctx desc.Context) {
	if !b.CanReadBytes(16) {
		return
	}
	var d SpliceTime
	d.DeserializePayload(b)
	fmt.Fprintf(w, "%sIdentifier: %s\n", margin, identifierString(d.Identifier))
	fmt.Fprintf(w, "%sTAI: %s seconds + %s ns, UTC offset: %d\n", margin, names.Grouped(d.TAISeconds), names.Grouped(d.TAINanos), d.UTCOffset)
	fmt.Fprintf(w, "%sUTC: %s\n", margin, d.UTC().Format("2006-01-02 15:04:05.000"))
}
