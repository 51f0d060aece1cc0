/*
NAME
  lcn.go

DESCRIPTION
  lcn.go provides the EACEM logical_channel_number_descriptor, a private
  descriptor which assigns channel numbers to services.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dvb

import (
	"fmt"
	"io"
	"slices"

	"github.com/ausocean/tsmeta/container/mts/bits"
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

const (
	LCNXMLName       = "eacem_logical_channel_number_descriptor"
	LCNLegacyXMLName = "logical_channel_number_descriptor"
)

const (
	lcnEntrySize  = 4
	maxLCNEntries = desc.MaxPayloadSize / lcnEntrySize
	maxLCN        = 0x3FF
)

// LCNEntry assigns a logical channel number to a service.
type LCNEntry struct {
	ServiceID uint16
	Visible   bool
	LCN       uint16 // 10 bits.
}

// LogicalChannelNumber is an EACEM logical_channel_number_descriptor.
type LogicalChannelNumber struct {
	desc.Base
	Entries []LCNEntry
}

func (d *LogicalChannelNumber) Identity() desc.Identity       { return desc.Private(TagEACEMLCN, PDSEACEM) }
func (d *LogicalChannelNumber) XMLName() string               { return LCNXMLName }
func (d *LogicalChannelNumber) LegacyXMLName() string         { return LCNLegacyXMLName }
func (d *LogicalChannelNumber) Duplication() desc.Duplication { return desc.Merge }

func (d *LogicalChannelNumber) Clear() { d.Entries = nil }

func (d *LogicalChannelNumber) SerializePayload(b *bits.Buffer) {
	for _, e := range d.Entries {
		b.PutUint16(e.ServiceID)
		b.PutBit(e.Visible)
		b.PutReservedBits(1)
		b.PutBits(uint64(e.LCN), 10)
	}
}

func (d *LogicalChannelNumber) DeserializePayload(b *bits.Buffer) {
	for b.CanReadBytes(lcnEntrySize) {
		var e LCNEntry
		e.ServiceID = b.GetUint16()
		e.Visible = b.GetBit()
		b.SkipReservedBits(1)
		e.LCN = bits.Get[uint16](b, 10)
		d.Entries = append(d.Entries, e)
	}
}

// Merge merges the entries of other into d. Entries of d take precedence;
// services of other which d does not describe are appended.
func (d *LogicalChannelNumber) Merge(other desc.Codec) bool {
	o, ok := other.(*LogicalChannelNumber)
	if !ok || !o.Valid() {
		return false
	}
	merged := slices.Clone(d.Entries)
	for _, oe := range o.Entries {
		if !slices.ContainsFunc(merged, func(e LCNEntry) bool { return e.ServiceID == oe.ServiceID }) {
			merged = append(merged, oe)
		}
	}
	if len(merged) > maxLCNEntries {
		return false
	}
	d.Entries = merged
	return true
}

func (d *LogicalChannelNumber) BuildXML(e *xmldoc.Element) {
	for _, ent := range d.Entries {
		s := e.AddElement("service")
		xmldoc.SetIntAttribute(s, "service_id", ent.ServiceID, true)
		xmldoc.SetIntAttribute(s, "logical_channel_number", ent.LCN, false)
		xmldoc.SetBoolAttribute(s, "visible_service", ent.Visible)
	}
}

func (d *LogicalChannelNumber) AnalyzeXML(e *xmldoc.Element) error {
	var errs xmldoc.Errors
	children, err := xmldoc.GetChildren(e, "service", 0, maxLCNEntries)
	errs.Add(err)
	for _, s := range children {
		var ent LCNEntry
		ent.ServiceID, err = xmldoc.GetIntAttribute[uint16](s, "service_id", true, 0, 0, 0xFFFF)
		errs.Add(err)
		ent.LCN, err = xmldoc.GetIntAttribute[uint16](s, "logical_channel_number", true, 0, 0, maxLCN)
		errs.Add(err)
		ent.Visible, err = xmldoc.GetBoolAttribute(s, "visible_service", false, true)
		errs.Add(err)
		d.Entries = append(d.Entries, ent)
	}
	return errs.Err()
}

func displayLCN(w io.Writer, b *bits.Buffer, margin string, ctx desc.Context) {
	for b.CanReadBytes(lcnEntrySize) {
		id := b.GetUint16()
		visible := b.GetBit()
		b.SkipReservedBits(1)
		lcn := b.GetBits(10)
		fmt.Fprintf(w, "%sService Id: %5d (0x%04X), Visible: %d, Channel number: %3d\n", margin, id, id, boolInt(visible), lcn)
	}
}
