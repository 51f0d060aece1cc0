/*
NAME
  t2.go

DESCRIPTION
  t2.go provides the T2_delivery_system_descriptor, an extension descriptor
  describing a DVB-T2 delivery system and its cells.

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
	"math"

	"github.com/ausocean/tsmeta/container/mts/bits"
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/names"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

const T2DeliveryXMLName = "T2_delivery_system_descriptor"

// Frequencies are coded in units of 10 Hz.
const (
	t2FrequencyUnit = 10
	maxT2Frequency  = math.MaxUint32 * t2FrequencyUnit
)

// T2Delivery is a T2_delivery_system_descriptor. The extension is absent in
// the short form of the descriptor.
type T2Delivery struct {
	desc.Base
	PLPID     uint8
	SystemID  uint16
	Extension *T2Extension
}

// T2Extension holds the optional part of a T2 delivery system descriptor.
type T2Extension struct {
	SISOMISO         uint8 // 2 bits.
	Bandwidth        uint8 // 4 bits.
	GuardInterval    uint8 // 3 bits.
	TransmissionMode uint8 // 3 bits.
	OtherFrequency   bool
	TFS              bool
	Cells            []T2Cell
}

// T2Cell describes a cell. Without TFS a cell has exactly one centre
// frequency.
type T2Cell struct {
	CellID      uint16
	Frequencies []uint64 // Hz.
	Subcells    []T2Subcell
}

// T2Subcell describes a transposer within a cell.
type T2Subcell struct {
	CellIDExtension     uint8
	TransposerFrequency uint64 // Hz.
}

func (d *T2Delivery) Identity() desc.Identity       { return desc.Extension(ExtTagT2Delivery) }
func (d *T2Delivery) XMLName() string               { return T2DeliveryXMLName }
func (d *T2Delivery) Duplication() desc.Duplication { return desc.Append }

func (d *T2Delivery) Clear() {
	d.PLPID = 0
	d.SystemID = 0
	d.Extension = nil
}

func (d *T2Delivery) SerializePayload(b *bits.Buffer) {
	b.PutUint8(d.PLPID)
	b.PutUint16(d.SystemID)
	x := d.Extension
	if x == nil {
		return
	}
	b.PutBits(uint64(x.SISOMISO), 2)
	b.PutBits(uint64(x.Bandwidth), 4)
	b.PutReservedBits(2)
	b.PutBits(uint64(x.GuardInterval), 3)
	b.PutBits(uint64(x.TransmissionMode), 3)
	b.PutBit(x.OtherFrequency)
	b.PutBit(x.TFS)
	for _, c := range x.Cells {
		b.PutUint16(c.CellID)
		if x.TFS {
			b.PushWriteSequenceWithLeadingLength(8)
			for _, f := range c.Frequencies {
				b.PutUint32(uint32(f / t2FrequencyUnit))
			}
			b.PopWriteSequence()
		} else {
			if len(c.Frequencies) != 1 {
				b.SetUserError()
			}
			var f uint64
			if len(c.Frequencies) > 0 {
				f = c.Frequencies[0]
			}
			b.PutUint32(uint32(f / t2FrequencyUnit))
		}
		b.PushWriteSequenceWithLeadingLength(8)
		for _, s := range c.Subcells {
			b.PutUint8(s.CellIDExtension)
			b.PutUint32(uint32(s.TransposerFrequency / t2FrequencyUnit))
		}
		b.PopWriteSequence()
	}
}

func (d *T2Delivery) DeserializePayload(b *bits.Buffer) {
	d.PLPID = b.GetUint8()
	d.SystemID = b.GetUint16()
	if b.EndOfRead() {
		return
	}
	x := &T2Extension{}
	d.Extension = x
	x.SISOMISO = bits.Get[uint8](b, 2)
	x.Bandwidth = bits.Get[uint8](b, 4)
	b.SkipReservedBits(2)
	x.GuardInterval = bits.Get[uint8](b, 3)
	x.TransmissionMode = bits.Get[uint8](b, 3)
	x.OtherFrequency = b.GetBit()
	x.TFS = b.GetBit()
	for b.CanReadBytes(1) && !b.HasError() {
		var c T2Cell
		c.CellID = b.GetUint16()
		if x.TFS {
			b.PushReadSizeFromLength(8)
			for b.CanReadBytes(4) {
				c.Frequencies = append(c.Frequencies, uint64(b.GetUint32())*t2FrequencyUnit)
			}
			checkRegionConsumed(b)
			b.PopReadSize()
		} else {
			c.Frequencies = []uint64{uint64(b.GetUint32()) * t2FrequencyUnit}
		}
		b.PushReadSizeFromLength(8)
		for b.CanReadBytes(5) {
			c.Subcells = append(c.Subcells, T2Subcell{
				CellIDExtension:     b.GetUint8(),
				TransposerFrequency: uint64(b.GetUint32()) * t2FrequencyUnit,
			})
		}
		checkRegionConsumed(b)
		b.PopReadSize()
		x.Cells = append(x.Cells, c)
	}
}

// checkRegionConsumed latches a user error if the current read region holds a
// partial entry.
func checkRegionConsumed(b *bits.Buffer) {
	if !b.EndOfRead() {
		b.SetUserError()
	}
}

func (d *T2Delivery) BuildXML(e *xmldoc.Element) {
	xmldoc.SetIntAttribute(e, "plp_id", d.PLPID, true)
	xmldoc.SetIntAttribute(e, "T2_system_id", d.SystemID, true)
	x := d.Extension
	if x == nil {
		return
	}
	ext := e.AddElement("extension")
	xmldoc.SetIntEnumAttribute(ext, "SISO_MISO", SISONames, x.SISOMISO)
	xmldoc.SetIntEnumAttribute(ext, "bandwidth", T2BandwidthNames, x.Bandwidth)
	xmldoc.SetIntEnumAttribute(ext, "guard_interval", GuardIntervalNames, x.GuardInterval)
	xmldoc.SetIntEnumAttribute(ext, "transmission_mode", TransmissionModeNames, x.TransmissionMode)
	xmldoc.SetBoolAttribute(ext, "other_frequency", x.OtherFrequency)
	xmldoc.SetBoolAttribute(ext, "tfs", x.TFS)
	for _, c := range x.Cells {
		ce := ext.AddElement("cell")
		xmldoc.SetIntAttribute(ce, "cell_id", c.CellID, true)
		for _, f := range c.Frequencies {
			xmldoc.SetIntAttribute(ce.AddElement("centre_frequency"), "value", f, false)
		}
		for _, s := range c.Subcells {
			se := ce.AddElement("subcell")
			xmldoc.SetIntAttribute(se, "cell_id_extension", s.CellIDExtension, true)
			xmldoc.SetIntAttribute(se, "transposer_frequency", s.TransposerFrequency, false)
		}
	}
}

func (d *T2Delivery) AnalyzeXML(e *xmldoc.Element) error {
	var errs xmldoc.Errors
	var err error
	d.PLPID, err = xmldoc.GetIntAttribute[uint8](e, "plp_id", true, 0, 0, 0xFF)
	errs.Add(err)
	d.SystemID, err = xmldoc.GetIntAttribute[uint16](e, "T2_system_id", true, 0, 0, 0xFFFF)
	errs.Add(err)
	exts, err := xmldoc.GetChildren(e, "extension", 0, 1)
	errs.Add(err)
	if len(exts) != 1 {
		return errs.Err()
	}
	ext := exts[0]
	x := &T2Extension{}
	d.Extension = x
	x.SISOMISO, err = xmldoc.GetIntEnumAttribute[uint8](ext, "SISO_MISO", SISONames, true, 0)
	errs.Add(err)
	errs.Add(xmldoc.CheckIntRange(ext, "SISO_MISO", x.SISOMISO, 0, 3))
	x.Bandwidth, err = xmldoc.GetIntEnumAttribute[uint8](ext, "bandwidth", T2BandwidthNames, true, 0)
	errs.Add(err)
	errs.Add(xmldoc.CheckIntRange(ext, "bandwidth", x.Bandwidth, 0, 0x0F))
	x.GuardInterval, err = xmldoc.GetIntEnumAttribute[uint8](ext, "guard_interval", GuardIntervalNames, true, 0)
	errs.Add(err)
	errs.Add(xmldoc.CheckIntRange(ext, "guard_interval", x.GuardInterval, 0, 7))
	x.TransmissionMode, err = xmldoc.GetIntEnumAttribute[uint8](ext, "transmission_mode", TransmissionModeNames, true, 0)
	errs.Add(err)
	errs.Add(xmldoc.CheckIntRange(ext, "transmission_mode", x.TransmissionMode, 0, 7))
	x.OtherFrequency, err = xmldoc.GetBoolAttribute(ext, "other_frequency", false, false)
	errs.Add(err)
	x.TFS, err = xmldoc.GetBoolAttribute(ext, "tfs", false, false)
	errs.Add(err)

	cells, _ := xmldoc.GetChildren(ext, "cell", 0, math.MaxInt)
	for _, ce := range cells {
		var c T2Cell
		c.CellID, err = xmldoc.GetIntAttribute[uint16](ce, "cell_id", true, 0, 0, 0xFFFF)
		errs.Add(err)
		min, max := 1, 1
		if x.TFS {
			min, max = 0, math.MaxInt
		}
		freqs, err := xmldoc.GetChildren(ce, "centre_frequency", min, max)
		errs.Add(err)
		for _, fe := range freqs {
			f, err := xmldoc.GetIntAttribute[uint64](fe, "value", true, 0, 0, maxT2Frequency)
			errs.Add(err)
			c.Frequencies = append(c.Frequencies, f)
		}
		subs, _ := xmldoc.GetChildren(ce, "subcell", 0, math.MaxInt)
		for _, se := range subs {
			var s T2Subcell
			s.CellIDExtension, err = xmldoc.GetIntAttribute[uint8](se, "cell_id_extension", true, 0, 0, 0xFF)
			errs.Add(err)
			s.TransposerFrequency, err = xmldoc.GetIntAttribute[uint64](se, "transposer_frequency", true, 0, 0, maxT2Frequency)
			errs.Add(err)
			c.Subcells = append(c.Subcells, s)
		}
		x.Cells = append(x.Cells, c)
	}
	return errs.Err()
}

func displayT2Delivery(w io.Writer, b *bits.Buffer, margin string, ctx desc.Context) {
	if !b.CanReadBytes(3) {
		return
	}
	fmt.Fprintf(w, "%sPLP: %s, T2 system: %s\n", margin, names.Hex(b.GetUint8(), 2), names.Hex(b.GetUint16(), 4))
	if !b.CanReadBytes(2) {
		return
	}
	siso := int64(b.GetBits(2))
	bw := int64(b.GetBits(4))
	b.SkipReservedBits(2)
	gi := int64(b.GetBits(3))
	tm := int64(b.GetBits(3))
	other := b.GetBit()
	tfs := b.GetBit()
	fmt.Fprintf(w, "%s%s, bandwidth: %s, guard interval: %s\n", margin, SISONames.NameOrValue(siso), T2BandwidthNames.NameOrValue(bw), GuardIntervalNames.NameOrValue(gi))
	fmt.Fprintf(w, "%sTransmission mode: %s, other frequency: %t, TFS: %t\n", margin, TransmissionModeNames.NameOrValue(tm), other, tfs)
	for b.CanReadBytes(3) {
		fmt.Fprintf(w, "%s- Cell id: %s\n", margin, names.Hex(b.GetUint16(), 4))
		if tfs {
			b.PushReadSizeFromLength(8)
			for b.CanReadBytes(4) {
				fmt.Fprintf(w, "%s  Centre frequency: %s Hz\n", margin, names.Grouped(uint64(b.GetUint32())*t2FrequencyUnit))
			}
			b.PopReadSize()
		} else if b.CanReadBytes(4) {
			fmt.Fprintf(w, "%s  Centre frequency: %s Hz\n", margin, names.Grouped(uint64(b.GetUint32())*t2FrequencyUnit))
		}
		b.PushReadSizeFromLength(8)
		for b.CanReadBytes(5) {
			ext := b.GetUint8()
			f := uint64(b.GetUint32()) * t2FrequencyUnit
			fmt.Fprintf(w, "%s  Cell id ext: %s, transposer frequency: %s Hz\n", margin, names.Hex(ext, 2), names.Grouped(f))
		}
		b.PopReadSize()
	}
}
