/*
NAME
  cable.go

DESCRIPTION
  cable.go provides the cable_delivery_system_descriptor.

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

	"github.com/ausocean/tsmeta/container/mts/bits"
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/names"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

const CableDeliveryXMLName = "cable_delivery_system_descriptor"

// Largest values of the BCD coded fields once scaled.
const (
	maxCableFrequency  = 99999999 * 100 // 8 digits of 100 Hz.
	maxCableSymbolRate = 9999999 * 100  // 7 digits of 100 symbols/s.
)

// CableDelivery is a cable_delivery_system_descriptor.
type CableDelivery struct {
	desc.Base
	Frequency  uint64 // Hz.
	FECOuter   uint8
	Modulation uint8
	SymbolRate uint64 // Symbols/s.
	FECInner   uint8
}

func (d *CableDelivery) Identity() desc.Identity       { return desc.Regular(TagCableDelivery) }
func (d *CableDelivery) XMLName() string               { return CableDeliveryXMLName }
func (d *CableDelivery) Duplication() desc.Duplication { return desc.Replace }

func (d *CableDelivery) Clear() {
	*d = CableDelivery{Base: d.Base}
}

func (d *CableDelivery) SerializePayload(b *bits.Buffer) {
	b.PutBCD(d.Frequency/100, 8)
	b.PutReservedBits(12)
	b.PutBits(uint64(d.FECOuter), 4)
	b.PutUint8(d.Modulation)
	b.PutBCD(d.SymbolRate/100, 7)
	b.PutBits(uint64(d.FECInner), 4)
}

func (d *CableDelivery) DeserializePayload(b *bits.Buffer) {
	d.Frequency = b.GetBCD(8) * 100
	b.SkipReservedBits(12)
	d.FECOuter = bits.Get[uint8](b, 4)
	d.Modulation = b.GetUint8()
	d.SymbolRate = b.GetBCD(7) * 100
	d.FECInner = bits.Get[uint8](b, 4)
}

func (d *CableDelivery) BuildXML(e *xmldoc.Element) {
	xmldoc.SetIntAttribute(e, "frequency", d.Frequency, false)
	xmldoc.SetIntEnumAttribute(e, "FEC_outer", OuterFECNames, d.FECOuter)
	xmldoc.SetIntEnumAttribute(e, "modulation", CableModulationNames, d.Modulation)
	xmldoc.SetIntAttribute(e, "symbol_rate", d.SymbolRate, false)
	xmldoc.SetIntEnumAttribute(e, "FEC_inner", CodeRateNames, d.FECInner)
}

func (d *CableDelivery) AnalyzeXML(e *xmldoc.Element) error {
	var errs xmldoc.Errors
	var err error
	d.Frequency, err = xmldoc.GetIntAttribute[uint64](e, "frequency", true, 0, 0, maxCableFrequency)
	errs.Add(err)
	d.FECOuter, err = xmldoc.GetIntEnumAttribute[uint8](e, "FEC_outer", OuterFECNames, false, 2)
	errs.Add(err)
	d.Modulation, err = xmldoc.GetIntEnumAttribute[uint8](e, "modulation", CableModulationNames, false, 1)
	errs.Add(err)
	d.SymbolRate, err = xmldoc.GetIntAttribute[uint64](e, "symbol_rate", true, 0, 0, maxCableSymbolRate)
	errs.Add(err)
	d.FECInner, err = xmldoc.GetIntEnumAttribute[uint8](e, "FEC_inner", CodeRateNames, true, 0)
	errs.Add(err)
	errs.Add(xmldoc.CheckIntRange(e, "FEC_outer", d.FECOuter, 0, 0x0F))
	errs.Add(xmldoc.CheckIntRange(e, "FEC_inner", d.FECInner, 0, 0x0F))
	return errs.Err()
}

func displayCableDelivery(w io.Writer, b *bits.Buffer, margin string, ctx desc.Context) {
	if !b.CanReadBytes(11) {
		return
	}
	freq := b.GetBCD(8) * 100
	b.SkipReservedBits(12)
	outer := int64(b.GetBits(4))
	mod := int64(b.GetUint8())
	sr := b.GetBCD(7) * 100
	inner := int64(b.GetBits(4))
	fmt.Fprintf(w, "%sFrequency: %s Hz\n", margin, names.Grouped(freq))
	fmt.Fprintf(w, "%sModulation: %s, outer FEC: %s\n", margin, CableModulationNames.Display(mod, 2), OuterFECNames.Display(outer, 1))
	fmt.Fprintf(w, "%sSymbol rate: %s symbol/s, inner FEC: %s\n", margin, names.Grouped(sr), CodeRateNames.Display(inner, 1))
}
