/*
NAME
  satellite.go

DESCRIPTION
  satellite.go provides the satellite_delivery_system_descriptor, in its
  DVB-S and DVB-S2 forms.

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

const SatelliteDeliveryXMLName = "satellite_delivery_system_descriptor"

const (
	maxSatelliteFrequency  = 99999999 * 10000 // 8 digits of 10 kHz.
	maxSatelliteSymbolRate = 9999999 * 100    // 7 digits of 100 symbols/s.
	maxOrbitalPosition     = 9999             // 4 digits of 0.1 degree.
)

// SatelliteDelivery is a satellite_delivery_system_descriptor.
type SatelliteDelivery struct {
	desc.Base
	Frequency       uint64 // Hz.
	OrbitalPosition uint16 // Tenths of a degree.
	East            bool
	Polarization    uint8
	S2              bool  // DVB-S2 rather than DVB-S.
	RollOff         uint8 // DVB-S2 only.
	Modulation      uint8
	SymbolRate      uint64 // Symbols/s.
	FECInner        uint8
}

func (d *SatelliteDelivery) Identity() desc.Identity       { return desc.Regular(TagSatelliteDelivery) }
func (d *SatelliteDelivery) XMLName() string               { return SatelliteDeliveryXMLName }
func (d *SatelliteDelivery) Duplication() desc.Duplication { return desc.Replace }

func (d *SatelliteDelivery) Clear() {
	*d = SatelliteDelivery{Base: d.Base, Modulation: 1}
}

func (d *SatelliteDelivery) SerializePayload(b *bits.Buffer) {
	b.PutBCD(d.Frequency/10000, 8)
	b.PutBCD(uint64(d.OrbitalPosition), 4)
	b.PutBit(d.East)
	b.PutBits(uint64(d.Polarization), 2)
	if d.S2 {
		b.PutBits(uint64(d.RollOff), 2)
	} else {
		b.PutBits(0, 2)
	}
	b.PutBit(d.S2)
	b.PutBits(uint64(d.Modulation), 2)
	b.PutBCD(d.SymbolRate/100, 7)
	b.PutBits(uint64(d.FECInner), 4)
}

func (d *SatelliteDelivery) DeserializePayload(b *bits.Buffer) {
	d.Frequency = b.GetBCD(8) * 10000
	d.OrbitalPosition = uint16(b.GetBCD(4))
	d.East = b.GetBit()
	d.Polarization = bits.Get[uint8](b, 2)
	d.RollOff = bits.Get[uint8](b, 2)
	d.S2 = b.GetBit()
	d.Modulation = bits.Get[uint8](b, 2)
	d.SymbolRate = b.GetBCD(7) * 100
	d.FECInner = bits.Get[uint8](b, 4)
	if !d.S2 {
		d.RollOff = 0
	}
}

func (d *SatelliteDelivery) BuildXML(e *xmldoc.Element) {
	xmldoc.SetIntAttribute(e, "frequency", d.Frequency, false)
	xmldoc.SetFixedPointAttribute(e, "orbital_position", d.OrbitalPosition, 1)
	xmldoc.SetIntEnumAttribute(e, "west_east_flag", DirectionNames, boolInt(d.East))
	xmldoc.SetIntEnumAttribute(e, "polarization", PolarizationNames, d.Polarization)
	if d.S2 {
		xmldoc.SetIntEnumAttribute(e, "roll_off", RollOffNames, d.RollOff)
	}
	xmldoc.SetIntEnumAttribute(e, "modulation_system", SatelliteSystemNames, boolInt(d.S2))
	xmldoc.SetIntEnumAttribute(e, "modulation_type", SatelliteModulationNames, d.Modulation)
	xmldoc.SetIntAttribute(e, "symbol_rate", d.SymbolRate, false)
	xmldoc.SetIntEnumAttribute(e, "FEC_inner", CodeRateNames, d.FECInner)
}

func (d *SatelliteDelivery) AnalyzeXML(e *xmldoc.Element) error {
	var errs xmldoc.Errors
	var err error
	d.Frequency, err = xmldoc.GetIntAttribute[uint64](e, "frequency", true, 0, 0, maxSatelliteFrequency)
	errs.Add(err)
	d.OrbitalPosition, err = xmldoc.GetFixedPointAttribute[uint16](e, "orbital_position", 1, true, 0, 0, maxOrbitalPosition)
	errs.Add(err)
	east, err := xmldoc.GetIntEnumAttribute[uint8](e, "west_east_flag", DirectionNames, true, 0)
	errs.Add(err)
	errs.Add(xmldoc.CheckIntRange(e, "west_east_flag", east, 0, 1))
	d.East = east == 1
	d.Polarization, err = xmldoc.GetIntEnumAttribute[uint8](e, "polarization", PolarizationNames, true, 0)
	errs.Add(err)
	errs.Add(xmldoc.CheckIntRange(e, "polarization", d.Polarization, 0, 3))
	sys, err := xmldoc.GetIntEnumAttribute[uint8](e, "modulation_system", SatelliteSystemNames, false, 0)
	errs.Add(err)
	errs.Add(xmldoc.CheckIntRange(e, "modulation_system", sys, 0, 1))
	d.S2 = sys == 1
	switch {
	case d.S2:
		d.RollOff, err = xmldoc.GetIntEnumAttribute[uint8](e, "roll_off", RollOffNames, false, 0)
		errs.Add(err)
		errs.Add(xmldoc.CheckIntRange(e, "roll_off", d.RollOff, 0, 3))
	case e.HasAttribute("roll_off"):
		errs.Add(xmldoc.ElementError(e, fmt.Errorf("%w: roll_off is only allowed with DVB-S2", xmldoc.ErrForbidden)))
	}
	d.Modulation, err = xmldoc.GetIntEnumAttribute[uint8](e, "modulation_type", SatelliteModulationNames, false, 1)
	errs.Add(err)
	errs.Add(xmldoc.CheckIntRange(e, "modulation_type", d.Modulation, 0, 3))
	d.SymbolRate, err = xmldoc.GetIntAttribute[uint64](e, "symbol_rate", true, 0, 0, maxSatelliteSymbolRate)
	errs.Add(err)
	d.FECInner, err = xmldoc.GetIntEnumAttribute[uint8](e, "FEC_inner", CodeRateNames, true, 0)
	errs.Add(err)
	errs.Add(xmldoc.CheckIntRange(e, "FEC_inner", d.FECInner, 0, 0x0F))
	return errs.Err()
}

func boolInt(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func displaySatelliteDelivery(w io.Writer, b *bits.Buffer, margin string, ctx desc.Context) {
	if !b.CanReadBytes(11) {
		return
	}
	freq := b.GetBCD(8) * 10000
	orbit := b.GetBCD(4)
	east := int64(b.GetBits(1))
	pol := int64(b.GetBits(2))
	rollOff := int64(b.GetBits(2))
	s2 := int64(b.GetBits(1))
	mod := int64(b.GetBits(2))
	sr := b.GetBCD(7) * 100
	fec := int64(b.GetBits(4))

	fmt.Fprintf(w, "%sOrbital position: %d.%d degree, %s\n", margin, orbit/10, orbit%10, DirectionNames.NameOrValue(east))
	fmt.Fprintf(w, "%sFrequency: %s Hz, polarization: %s\n", margin, names.Grouped(freq), PolarizationNames.NameOrValue(pol))
	fmt.Fprintf(w, "%sDelivery system: %s, modulation: %s", margin, SatelliteSystemNames.NameOrValue(s2), SatelliteModulationNames.NameOrValue(mod))
	if s2 == 1 {
		fmt.Fprintf(w, ", roll-off: %s", RollOffNames.NameOrValue(rollOff))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%sSymbol rate: %s symbol/s, inner FEC: %s\n", margin, names.Grouped(sr), CodeRateNames.NameOrValue(fec))
}
