/*
NAME
  dvb.go

DESCRIPTION
  dvb.go provides registration of the DVB descriptors and the name tables
  they share.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dvb provides DVB descriptors (ETSI EN 300 468): delivery system
// descriptors, the private data specifier descriptor and the EACEM logical
// channel number descriptor.
package dvb

import (
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/names"
)

// Descriptor tags.
const (
	TagSatelliteDelivery = 0x43
	TagCableDelivery     = 0x44
	TagPDS               = desc.PDSTag
	ExtTagT2Delivery     = 0x04
	TagEACEMLCN          = 0x83
)

// Private data specifiers.
const (
	PDSBskyB    = 0x00000002
	PDSEACEM    = 0x00000028
	PDSNorDig   = 0x00000029
	PDSEutelsat = 0x00000055
	PDSOFCOM    = 0x0000233A
)

// Register registers the DVB descriptors with b.
func Register(b *desc.Builder) {
	b.Register(desc.Registration{
		Identity: desc.Regular(TagSatelliteDelivery),
		XMLName:  SatelliteDeliveryXMLName,
		Factory:  func() desc.Codec { return &SatelliteDelivery{} },
		Display:  displaySatelliteDelivery,
	})
	b.Register(desc.Registration{
		Identity: desc.Regular(TagCableDelivery),
		XMLName:  CableDeliveryXMLName,
		Factory:  func() desc.Codec { return &CableDelivery{} },
		Display:  displayCableDelivery,
	})
	b.Register(desc.Registration{
		Identity: desc.Regular(TagPDS),
		XMLName:  PDSXMLName,
		Factory:  func() desc.Codec { return &PrivateDataSpecifier{} },
		Display:  displayPDS,
	})
	b.Register(desc.Registration{
		Identity: desc.Extension(ExtTagT2Delivery),
		XMLName:  T2DeliveryXMLName,
		Factory:  func() desc.Codec { return &T2Delivery{} },
		Display:  displayT2Delivery,
	})
	b.Register(desc.Registration{
		Identity:      desc.Private(TagEACEMLCN, PDSEACEM),
		XMLName:       LCNXMLName,
		LegacyXMLName: LCNLegacyXMLName,
		Factory:       func() desc.Codec { return &LogicalChannelNumber{} },
		Display:       displayLCN,
	})
}

// Name tables.
var (
	// PDSNames names the registered private data specifiers.
	PDSNames = names.New(
		names.Entry{Name: "BskyB", Value: PDSBskyB},
		names.Entry{Name: "EACEM", Value: PDSEACEM},
		names.Entry{Name: "EICTA", Value: PDSEACEM},
		names.Entry{Name: "NorDig", Value: PDSNorDig},
		names.Entry{Name: "Eutelsat", Value: PDSEutelsat},
		names.Entry{Name: "OFCOM", Value: PDSOFCOM},
	)

	// CodeRateNames names the DVB inner FEC code rates.
	CodeRateNames = names.New(
		names.Entry{Name: "undefined", Value: 0},
		names.Entry{Name: "1/2", Value: 1},
		names.Entry{Name: "2/3", Value: 2},
		names.Entry{Name: "3/4", Value: 3},
		names.Entry{Name: "5/6", Value: 4},
		names.Entry{Name: "7/8", Value: 5},
		names.Entry{Name: "8/9", Value: 6},
		names.Entry{Name: "3/5", Value: 7},
		names.Entry{Name: "4/5", Value: 8},
		names.Entry{Name: "9/10", Value: 9},
		names.Entry{Name: "none", Value: 15},
	)

	// OuterFECNames names the cable outer FEC schemes.
	OuterFECNames = names.New(
		names.Entry{Name: "undefined", Value: 0},
		names.Entry{Name: "none", Value: 1},
		names.Entry{Name: "RS", Value: 2},
	)

	// CableModulationNames names the cable modulations.
	CableModulationNames = names.New(
		names.Entry{Name: "undefined", Value: 0},
		names.Entry{Name: "16-QAM", Value: 1},
		names.Entry{Name: "32-QAM", Value: 2},
		names.Entry{Name: "64-QAM", Value: 3},
		names.Entry{Name: "128-QAM", Value: 4},
		names.Entry{Name: "256-QAM", Value: 5},
	)

	// DirectionNames names the orbital direction flag.
	DirectionNames = names.Sequence(0, "west", "east")

	// PolarizationNames names the satellite polarizations.
	PolarizationNames = names.Sequence(0, "horizontal", "vertical", "left", "right")

	// RollOffNames names the DVB-S2 roll-off factors.
	RollOffNames = names.Sequence(0, "0.35", "0.25", "0.20", "reserved")

	// SatelliteModulationNames names the DVB-S/S2 modulations.
	SatelliteModulationNames = names.Sequence(0, "auto", "QPSK", "8PSK", "16-QAM")

	// SatelliteSystemNames names the satellite modulation systems.
	SatelliteSystemNames = names.Sequence(0, "DVB-S", "DVB-S2")

	// SISONames names the T2 SISO/MISO modes.
	SISONames = names.Sequence(0, "SISO", "MISO")

	// T2BandwidthNames names the T2 bandwidths.
	T2BandwidthNames = names.Sequence(0, "8MHz", "7MHz", "6MHz", "5MHz", "10MHz", "1.712MHz")

	// GuardIntervalNames names the T2 guard intervals.
	GuardIntervalNames = names.Sequence(0, "1/32", "1/16", "1/8", "1/4", "1/128", "19/128", "19/256")

	// TransmissionModeNames names the T2 FFT sizes.
	TransmissionModeNames = names.Sequence(0, "2k", "8k", "4k", "1k", "16k", "32k")
)
