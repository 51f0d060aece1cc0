/*
NAME
  dvb_test.go

DESCRIPTION
  dvb_test.go provides testing for the DVB descriptors.

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
	"bytes"
	"errors"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

var ignoreBase = cmpopts.IgnoreUnexported(desc.Base{})

func newRegistry(t *testing.T) *desc.Registry {
	t.Helper()
	b := desc.NewBuilder((*logging.TestLogger)(t))
	Register(b)
	reg, err := b.Build()
	if err != nil {
		t.Fatalf("could not build registry: %v", err)
	}
	return reg
}

func TestCableDeliveryDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    CableDelivery
	}{
		{
			name:    "475MHz",
			payload: []byte{0x04, 0x75, 0x00, 0x00, 0xFF, 0xF2, 0x03, 0x00, 0x68, 0x00, 0x04},
			want:    CableDelivery{Frequency: 475_000_000, FECOuter: 2, Modulation: 3, SymbolRate: 6_800_000, FECInner: 4},
		},
		{
			name:    "47.5MHz",
			payload: []byte{0x00, 0x47, 0x50, 0x00, 0xFF, 0xF2, 0x03, 0x00, 0x68, 0x00, 0x04},
			want:    CableDelivery{Frequency: 47_500_000, FECOuter: 2, Modulation: 3, SymbolRate: 6_800_000, FECInner: 4},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var got CableDelivery
			err := desc.Deserialize(&got, desc.NewRecord(TagCableDelivery, test.payload))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Valid() {
				t.Fatal("decoded descriptor is not valid")
			}
			if !cmp.Equal(got, test.want, ignoreBase) {
				t.Errorf("unexpected result (-got +want):\n%s", cmp.Diff(got, test.want, ignoreBase))
			}

			rec, err := desc.Serialize(&got)
			if err != nil {
				t.Fatalf("could not serialize: %v", err)
			}
			if !bytes.Equal(rec.Payload, test.payload) {
				t.Errorf("unexpected payload.\nGot: %X\nWant: %X", rec.Payload, test.payload)
			}
		})
	}
}

func TestCableDeliveryTruncated(t *testing.T) {
	var d CableDelivery
	err := desc.Deserialize(&d, desc.NewRecord(TagCableDelivery, []byte{0x04, 0x75, 0x00, 0x00, 0xFF}))
	if !errors.Is(err, desc.ErrMalformed) {
		t.Errorf("did not get expected error. Got: %v, want: %v", err, desc.ErrMalformed)
	}
	if d.Valid() {
		t.Error("truncated descriptor is valid")
	}
	if _, err := desc.Serialize(&d); !errors.Is(err, desc.ErrInvalid) {
		t.Errorf("serializing invalid descriptor did not fail with ErrInvalid: %v", err)
	}
}

func TestCableDeliveryXML(t *testing.T) {
	const in = `<cable_delivery_system_descriptor frequency="47500000" FEC_outer="RS" modulation="64-QAM" symbol_rate="6800000" FEC_inner="5/6"/>`
	e, err := xmldoc.ParseString(in)
	if err != nil {
		t.Fatalf("could not parse XML: %v", err)
	}
	var d CableDelivery
	err = desc.FromXML(&d, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := CableDelivery{Frequency: 47_500_000, FECOuter: 2, Modulation: 3, SymbolRate: 6_800_000, FECInner: 4}
	if !cmp.Equal(d, want, ignoreBase) {
		t.Errorf("unexpected result (-got +want):\n%s", cmp.Diff(d, want, ignoreBase))
	}

	out, err := desc.ToXML(&d, nil)
	if err != nil {
		t.Fatalf("could not build XML: %v", err)
	}
	for attr, want := range map[string]string{
		"frequency":   "47500000",
		"FEC_outer":   "RS",
		"modulation":  "64-QAM",
		"symbol_rate": "6800000",
		"FEC_inner":   "5/6",
	} {
		got, _ := out.Attribute(attr)
		if got != want {
			t.Errorf("unexpected %s. Got: %q, want: %q", attr, got, want)
		}
	}
}

func TestCableDeliveryXMLErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{in: `<cable_delivery_system_descriptor symbol_rate="1" FEC_inner="1"/>`, want: xmldoc.ErrMissing},
		{in: `<cable_delivery_system_descriptor frequency="1000000000000" symbol_rate="1" FEC_inner="1"/>`, want: xmldoc.ErrRange},
		{in: `<cable_delivery_system_descriptor frequency="1" symbol_rate="1" FEC_inner="16"/>`, want: xmldoc.ErrRange},
		{in: `<cable_delivery_system_descriptor frequency="1" symbol_rate="1" FEC_inner="1" modulation="1024-QAM"/>`, want: xmldoc.ErrUnknownName},
	}

	for i, test := range tests {
		e, err := xmldoc.ParseString(test.in)
		if err != nil {
			t.Fatalf("did not expect error parsing test %d: %v", i, err)
		}
		var d CableDelivery
		err = desc.FromXML(&d, e)
		if !errors.Is(err, test.want) {
			t.Errorf("did not get expected error for test %d. Got: %v, want: %v", i, err, test.want)
		}
		if d.Valid() {
			t.Errorf("descriptor of test %d is valid after error", i)
		}
	}
}

var satellitePayload = []byte{0x01, 0x17, 0x78, 0x00, 0x01, 0x92, 0xA5, 0x02, 0x75, 0x00, 0x03}

func TestSatelliteDelivery(t *testing.T) {
	want := SatelliteDelivery{
		Frequency:       11_778_000_000,
		OrbitalPosition: 192,
		East:            true,
		Polarization:    1,
		S2:              true,
		RollOff:         0,
		Modulation:      1,
		SymbolRate:      27_500_000,
		FECInner:        3,
	}

	var got SatelliteDelivery
	err := desc.Deserialize(&got, desc.NewRecord(TagSatelliteDelivery, satellitePayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cmp.Equal(got, want, ignoreBase) {
		t.Errorf("unexpected result (-got +want):\n%s", cmp.Diff(got, want, ignoreBase))
	}

	e, err := desc.ToXML(&got, nil)
	if err != nil {
		t.Fatalf("could not build XML: %v", err)
	}
	if pos, _ := e.Attribute("orbital_position"); pos != "19.2" {
		t.Errorf("unexpected orbital position. Got: %q, want: %q", pos, "19.2")
	}
	if dir, _ := e.Attribute("west_east_flag"); dir != "east" {
		t.Errorf("unexpected direction. Got: %q, want: %q", dir, "east")
	}

	var back SatelliteDelivery
	err = desc.FromXML(&back, e)
	if err != nil {
		t.Fatalf("could not analyse XML: %v", err)
	}
	rec, err := desc.Serialize(&back)
	if err != nil {
		t.Fatalf("could not serialize: %v", err)
	}
	if !bytes.Equal(rec.Payload, satellitePayload) {
		t.Errorf("unexpected payload.\nGot: %X\nWant: %X", rec.Payload, satellitePayload)
	}
}

func TestSatelliteRollOffForbidden(t *testing.T) {
	const in = `<satellite_delivery_system_descriptor frequency="11778000000" orbital_position="19.2" west_east_flag="east" polarization="vertical" modulation_system="DVB-S" roll_off="0.25" symbol_rate="27500000" FEC_inner="3/4"/>`
	e, err := xmldoc.ParseString(in)
	if err != nil {
		t.Fatalf("could not parse XML: %v", err)
	}
	var d SatelliteDelivery
	err = desc.FromXML(&d, e)
	if !errors.Is(err, xmldoc.ErrForbidden) {
		t.Errorf("did not get expected error. Got: %v, want: %v", err, xmldoc.ErrForbidden)
	}
}

func TestPrivateDataSpecifier(t *testing.T) {
	d := PrivateDataSpecifier{PDS: PDSEACEM}
	d.SetValid(true)
	rec, err := desc.Serialize(&d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{desc.PDSTag, 4, 0x00, 0x00, 0x00, 0x28}
	if !bytes.Equal(rec.Bytes(), want) {
		t.Errorf("unexpected bytes.\nGot: %X\nWant: %X", rec.Bytes(), want)
	}

	e, err := desc.ToXML(&d, nil)
	if err != nil {
		t.Fatalf("could not build XML: %v", err)
	}
	if got, _ := e.Attribute("private_data_specifier"); got != "EACEM" {
		t.Errorf("unexpected specifier. Got: %q, want: %q", got, "EACEM")
	}

	unknown := PrivateDataSpecifier{PDS: 0x12345678}
	unknown.SetValid(true)
	e, err = desc.ToXML(&unknown, nil)
	if err != nil {
		t.Fatalf("could not build XML: %v", err)
	}
	var back PrivateDataSpecifier
	if err := desc.FromXML(&back, e); err != nil {
		t.Fatalf("could not analyse XML: %v", err)
	}
	if back.PDS != 0x12345678 {
		t.Errorf("unexpected specifier. Got: 0x%X, want: 0x12345678", back.PDS)
	}
}

func TestRegistryDisplay(t *testing.T) {
	reg := newRegistry(t)
	var buf bytes.Buffer
	reg.Display(&buf, desc.NewRecord(TagCableDelivery, []byte{0x04, 0x75, 0x00, 0x00, 0xFF, 0xF2, 0x03, 0x00, 0x68, 0x00, 0x04}), 0, desc.TIDNIT, "  ")
	want := "  Frequency: 475,000,000 Hz\n" +
		"  Modulation: 64-QAM (0x03), outer FEC: RS (0x2)\n" +
		"  Symbol rate: 6,800,000 symbol/s, inner FEC: 5/6 (0x4)\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected display.\nGot:\n%s\nWant:\n%s", got, want)
	}
}
