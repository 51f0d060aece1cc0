/*
NAME
  raw.go

DESCRIPTION
  raw.go provides the Raw codec, which carries descriptors that could not be
  interpreted.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package desc

import (
	"github.com/ausocean/tsmeta/container/mts/bits"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

// GenericXMLName is the XML name of descriptors carried as raw bytes.
const GenericXMLName = "generic_descriptor"

// Raw is a descriptor of unknown or undecodable kind. It keeps the payload
// unchanged so that it can be displayed or re-emitted.
type Raw struct {
	Base
	Tag     uint8
	Payload []byte
}

// NewRaw returns a Raw holding a copy of r. It is valid whenever the payload
// fits in the length byte, so that any record with a header, including an
// extension descriptor without extension tag, can be passed through.
func NewRaw(r Record) *Raw {
	d := &Raw{Tag: r.Tag, Payload: append([]byte(nil), r.Payload...)}
	d.SetValid(len(r.Payload) <= MaxPayloadSize)
	return d
}

// Record returns the binary form of d.
func (d *Raw) Record() Record { return NewRecord(d.Tag, d.Payload) }

func (d *Raw) Identity() Identity       { return Identity{tag: d.Tag} }
func (d *Raw) XMLName() string          { return GenericXMLName }
func (d *Raw) Duplication() Duplication { return Append }

// Clear empties the payload and keeps the tag.
func (d *Raw) Clear() { d.Payload = nil }

func (d *Raw) SerializePayload(b *bits.Buffer)   { b.PutBytes(d.Payload) }
func (d *Raw) DeserializePayload(b *bits.Buffer) { d.Payload = b.GetRemaining() }

func (d *Raw) BuildXML(e *xmldoc.Element) {
	xmldoc.SetIntAttribute(e, "tag", d.Tag, true)
	xmldoc.SetHexText(e, d.Payload)
}

func (d *Raw) AnalyzeXML(e *xmldoc.Element) error {
	var errs xmldoc.Errors
	tag, err := xmldoc.GetIntAttribute[uint8](e, "tag", true, 0, 0, 0xFF)
	errs.Add(err)
	d.Tag = tag
	d.Payload, err = xmldoc.GetHexText(e, 0, MaxPayloadSize)
	errs.Add(err)
	return errs.Err()
}
