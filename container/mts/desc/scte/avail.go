/*
NAME
  avail.go

DESCRIPTION
  avail.go provides the splice_avail_descriptor.

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

	"github.com/ausocean/tsmeta/container/mts/bits"
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

const SpliceAvailXMLName = "splice_avail_descriptor"

// SpliceAvail is a splice_avail_descriptor.
type SpliceAvail struct {
	desc.Base
	Identifier      uint32
	ProviderAvailID uint32
}

// NewSpliceAvail returns an empty splice_avail_descriptor.
func NewSpliceAvail() *SpliceAvail { return &SpliceAvail{Identifier: CUEI} }

func (d *SpliceAvail) Identity() desc.Identity {
	return desc.TableSpecific(TagSpliceAvail, desc.TIDSCTE)
}
func (d *SpliceAvail) XMLName() string               { return SpliceAvailXMLName }
func (d *SpliceAvail) Duplication() desc.Duplication { return desc.Append }

func (d *SpliceAvail) Clear() {
	d.Identifier = CUEI
	d.ProviderAvailID = 0
}

func (d *SpliceAvail) SerializePayload(b *bits.Buffer) {
	b.PutUint32(d.Identifier)
	b.PutUint32(d.ProviderAvailID)
}

func (d *SpliceAvail) DeserializePayload(b *bits.Buffer) {
	d.Identifier = b.GetUint32()
	d.ProviderAvailID = b.GetUint32()
}

func (d *SpliceAvail) BuildXML(e *xmldoc.Element) {
	xmldoc.SetIntAttribute(e, "identifier", d.Identifier, true)
	xmldoc.SetIntAttribute(e, "provider_avail_id", d.ProviderAvailID, true)
}

func (d *SpliceAvail) AnalyzeXML(e *xmldoc.Element) error {
	var errs xmldoc.Errors
	var err error
	d.Identifier, err = getIdentifier(e)
	errs.Add(err)
	d.ProviderAvailID, err = xmldoc.GetIntAttribute[uint32](e, "provider_avail_id", true, 0, 0, 0xFFFFFFFF)
	errs.Add(err)
	return errs.Err()
}

func displaySpliceAvail(w io.Writer, b *bits.Buffer, margin string, ctx desc.Context) {
	if !b.CanReadBytes(8) {
		return
	}
	fmt.Fprintf(w, "%sIdentifier: %s\n", margin, identifierString(b.GetUint32()))
	fmt.Fprintf(w, "%sProvider id: 0x%08X\n", margin, b.GetUint32())
}
