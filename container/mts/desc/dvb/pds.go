/*
NAME
  pds.go

DESCRIPTION
  pds.go provides the private_data_specifier_descriptor.

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
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

const PDSXMLName = "private_data_specifier_descriptor"

// PrivateDataSpecifier is a private_data_specifier_descriptor. It scopes the
// private descriptors which follow it in a list.
type PrivateDataSpecifier struct {
	desc.Base
	PDS uint32
}

func (d *PrivateDataSpecifier) Identity() desc.Identity       { return desc.Regular(TagPDS) }
func (d *PrivateDataSpecifier) XMLName() string               { return PDSXMLName }
func (d *PrivateDataSpecifier) Duplication() desc.Duplication { return desc.AddOther }

func (d *PrivateDataSpecifier) Clear() { d.PDS = 0 }

func (d *PrivateDataSpecifier) SerializePayload(b *bits.Buffer) { b.PutUint32(d.PDS) }

func (d *PrivateDataSpecifier) DeserializePayload(b *bits.Buffer) { d.PDS = b.GetUint32() }

func (d *PrivateDataSpecifier) BuildXML(e *xmldoc.Element) {
	if name, ok := PDSNames.Name(int64(d.PDS)); ok {
		e.SetAttribute("private_data_specifier", name)
		return
	}
	xmldoc.SetIntAttribute(e, "private_data_specifier", d.PDS, true)
}

func (d *PrivateDataSpecifier) AnalyzeXML(e *xmldoc.Element) error {
	var err error
	d.PDS, err = xmldoc.GetIntEnumAttribute[uint32](e, "private_data_specifier", PDSNames, true, 0)
	return err
}

func displayPDS(w io.Writer, b *bits.Buffer, margin string, ctx desc.Context) {
	if !b.CanReadBytes(4) {
		return
	}
	fmt.Fprintf(w, "%sSpecifier: %s\n", margin, PDSNames.Display(int64(b.GetUint32()), 8))
}
