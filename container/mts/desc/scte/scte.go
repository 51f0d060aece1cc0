/*
NAME
  scte.go

DESCRIPTION
  scte.go provides the SCTE 35 splice descriptors, which share tag values
  with MPEG descriptors and are only meaningful in the splice information
  table.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package scte provides the SCTE 35 splice descriptors.
package scte

import (
	"fmt"

	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/names"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

// Splice descriptor tags, scoped to the splice information table.
const (
	TagSpliceAvail = 0x00
	TagSpliceTime  = 0x03
)

// CUEI is the identifier of SCTE splice descriptors.
const CUEI = 0x43554549

// Register registers the splice descriptors with b.
func Register(b *desc.Builder) {
	b.Register(desc.Registration{
		Identity: desc.TableSpecific(TagSpliceAvail, desc.TIDSCTE),
		XMLName:  SpliceAvailXMLName,
		Factory:  func() desc.Codec { return NewSpliceAvail() },
		Display:  displaySpliceAvail,
	})
	b.Register(desc.Registration{
		Identity: desc.TableSpecific(TagSpliceTime, desc.TIDSCTE),
		XMLName:  SpliceTimeXMLName,
		Factory:  func() desc.Codec { return NewSpliceTime() },
		Display:  displaySpliceTime,
	})
}

// identifierString returns the identifier in hexadecimal followed by its
// ASCII form when printable, e.g. 0x43554549 ("CUEI").
func identifierString(id uint32) string {
	b := []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return names.Hex(id, 8)
		}
	}
	return fmt.Sprintf("0x%08X (%q)", id, b)
}

func getIdentifier(e *xmldoc.Element) (uint32, error) {
	return xmldoc.GetIntAttribute[uint32](e, "identifier", false, CUEI, 0, 0xFFFFFFFF)
}
