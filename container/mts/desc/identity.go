/*
NAME
  identity.go

DESCRIPTION
  identity.go provides the Identity type, which uniquely identifies a kind of
  descriptor.

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
	"cmp"
	"fmt"
)

// TID is a table id. MPEG table ids occupy the low 8 bits.
type TID uint16

// Well known tags and table ids.
const (
	ExtensionTag  = 0x7F // extension_descriptor.
	PDSTag        = 0x5F // private_data_specifier_descriptor.
	PrivateTagMin = 0x80 // First tag of the user private range.

	TIDPAT  TID = 0x00
	TIDCAT  TID = 0x01
	TIDPMT  TID = 0x02
	TIDNIT  TID = 0x40
	TIDSDT  TID = 0x42
	TIDEIT  TID = 0x4E
	TIDSCTE TID = 0xFC // SCTE 35 splice information table.
	TIDNull TID = 0xFF // Not inside a table.
)

// Identity identifies a kind of descriptor: its tag, the private data
// specifier for a private tag, the extension tag for an extension descriptor
// and the table id for a descriptor which is only meaningful in one table.
// Identity values are comparable and may be used as map keys.
type Identity struct {
	tag      uint8
	pds      uint32
	ext      uint8
	tid      TID
	hasPDS   bool
	hasExt   bool
	hasTable bool
}

// Regular returns the identity of a standard descriptor.
func Regular(tag uint8) Identity { return Identity{tag: tag} }

// Private returns the identity of a private descriptor defined by the holder
// of the private data specifier pds.
func Private(tag uint8, pds uint32) Identity {
	return Identity{tag: tag, pds: pds, hasPDS: true}
}

// Extension returns the identity of an extension descriptor.
func Extension(ext uint8) Identity {
	return Identity{tag: ExtensionTag, ext: ext, hasExt: true}
}

// TableSpecific returns the identity of a descriptor which is only defined in
// the table tid.
func TableSpecific(tag uint8, tid TID) Identity {
	return Identity{tag: tag, tid: tid, hasTable: true}
}

// TableSpecificExtension returns the identity of an extension descriptor
// which is only defined in the table tid.
func TableSpecificExtension(ext uint8, tid TID) Identity {
	return Identity{tag: ExtensionTag, ext: ext, hasExt: true, tid: tid, hasTable: true}
}

// Tag returns the descriptor tag.
func (id Identity) Tag() uint8 { return id.tag }

// PDS returns the private data specifier, if any.
func (id Identity) PDS() (uint32, bool) { return id.pds, id.hasPDS }

// ExtensionTag returns the extension tag, if any.
func (id Identity) ExtensionTag() (uint8, bool) { return id.ext, id.hasExt }

// TableID returns the table the identity is scoped to, if any.
func (id Identity) TableID() (TID, bool) { return id.tid, id.hasTable }

func (id Identity) IsExtension() bool     { return id.hasExt }
func (id Identity) IsPrivate() bool       { return id.hasPDS }
func (id Identity) IsTableSpecific() bool { return id.hasTable }

// Global returns id without its table scope.
func (id Identity) Global() Identity {
	id.tid, id.hasTable = 0, false
	return id
}

// Validate checks the consistency of the fields of id.
func (id Identity) Validate() error {
	switch {
	case id.tag == ExtensionTag && !id.hasExt:
		return fmt.Errorf("%w: extension tag without extension byte", ErrInvalidIdentity)
	case id.tag != ExtensionTag && id.hasExt:
		return fmt.Errorf("%w: extension byte on tag 0x%02X", ErrInvalidIdentity, id.tag)
	case id.tag < PrivateTagMin && id.hasPDS:
		return fmt.Errorf("%w: private data specifier on standard tag 0x%02X", ErrInvalidIdentity, id.tag)
	case id.tag >= PrivateTagMin && !id.hasPDS && !id.hasTable:
		return fmt.Errorf("%w: private tag 0x%02X without private data specifier", ErrInvalidIdentity, id.tag)
	case id.hasPDS && id.hasTable:
		return fmt.Errorf("%w: table specific descriptor with private data specifier", ErrInvalidIdentity)
	}
	return nil
}

// compareOpt orders absent values before present ones.
func compareOpt[T cmp.Ordered](a T, aok bool, b T, bok bool) int {
	switch {
	case aok != bok && !aok:
		return -1
	case aok != bok:
		return 1
	case !aok:
		return 0
	}
	return cmp.Compare(a, b)
}

// Compare orders identities by tag, private data specifier, extension tag and
// table id, absent values first.
func (id Identity) Compare(o Identity) int {
	if c := cmp.Compare(id.tag, o.tag); c != 0 {
		return c
	}
	if c := compareOpt(id.pds, id.hasPDS, o.pds, o.hasPDS); c != 0 {
		return c
	}
	if c := compareOpt(id.ext, id.hasExt, o.ext, o.hasExt); c != 0 {
		return c
	}
	return compareOpt(id.tid, id.hasTable, o.tid, o.hasTable)
}

// String returns a compact description such as "0x7F/0x04" or
// "0x83 (PDS 0x00000028)".
func (id Identity) String() string {
	s := fmt.Sprintf("0x%02X", id.tag)
	if id.hasExt {
		s += fmt.Sprintf("/0x%02X", id.ext)
	}
	if id.hasPDS {
		s += fmt.Sprintf(" (PDS 0x%08X)", id.pds)
	}
	if id.hasTable {
		s += fmt.Sprintf(" in table 0x%02X", id.tid)
	}
	return s
}
