/*
NAME
  list.go

DESCRIPTION
  list.go provides List, the ordered descriptors attached to one table or
  table entry, with tracking of private data specifiers.

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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/tsmeta/container/mts/bits"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

// DefaultReservedBits is the number of reserved bits before the 12 bit
// length of a descriptor loop.
const DefaultReservedBits = 4

type listEntry struct {
	rec Record
	pds uint32 // Private data specifier in force for rec.
}

// List is an ordered list of descriptors found in the table tid. Each
// descriptor is associated with the private data specifier in force at its
// position, that is, the one declared by the last preceding
// private_data_specifier_descriptor.
type List struct {
	reg     *Registry
	tid     TID
	log     logging.Logger
	defPDS  uint32 // Specifier in force before any private_data_specifier_descriptor.
	entries []listEntry
}

// NewList returns an empty list of descriptors for table tid, resolved by
// reg. l may be nil.
func NewList(reg *Registry, tid TID, l logging.Logger) *List {
	if l == nil {
		l = logging.New(logging.Error, io.Discard, true)
	}
	return &List{reg: reg, tid: tid, log: l}
}

// TableID returns the table the list belongs to.
func (l *List) TableID() TID { return l.tid }

// SetDefaultPDS sets the private data specifier in force before the first
// private_data_specifier_descriptor of the list.
func (l *List) SetDefaultPDS(pds uint32) {
	l.defPDS = pds
	l.reindex()
}

// Len returns the number of descriptors.
func (l *List) Len() int { return len(l.entries) }

// Record returns descriptor i.
func (l *List) Record(i int) Record { return l.entries[i].rec }

// PDS returns the private data specifier in force for descriptor i.
func (l *List) PDS(i int) uint32 { return l.entries[i].pds }

// lastPDS returns the private data specifier in force at the end of the list.
func (l *List) lastPDS() uint32 {
	if len(l.entries) == 0 {
		return l.defPDS
	}
	return l.entries[len(l.entries)-1].pds
}

// reindex recomputes the private data specifier of every entry.
func (l *List) reindex() {
	pds := l.defPDS
	for i := range l.entries {
		if p, ok := l.entries[i].rec.PDS(); ok {
			pds = p
		}
		l.entries[i].pds = pds
	}
}

// AddRecord appends rec without applying any duplication policy.
func (l *List) AddRecord(rec Record) {
	pds := l.lastPDS()
	if p, ok := rec.PDS(); ok {
		pds = p
	}
	l.entries = append(l.entries, listEntry{rec: rec, pds: pds})
}

// pdsRecord returns a private_data_specifier_descriptor declaring pds.
func pdsRecord(pds uint32) Record {
	return Record{Tag: PDSTag, Payload: binary.BigEndian.AppendUint32(nil, pds)}
}

// appendWithPDS appends rec of identity id, preceded by a
// private_data_specifier_descriptor if id is private and its specifier is not
// in force.
func (l *List) appendWithPDS(rec Record, id Identity) {
	if pds, ok := id.PDS(); ok && pds != l.lastPDS() {
		l.AddRecord(pdsRecord(pds))
	}
	l.AddRecord(rec)
}

// matches reports whether entry i is of the same kind as id.
func (l *List) matches(i int, id Identity) bool {
	e := l.entries[i]
	if e.rec.Tag != id.Tag() {
		return false
	}
	if ext, ok := id.ExtensionTag(); ok {
		x, ok := e.rec.ExtensionTag()
		return ok && x == ext
	}
	if pds, ok := id.PDS(); ok {
		return e.pds == pds
	}
	return true
}

// Add serializes c and adds it according to its duplication policy. A
// private descriptor is preceded by a private_data_specifier_descriptor when
// needed.
func (l *List) Add(c Codec) error {
	rec, err := Serialize(c)
	if err != nil {
		return err
	}
	id := c.Identity()
	i := l.SearchIdentity(id, 0)
	if i >= l.Len() {
		l.appendWithPDS(rec, id)
		return nil
	}

	switch c.Duplication() {
	case Replace:
		l.entries[i].rec = rec
	case Ignore:
	case AddOther:
		for ; i < l.Len(); i = l.SearchIdentity(id, i+1) {
			if l.entries[i].rec.Equal(rec) {
				return nil
			}
		}
		l.appendWithPDS(rec, id)
	case Merge:
		m, ok := c.(Merger)
		if !ok {
			l.appendWithPDS(rec, id)
			return nil
		}
		prev, err := l.reg.Decode(l.entries[i].rec, l.entries[i].pds, l.tid)
		if err != nil || !m.Merge(prev) {
			l.log.Warning("could not merge descriptor, appending", "identity", id.String())
			l.appendWithPDS(rec, id)
			return nil
		}
		merged, err := Serialize(c)
		if err != nil {
			return err
		}
		l.entries[i].rec = merged
	default:
		l.appendWithPDS(rec, id)
	}
	return nil
}

// Search returns the index of the first descriptor with the given tag at or
// after start, or Len() if there is none. For a private tag a non zero pds
// must also match.
func (l *List) Search(tag uint8, start int, pds uint32) int {
	for i := max(start, 0); i < len(l.entries); i++ {
		e := l.entries[i]
		if e.rec.Tag == tag && (tag < PrivateTagMin || pds == 0 || e.pds == pds) {
			return i
		}
	}
	return len(l.entries)
}

// SearchIdentity returns the index of the first descriptor of kind id at or
// after start, or Len() if there is none.
func (l *List) SearchIdentity(id Identity, start int) int {
	for i := max(start, 0); i < len(l.entries); i++ {
		if l.matches(i, id) {
			return i
		}
	}
	return len(l.entries)
}

// dependsOnPDS reports whether private descriptors after i rely on the
// private_data_specifier_descriptor at i.
func (l *List) dependsOnPDS(i int) bool {
	for j := i + 1; j < len(l.entries); j++ {
		t := l.entries[j].rec.Tag
		if t == PDSTag {
			return false
		}
		if t >= PrivateTagMin {
			return true
		}
	}
	return false
}

// RemoveByIndex removes descriptor i. A private_data_specifier_descriptor
// which following private descriptors depend on is not removed.
func (l *List) RemoveByIndex(i int) bool {
	if i < 0 || i >= len(l.entries) {
		return false
	}
	if l.entries[i].rec.Tag == PDSTag && l.dependsOnPDS(i) {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	l.reindex()
	return true
}

// RemoveByTag removes the descriptors with the given tag, and for a private
// tag the given non zero pds, and returns the number removed.
func (l *List) RemoveByTag(tag uint8, pds uint32) int {
	n := 0
	for i := l.Search(tag, 0, pds); i < l.Len(); i = l.Search(tag, i, pds) {
		if !l.RemoveByIndex(i) {
			i++
			continue
		}
		n++
	}
	return n
}

// Clear removes all descriptors.
func (l *List) Clear() { l.entries = nil }

// Size returns the size in bytes of the binary form of the list.
func (l *List) Size() int {
	n := 0
	for _, e := range l.entries {
		n += e.rec.Size()
	}
	return n
}

// Bytes returns the concatenated binary form of the descriptors.
func (l *List) Bytes() []byte {
	b := make([]byte, 0, l.Size())
	for _, e := range l.entries {
		b = append(b, e.rec.Bytes()...)
	}
	return b
}

// LengthBytes returns the binary form of the list preceded by reservedBits
// bits set to 1 and a length field completing 16 bits.
func (l *List) LengthBytes(reservedBits int) ([]byte, error) {
	w := bits.NewWriter(2 + l.Size())
	w.PutReservedBits(reservedBits)
	w.PushWriteSequenceWithLeadingLength(16 - reservedBits)
	w.PutBytes(l.Bytes())
	w.PopWriteSequence()
	if w.HasError() {
		return nil, fmt.Errorf("%w: descriptor loop of %d bytes does not fit in %d bits", ErrOverflow, l.Size(), 16-reservedBits)
	}
	return w.Bytes(), nil
}

// ParseList parses a descriptor loop. On a truncated descriptor it returns
// the descriptors read so far and an error wrapping ErrMalformed.
func ParseList(reg *Registry, tid TID, data []byte, l logging.Logger) (*List, error) {
	list := NewList(reg, tid, l)
	return list, list.AddBytes(data)
}

// AddBytes appends the descriptors of a descriptor loop without applying
// any duplication policy. On a truncated descriptor the descriptors read so
// far are kept and the error wraps ErrMalformed.
func (l *List) AddBytes(data []byte) error {
	for off := 0; off < len(data); {
		rec, n, err := ParseRecord(data[off:])
		if err != nil {
			l.log.Warning("truncated descriptor loop", "offset", off, "error", err.Error())
			return fmt.Errorf("at offset %d: %w", off, err)
		}
		l.AddRecord(rec)
		off += n
	}
	return nil
}

// ParseLengthPrefixedList parses a descriptor loop preceded by reservedBits
// bits and a length field completing 16 bits. It returns the list and the
// number of bytes consumed.
func ParseLengthPrefixedList(reg *Registry, tid TID, data []byte, reservedBits int, l logging.Logger) (*List, int, error) {
	b := bits.NewReader(data)
	b.SkipReservedBits(reservedBits)
	n := int(b.GetBits(16 - reservedBits))
	if b.HasError() {
		return NewList(reg, tid, l), 0, fmt.Errorf("%w: missing descriptor loop length", ErrMalformed)
	}
	end := 2 + n
	if end > len(data) {
		list, _ := ParseList(reg, tid, data[2:], l)
		return list, len(data), fmt.Errorf("%w: descriptor loop of %d bytes, %d available", ErrMalformed, n, len(data)-2)
	}
	list, err := ParseList(reg, tid, data[2:end], l)
	return list, end, err
}

// Decode returns descriptor i decoded. See Registry.Decode.
func (l *List) Decode(i int) (Codec, error) {
	return l.reg.Decode(l.entries[i].rec, l.entries[i].pds, l.tid)
}

// ToXML adds an element for each descriptor to parent. Descriptors which
// cannot be decoded are added as generic descriptors.
func (l *List) ToXML(parent *xmldoc.Element) error {
	var errs xmldoc.Errors
	for i := range l.entries {
		c, err := l.Decode(i)
		if err != nil {
			l.log.Warning("could not decode descriptor", "index", i, "error", err.Error())
		}
		_, err = ToXML(c, parent)
		errs.Add(err)
	}
	return errs.Err()
}

// FromXML replaces the content of the list with the descriptors held by the
// children of parent. Every child is checked and all errors are returned
// together. Descriptors in error are not added.
func (l *List) FromXML(parent *xmldoc.Element) error {
	l.Clear()
	var errs xmldoc.Errors
	for _, e := range parent.Children {
		c, err := l.codecFor(e)
		if err != nil {
			errs.Add(err)
			continue
		}
		err = FromXML(c, e)
		if err != nil {
			errs.Add(err)
			continue
		}
		rec, err := Serialize(c)
		if err != nil {
			errs.Add(xmldoc.ElementError(e, err))
			continue
		}
		l.appendWithPDS(rec, c.Identity())
	}
	return errs.Err()
}

// codecFor returns an empty codec for the element e.
func (l *List) codecFor(e *xmldoc.Element) (Codec, error) {
	if e.NameIs(GenericXMLName) {
		return &Raw{}, nil
	}
	f, ok := l.reg.FactoryByName(e.Name)
	if !ok {
		return nil, xmldoc.ElementError(e, ErrUnknownName)
	}
	if l.tid != TIDNull && !l.reg.IsAllowedIn(e.Name, l.tid) {
		return nil, xmldoc.ElementError(e, fmt.Errorf("%w 0x%02X, allowed in %v", ErrNotAllowed, l.tid, l.reg.TablesFor(e.Name)))
	}
	return f(), nil
}

// Display writes a human readable form of every descriptor to w.
func (l *List) Display(w io.Writer, margin string) {
	for i, e := range l.entries {
		id := e.rec.Identity(e.pds)
		fmt.Fprintf(w, "%s- Descriptor %d: %s, tag %s, %d bytes\n", margin, i, l.reg.Name(e.rec, e.pds, l.tid), id, len(e.rec.Payload))
		l.reg.Display(w, e.rec, e.pds, l.tid, margin+"  ")
	}
}
