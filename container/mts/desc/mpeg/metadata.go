/*
NAME
  metadata.go

DESCRIPTION
  metadata.go provides the AusOcean metadata descriptor, which carries
  key/value metadata in TSV form within the PMT.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg

import (
	"fmt"
	"io"
	"strings"

	"github.com/ausocean/tsmeta/container/mts/bits"
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

const MetadataXMLName = "ausocean_metadata_descriptor"

// Current version of the metadata encoding.
const (
	MetadataMajor = 1
	MetadataMinor = 0
)

// Header is a reserved byte, the version and a 16 bit length.
const metadataHeaderSize = 4

var versionGrammar = xmldoc.Composite{Sep: ".", Widths: []int{0, 0}}

// Metadata is the AusOcean metadata descriptor. Entries keep the order in
// which keys were first added.
type Metadata struct {
	desc.Base
	Major uint8 // 4 bits.
	Minor uint8 // 4 bits.
	keys  []string
	data  map[string]string
}

// NewMetadata returns an empty metadata descriptor of the current version.
func NewMetadata() *Metadata {
	return &Metadata{Major: MetadataMajor, Minor: MetadataMinor, data: make(map[string]string)}
}

// NewMetadataWith returns a valid metadata descriptor holding the given
// key/value pairs. A repeated key takes the latter value.
func NewMetadataWith(pairs [][2]string) *Metadata {
	m := NewMetadata()
	for _, p := range pairs {
		m.Add(p[0], p[1])
	}
	m.SetValid(true)
	return m
}

// Add sets the value for key, appending key if it is new.
func (m *Metadata) Add(key, val string) {
	if m.data == nil {
		m.data = make(map[string]string)
	}
	if _, ok := m.data[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.data[key] = val
}

// Get returns the value for key.
func (m *Metadata) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Delete removes key if present.
func (m *Metadata) Delete(key string) {
	if _, ok := m.data[key]; !ok {
		return
	}
	delete(m.data, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in order.
func (m *Metadata) Keys() []string { return append([]string(nil), m.keys...) }

// All returns a copy of the metadata as a map.
func (m *Metadata) All() map[string]string {
	cpy := make(map[string]string, len(m.data))
	for k, v := range m.data {
		cpy[k] = v
	}
	return cpy
}

// TSV returns the metadata as tab separated key=value entries.
func (m *Metadata) TSV() string {
	entries := make([]string, len(m.keys))
	for i, k := range m.keys {
		entries[i] = k + "=" + m.data[k]
	}
	return strings.Join(entries, "\t")
}

// ParseTSV parses tab separated key=value entries as produced by TSV.
func ParseTSV(s string) ([][2]string, error) {
	if s == "" {
		return nil, nil
	}
	var pairs [][2]string
	for _, entry := range strings.Split(s, "\t") {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed metadata entry %q", entry)
		}
		pairs = append(pairs, [2]string{k, v})
	}
	return pairs, nil
}

func (m *Metadata) Identity() desc.Identity       { return desc.TableSpecific(TagMetadata, desc.TIDPMT) }
func (m *Metadata) XMLName() string               { return MetadataXMLName }
func (m *Metadata) Duplication() desc.Duplication { return desc.Merge }

func (m *Metadata) Clear() {
	m.Major, m.Minor = MetadataMajor, MetadataMinor
	m.keys = nil
	m.data = make(map[string]string)
}

// Merge adds the entries of other whose keys m does not hold.
func (m *Metadata) Merge(other desc.Codec) bool {
	o, ok := other.(*Metadata)
	if !ok || !o.Valid() || o.Major != m.Major {
		return false
	}
	for _, k := range o.keys {
		if _, ok := m.data[k]; !ok {
			m.Add(k, o.data[k])
		}
	}
	return true
}

func (m *Metadata) SerializePayload(b *bits.Buffer) {
	b.PutUint8(0)
	b.PutBits(uint64(m.Major), 4)
	b.PutBits(uint64(m.Minor), 4)
	b.PushWriteSequenceWithLeadingLength(16)
	b.PutBytes([]byte(m.TSV()))
	b.PopWriteSequence()
}

func (m *Metadata) DeserializePayload(b *bits.Buffer) {
	if b.GetUint8() != 0 {
		b.SetUserError()
	}
	m.Major = bits.Get[uint8](b, 4)
	m.Minor = bits.Get[uint8](b, 4)
	if !b.PushReadSizeFromLength(16) {
		b.PopReadSize()
		return
	}
	pairs, err := ParseTSV(string(b.GetRemaining()))
	b.PopReadSize()
	if err != nil {
		b.SetUserError()
		return
	}
	for _, p := range pairs {
		m.Add(p[0], p[1])
	}
}

func (m *Metadata) BuildXML(e *xmldoc.Element) {
	xmldoc.SetCompositeAttribute(e, "version", versionGrammar, uint64(m.Major), uint64(m.Minor))
	for _, k := range m.keys {
		c := e.AddElement("entry")
		c.SetAttribute("key", k)
		c.SetAttribute("value", m.data[k])
	}
}

func (m *Metadata) AnalyzeXML(e *xmldoc.Element) error {
	var errs xmldoc.Errors
	v, err := xmldoc.GetCompositeAttribute(e, "version", versionGrammar, false)
	errs.Add(err)
	if v != nil {
		errs.Add(xmldoc.CheckIntRange(e, "version", v[0], 0, 0x0F))
		errs.Add(xmldoc.CheckIntRange(e, "version", v[1], 0, 0x0F))
		m.Major, m.Minor = uint8(v[0]), uint8(v[1])
	}
	entries, _ := xmldoc.GetChildren(e, "entry", 0, desc.MaxPayloadSize)
	for _, c := range entries {
		k, err := xmldoc.GetAttribute(c, "key", true, "", 1, desc.MaxPayloadSize)
		errs.Add(err)
		if strings.ContainsAny(k, "=\t") {
			errs.Add(xmldoc.ElementError(c, fmt.Errorf("%w: key %q contains a separator", xmldoc.ErrSyntax, k)))
		}
		val, err := xmldoc.GetAttribute(c, "value", false, "", 0, desc.MaxPayloadSize)
		errs.Add(err)
		if strings.Contains(val, "\t") {
			errs.Add(xmldoc.ElementError(c, fmt.Errorf("%w: value of %q contains a tab", xmldoc.ErrSyntax, k)))
		}
		m.Add(k, val)
	}
	return errs.Err()
}

func displayMetadata(w io.Writer, b *bits.Buffer, margin string, ctx desc.Context) {
	if !b.CanReadBytes(metadataHeaderSize) {
		return
	}
	b.SkipBytes(1)
	fmt.Fprintf(w, "%sVersion: %d.%d\n", margin, b.GetBits(4), b.GetBits(4))
	if !b.PushReadSizeFromLength(16) {
		return
	}
	pairs, err := ParseTSV(string(b.GetRemaining()))
	if err != nil {
		b.SetUserError()
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "%s%s: %s\n", margin, p[0], p[1])
	}
	b.PopReadSize()
}
