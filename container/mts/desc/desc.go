/*
NAME
  desc.go

DESCRIPTION
  desc.go provides the errors and the Codec contract implemented by every
  kind of descriptor.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package desc provides identification, registration and binary and XML
// transcoding of MPEG-TS descriptors.
//
// A descriptor kind implements Codec. Kinds are registered with a Builder,
// which produces an immutable Registry resolving a tag, private data
// specifier, extension tag and containing table to a Factory. The Serialize,
// Deserialize, ToXML and FromXML functions drive a Codec and enforce its
// validity rules.
package desc

import (
	"errors"
	"fmt"

	"github.com/ausocean/tsmeta/container/mts/bits"
	"github.com/ausocean/tsmeta/container/mts/xmldoc"
)

// Errors returned by this package.
var (
	ErrMalformed       = errors.New("malformed descriptor")
	ErrInvalid         = errors.New("invalid descriptor")
	ErrOverflow        = errors.New("descriptor payload too large")
	ErrNotAllowed      = errors.New("descriptor not allowed in table")
	ErrUnknownName     = errors.New("unknown descriptor name")
	ErrInvalidIdentity = errors.New("invalid descriptor identity")
	ErrDuplicate       = errors.New("duplicate descriptor registration")
	ErrMismatch        = errors.New("descriptor identity mismatch")
)

// MaxPayloadSize is the largest payload of a descriptor.
const MaxPayloadSize = 255

// Duplication is the behaviour of a descriptor list when a descriptor of a
// kind already present is added.
type Duplication int

const (
	Append   Duplication = iota // Always add.
	Replace                     // Replace the existing descriptor.
	Ignore                      // Keep the existing descriptor.
	AddOther                    // Add unless an identical descriptor exists.
	Merge                       // Merge the new content into the existing descriptor.
)

func (d Duplication) String() string {
	switch d {
	case Append:
		return "append"
	case Replace:
		return "replace"
	case Ignore:
		return "ignore"
	case AddOther:
		return "add-other"
	case Merge:
		return "merge"
	}
	return fmt.Sprintf("duplication(%d)", int(d))
}

// Codec is implemented by every kind of descriptor.
//
// An instance is either valid or invalid. Clear resets the fields to their
// defaults; the framework clears an instance before deserializing or
// analysing XML into it and sets its validity from the outcome. A caller that
// populates the fields directly calls SetValid(true).
//
// SerializePayload and DeserializePayload handle the payload after the
// extension tag, if any; the framework handles the tag, length and extension
// tag. They report problems through the buffer error latches.
type Codec interface {
	Identity() Identity
	XMLName() string
	Duplication() Duplication
	Valid() bool
	SetValid(bool)
	Clear()
	SerializePayload(b *bits.Buffer)
	DeserializePayload(b *bits.Buffer)
	BuildXML(e *xmldoc.Element)
	AnalyzeXML(e *xmldoc.Element) error
}

// LegacyNamer is implemented by codecs which also accept an older XML name.
type LegacyNamer interface {
	LegacyXMLName() string
}

// Merger is implemented by codecs with the Merge duplication policy.
type Merger interface {
	// Merge adds the content of other, a codec of the same kind, to the
	// receiver. It returns false if other cannot be merged.
	Merge(other Codec) bool
}

// Base holds the validity flag and is embedded by codecs.
type Base struct {
	valid bool
}

// Valid reports whether the descriptor content is valid.
func (b *Base) Valid() bool { return b.valid }

// SetValid sets the validity of the descriptor content.
func (b *Base) SetValid(v bool) { b.valid = v }

// Serialize returns the binary form of c. It fails with ErrInvalid if c is
// not valid and with ErrOverflow if the payload does not fit.
func Serialize(c Codec) (Record, error) {
	id := c.Identity()
	if !c.Valid() {
		return Record{}, fmt.Errorf("could not serialize %s: %w", id, ErrInvalid)
	}
	w := bits.NewWriter(MaxPayloadSize)
	if ext, ok := id.ExtensionTag(); ok {
		w.PutUint8(ext)
	}
	c.SerializePayload(w)
	switch {
	case w.WriteError():
		return Record{}, fmt.Errorf("could not serialize %s: %w", id, ErrOverflow)
	case w.HasError():
		return Record{}, fmt.Errorf("could not serialize %s: %w: %w", id, ErrInvalid, w.Err())
	case w.Depth() != 0:
		return Record{}, fmt.Errorf("could not serialize %s: %w: unbalanced sequence", id, ErrInvalid)
	}
	return Record{Tag: id.Tag(), Payload: w.Bytes()}, nil
}

// Deserialize replaces the content of c with the decoded record. On failure c
// is left invalid and the returned error wraps ErrMalformed or ErrMismatch.
// A payload is malformed if decoding latches a buffer error or leaves
// unread bytes.
func Deserialize(c Codec, r Record) error {
	c.Clear()
	c.SetValid(false)
	id := c.Identity()
	if r.Tag != id.Tag() {
		return fmt.Errorf("%w: tag 0x%02X, want %s", ErrMismatch, r.Tag, id)
	}
	if !r.Valid() {
		return fmt.Errorf("could not decode %s: %w: payload of %d bytes", id, ErrMalformed, len(r.Payload))
	}
	payload := r.Payload
	if ext, ok := id.ExtensionTag(); ok {
		if len(payload) == 0 {
			return fmt.Errorf("could not decode %s: %w: missing extension tag", id, ErrMalformed)
		}
		if payload[0] != ext {
			return fmt.Errorf("%w: extension tag 0x%02X, want %s", ErrMismatch, payload[0], id)
		}
		payload = payload[1:]
	}
	b := bits.NewReader(payload)
	c.DeserializePayload(b)
	switch {
	case b.HasError():
		return fmt.Errorf("could not decode %s: %w: %w", id, ErrMalformed, b.Err())
	case b.Depth() != 0:
		return fmt.Errorf("could not decode %s: %w: unbalanced region", id, ErrMalformed)
	case !b.EndOfRead():
		return fmt.Errorf("could not decode %s: %w: %d extraneous bits", id, ErrMalformed, b.RemainingReadBits())
	}
	c.SetValid(true)
	return nil
}

// ToXML adds the XML form of c to parent, which may be nil, and returns the
// new element. It fails with ErrInvalid if c is not valid.
func ToXML(c Codec, parent *xmldoc.Element) (*xmldoc.Element, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("could not build <%s>: %w", c.XMLName(), ErrInvalid)
	}
	var e *xmldoc.Element
	if parent == nil {
		e = xmldoc.NewElement(c.XMLName())
	} else {
		e = parent.AddElement(c.XMLName())
	}
	c.BuildXML(e)
	return e, nil
}

// MatchXMLName reports whether e is named after c, by primary or legacy name.
func MatchXMLName(c Codec, e *xmldoc.Element) bool {
	if e.NameIs(c.XMLName()) {
		return true
	}
	l, ok := c.(LegacyNamer)
	return ok && l.LegacyXMLName() != "" && e.NameIs(l.LegacyXMLName())
}

// FromXML replaces the content of c with the content of e. c is valid
// afterwards if and only if the returned error is nil.
func FromXML(c Codec, e *xmldoc.Element) error {
	c.Clear()
	c.SetValid(false)
	if !MatchXMLName(c, e) {
		return xmldoc.ElementError(e, fmt.Errorf("%w: expected <%s>", ErrMismatch, c.XMLName()))
	}
	err := c.AnalyzeXML(e)
	if err != nil {
		return err
	}
	c.SetValid(true)
	return nil
}
