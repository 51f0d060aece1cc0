/*
NAME
  element.go

DESCRIPTION
  element.go provides a simple XML element tree that remembers the source line
  of every element, so that diagnostics can point into the original document.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package xmldoc provides an XML element tree and typed, validated accessors
// for element attributes, used to convert descriptors to and from XML.
package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of an XML document. Attributes keep their insertion
// order. Line is the source line of the element start tag, or 0 for elements
// built in memory.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Text     string
	Line     int
	Parent   *Element
}

// NewElement returns a detached element.
func NewElement(name string) *Element { return &Element{Name: name} }

// AddElement appends a new child element called name and returns it.
func (e *Element) AddElement(name string) *Element {
	c := &Element{Name: name, Parent: e}
	e.Children = append(e.Children, c)
	return c
}

// Adopt appends c as the last child of e.
func (e *Element) Adopt(c *Element) {
	c.Parent = e
	e.Children = append(e.Children, c)
}

// Attribute returns the raw value of the named attribute. Attribute names are
// matched case insensitively.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.Attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.Attribute(name)
	return ok
}

// SetAttribute sets the named attribute, replacing any existing value.
func (e *Element) SetAttribute(name, value string) {
	for i, a := range e.Attrs {
		if strings.EqualFold(a.Name, name) {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// DeleteAttribute removes the named attribute if present.
func (e *Element) DeleteAttribute(name string) {
	for i, a := range e.Attrs {
		if strings.EqualFold(a.Name, name) {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

// Elements returns the children called name, or all children if name is
// empty.
func (e *Element) Elements(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if name == "" || strings.EqualFold(c.Name, name) {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first child called name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// NameIs reports whether the element is called name.
func (e *Element) NameIs(name string) bool { return strings.EqualFold(e.Name, name) }

// Parse reads a complete XML document and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var root, cur *Element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			el := &Element{Name: t.Name.Local, Line: line}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			switch {
			case cur != nil:
				cur.Adopt(el)
			case root == nil:
				root = el
			default:
				return nil, fmt.Errorf("could not parse xml: more than one root element, line %d", line)
			}
			cur = el
		case xml.EndElement:
			if cur == nil {
				return nil, errors.New("could not parse xml: unbalanced end element")
			}
			cur.Text = strings.TrimSpace(cur.Text)
			cur = cur.Parent
		case xml.CharData:
			if cur != nil {
				cur.Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("could not parse xml: no root element")
	}
	return root, nil
}

// ParseString parses an XML document held in s.
func ParseString(s string) (*Element, error) { return Parse(strings.NewReader(s)) }

// Write writes e and its descendants as an indented XML document.
func (e *Element) Write(w io.Writer) error {
	_, err := io.WriteString(w, xml.Header)
	if err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	err = e.encode(enc)
	if err != nil {
		return err
	}
	err = enc.Flush()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func (e *Element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	err := enc.EncodeToken(start)
	if err != nil {
		return err
	}
	if e.Text != "" {
		err = enc.EncodeToken(xml.CharData(e.Text))
		if err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		err = c.encode(enc)
		if err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// String returns the XML text of e without a document header.
func (e *Element) String() string {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if e.encode(enc) != nil || enc.Flush() != nil {
		return "<" + e.Name + "/>"
	}
	return buf.String()
}
