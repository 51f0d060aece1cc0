/*
NAME
  errors.go

DESCRIPTION
  errors.go provides the error types reported by attribute accessors.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xmldoc

import (
	"errors"
	"fmt"
	"strings"
)

// Attribute error causes.
var (
	ErrMissing     = errors.New("missing required attribute")
	ErrSyntax      = errors.New("invalid value")
	ErrRange       = errors.New("value out of range")
	ErrUnknownName = errors.New("unknown name")
	ErrForbidden   = errors.New("forbidden attribute")
	ErrChildCount  = errors.New("invalid number of children")
)

// AttributeError describes a problem with an attribute, or with the element
// itself when Attribute is empty.
type AttributeError struct {
	Element   string
	Attribute string
	Line      int
	Err       error
}

func (e *AttributeError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("%v in <%s>, line %d", e.Err, e.Element, e.Line)
	}
	return fmt.Sprintf("%v for attribute '%s' in <%s>, line %d", e.Err, e.Attribute, e.Element, e.Line)
}

func (e *AttributeError) Unwrap() error { return e.Err }

// attrErr returns an AttributeError for the named attribute of el.
func attrErr(el *Element, attr string, err error) error {
	return &AttributeError{Element: el.Name, Attribute: attr, Line: el.Line, Err: err}
}

// ElementError returns an error about el that is not tied to an attribute.
func ElementError(el *Element, err error) error {
	return &AttributeError{Element: el.Name, Line: el.Line, Err: err}
}

// Errors collects several errors, so that a whole document can be checked in
// one pass.
type Errors []error

// Add appends err if it is not nil. Nested Errors are flattened.
func (me *Errors) Add(err error) {
	if err == nil {
		return
	}
	var nested Errors
	if errors.As(err, &nested) {
		*me = append(*me, nested...)
		return
	}
	*me = append(*me, err)
}

// Err returns me as an error, or nil if it is empty.
func (me Errors) Err() error {
	if len(me) == 0 {
		return nil
	}
	return me
}

func (me Errors) Error() string {
	if len(me) == 0 {
		panic("xmldoc: invalid use of Errors")
	}
	s := make([]string, len(me))
	for i, err := range me {
		s[i] = err.Error()
	}
	return strings.Join(s, "\n")
}

func (me Errors) Unwrap() []error { return me }
