/*
NAME
  names.go

DESCRIPTION
  names.go provides bidirectional tables between symbolic names and integer
  codes, used for display and for enumeration attributes in XML.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package names provides tables mapping integer codes found in descriptors to
// their symbolic names.
package names

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is a single name and value pair.
type Entry struct {
	Name  string
	Value int64
}

// Names is an immutable table of names and values. Several names may map to
// the same value, in which case the first one given is used when converting a
// value to a name. Name lookups are case insensitive.
type Names struct {
	entries []Entry
	byName  map[string]int64
	byValue map[int64]string
}

// New returns a Names table holding the given entries.
func New(entries ...Entry) *Names {
	n := &Names{
		entries: entries,
		byName:  make(map[string]int64, len(entries)),
		byValue: make(map[int64]string, len(entries)),
	}
	for _, e := range entries {
		k := strings.ToLower(e.Name)
		if _, ok := n.byName[k]; !ok {
			n.byName[k] = e.Value
		}
		if _, ok := n.byValue[e.Value]; !ok {
			n.byValue[e.Value] = e.Name
		}
	}
	return n
}

// Sequence returns a table whose values are the position of each name,
// starting at first.
func Sequence(first int64, names ...string) *Names {
	e := make([]Entry, len(names))
	for i, s := range names {
		e[i] = Entry{Name: s, Value: first + int64(i)}
	}
	return New(e...)
}

// Value returns the value for name.
func (n *Names) Value(name string) (int64, bool) {
	v, ok := n.byName[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// Name returns the name for v.
func (n *Names) Name(v int64) (string, bool) {
	s, ok := n.byValue[v]
	return s, ok
}

// NameOrValue returns the name for v, or v formatted in decimal if it has no
// name.
func (n *Names) NameOrValue(v int64) string {
	if s, ok := n.byValue[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}

// Display returns the name for v followed by its value in hexadecimal, padded
// to the given number of hex digits, e.g. "QAM64 (0x03)".
func (n *Names) Display(v int64, hexDigits int) string {
	s, ok := n.byValue[v]
	if !ok {
		s = "unknown"
	}
	return fmt.Sprintf("%s (0x%0*X)", s, hexDigits, v)
}

// Entries returns the entries sorted by value.
func (n *Names) Entries() []Entry {
	e := append([]Entry(nil), n.entries...)
	sort.SliceStable(e, func(i, j int) bool { return e[i].Value < e[j].Value })
	return e
}

// String returns the comma separated list of names, as used in diagnostics.
func (n *Names) String() string {
	s := make([]string, len(n.entries))
	for i, e := range n.entries {
		s[i] = e.Name
	}
	return strings.Join(s, ", ")
}

// Translate maps v through table, returning def when v has no entry.
func Translate[K comparable, E any](v K, table map[K]E, def E) E {
	if e, ok := table[v]; ok {
		return e
	}
	return def
}
