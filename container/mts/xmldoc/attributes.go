/*
NAME
  attributes.go

DESCRIPTION
  attributes.go provides typed getters and setters for element attributes.
  Getters validate presence and range and report errors carrying the element
  name, attribute name and source line.

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
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/constraints"

	"github.com/ausocean/tsmeta/container/mts/names"
)

// DateLayout is the layout of date attributes.
const DateLayout = "2006-01-02"

// signed reports whether T is a signed integer type.
func signed[T constraints.Integer]() bool { return ^T(0) < 0 }

// width returns the size of T in bits.
func width[T constraints.Integer]() int {
	n := 8
	for n < 64 && T(1)<<n != 0 {
		n *= 2
	}
	return n
}

// ParseInt parses an integer literal into T. Decimal literals may group their
// digits by three with ',' or ' ' separators and hexadecimal literals start
// with 0x.
func ParseInt[T constraints.Integer](s string) (T, error) {
	s = strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	digits, ok := ungroup(s)
	if !ok || digits == "" || (base == 16 && digits != s) {
		return 0, strconv.ErrSyntax
	}
	if signed[T]() {
		if neg {
			digits = "-" + digits
		}
		v, err := strconv.ParseInt(digits, base, width[T]())
		return T(v), err
	}
	if neg {
		return 0, strconv.ErrRange
	}
	v, err := strconv.ParseUint(digits, base, width[T]())
	return T(v), err
}

// ungroup removes the digit group separators of s. Separators may only
// appear between groups of three digits, after a leading group of one to
// three digits, e.g. "47,500,000" or "12 345".
func ungroup(s string) (string, bool) {
	var parts []string
	start := 0
	for i, r := range s {
		if r == ',' || unicode.IsSpace(r) {
			parts = append(parts, s[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	if parts == nil {
		return s, true
	}
	parts = append(parts, s[start:])
	for i, p := range parts {
		if p == "" || len(p) > 3 || (i > 0 && len(p) != 3) {
			return "", false
		}
	}
	return strings.Join(parts, ""), true
}

// FormatInt formats v in decimal, or in hexadecimal with 0x prefix and the
// digits needed by T when hex is true.
func FormatInt[T constraints.Integer](v T, hex bool) string {
	if !hex {
		if signed[T]() {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatUint(uint64(v), 10)
	}
	n := width[T]() / 4
	if signed[T]() && v < 0 {
		return fmt.Sprintf("-0x%0*X", n, uint64(-int64(v)))
	}
	return fmt.Sprintf("0x%0*X", n, uint64(v))
}

// GetIntAttribute returns the value of an integer attribute, which must lie in
// [min, max]. If the attribute is absent, def is returned unless required is
// true.
func GetIntAttribute[T constraints.Integer](e *Element, name string, required bool, def, min, max T) (T, error) {
	s, ok := e.Attribute(name)
	if !ok {
		if required {
			return def, attrErr(e, name, ErrMissing)
		}
		return def, nil
	}
	return checkInt(e, name, s, min, max)
}

func checkInt[T constraints.Integer](e *Element, name, s string, min, max T) (T, error) {
	v, err := ParseInt[T](s)
	if err == nil && v >= min && v <= max {
		return v, nil
	}
	if errors.Is(err, strconv.ErrSyntax) {
		return 0, attrErr(e, name, fmt.Errorf("%w: '%s' is not a valid integer", ErrSyntax, s))
	}
	return 0, attrErr(e, name, fmt.Errorf("%w: '%s' must be in range %d to %d", ErrRange, s, min, max))
}

// GetOptionalIntAttribute returns nil if the attribute is absent. A present
// value must lie in [min, max].
func GetOptionalIntAttribute[T constraints.Integer](e *Element, name string, min, max T) (*T, error) {
	s, ok := e.Attribute(name)
	if !ok {
		return nil, nil
	}
	v, err := checkInt(e, name, s, min, max)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetConditionalIntAttribute reads an integer attribute whose presence is
// dictated by cond. When cond is false the attribute must be absent.
func GetConditionalIntAttribute[T constraints.Integer](e *Element, name string, cond bool, def, min, max T) (T, error) {
	if !cond {
		if e.HasAttribute(name) {
			return def, attrErr(e, name, ErrForbidden)
		}
		return def, nil
	}
	return GetIntAttribute(e, name, true, def, min, max)
}

// GetIntEnumAttribute returns the value of an attribute given either as a name
// from table or as an integer literal.
func GetIntEnumAttribute[T constraints.Integer](e *Element, name string, table *names.Names, required bool, def T) (T, error) {
	s, ok := e.Attribute(name)
	if !ok {
		if required {
			return def, attrErr(e, name, ErrMissing)
		}
		return def, nil
	}
	return checkEnum[T](e, name, s, table)
}

func checkEnum[T constraints.Integer](e *Element, name, s string, table *names.Names) (T, error) {
	if v, ok := table.Value(s); ok {
		return T(v), nil
	}
	v, err := ParseInt[T](s)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return 0, attrErr(e, name, fmt.Errorf("%w: '%s' does not fit in %d bits", ErrRange, s, width[T]()))
	case err != nil:
		return 0, attrErr(e, name, fmt.Errorf("%w '%s', use one of %s", ErrUnknownName, s, table))
	}
	return v, nil
}

// GetOptionalIntEnumAttribute returns nil if the attribute is absent.
func GetOptionalIntEnumAttribute[T constraints.Integer](e *Element, name string, table *names.Names) (*T, error) {
	s, ok := e.Attribute(name)
	if !ok {
		return nil, nil
	}
	v, err := checkEnum[T](e, name, s, table)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "on":
		return true, true
	case "false", "no", "0", "off":
		return false, true
	}
	return false, false
}

// GetBoolAttribute returns the value of a boolean attribute. Accepted values
// are true, yes, on, 1 and false, no, off, 0.
func GetBoolAttribute(e *Element, name string, required, def bool) (bool, error) {
	s, ok := e.Attribute(name)
	if !ok {
		if required {
			return def, attrErr(e, name, ErrMissing)
		}
		return def, nil
	}
	v, ok := parseBool(s)
	if !ok {
		return def, attrErr(e, name, fmt.Errorf("%w: '%s' is not a valid boolean", ErrSyntax, s))
	}
	return v, nil
}

// GetOptionalBoolAttribute returns nil if the attribute is absent.
func GetOptionalBoolAttribute(e *Element, name string) (*bool, error) {
	if !e.HasAttribute(name) {
		return nil, nil
	}
	v, err := GetBoolAttribute(e, name, true, false)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetAttribute returns a string attribute whose length must lie in
// [minLen, maxLen].
func GetAttribute(e *Element, name string, required bool, def string, minLen, maxLen int) (string, error) {
	s, ok := e.Attribute(name)
	if !ok {
		if required {
			return def, attrErr(e, name, ErrMissing)
		}
		return def, nil
	}
	if len(s) < minLen || len(s) > maxLen {
		return def, attrErr(e, name, fmt.Errorf("%w: length of '%s' must be in range %d to %d", ErrRange, s, minLen, maxLen))
	}
	return s, nil
}

// GetDateAttribute returns a date attribute in the form YYYY-MM-DD.
func GetDateAttribute(e *Element, name string, required bool) (time.Time, error) {
	s, ok := e.Attribute(name)
	if !ok {
		if required {
			return time.Time{}, attrErr(e, name, ErrMissing)
		}
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, attrErr(e, name, fmt.Errorf("%w: '%s' is not a date, use YYYY-MM-DD", ErrSyntax, s))
	}
	return t, nil
}

// GetIPAttribute returns an IPv4 or IPv6 address attribute.
func GetIPAttribute(e *Element, name string, required bool) (net.IP, error) {
	s, ok := e.Attribute(name)
	if !ok {
		if required {
			return nil, attrErr(e, name, ErrMissing)
		}
		return nil, nil
	}
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return nil, attrErr(e, name, fmt.Errorf("%w: '%s' is not an IP address", ErrSyntax, s))
	}
	return ip, nil
}

// GetMACAttribute returns a MAC address attribute.
func GetMACAttribute(e *Element, name string, required bool) (net.HardwareAddr, error) {
	s, ok := e.Attribute(name)
	if !ok {
		if required {
			return nil, attrErr(e, name, ErrMissing)
		}
		return nil, nil
	}
	mac, err := net.ParseMAC(strings.TrimSpace(s))
	if err != nil {
		return nil, attrErr(e, name, fmt.Errorf("%w: '%s' is not a MAC address", ErrSyntax, s))
	}
	return mac, nil
}

// GetHexText decodes the text of e as hexadecimal bytes, ignoring white
// space. The decoded size must lie in [min, max].
func GetHexText(e *Element, min, max int) ([]byte, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, e.Text)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ElementError(e, fmt.Errorf("%w: text is not hexadecimal", ErrSyntax))
	}
	if len(b) < min || len(b) > max {
		return nil, ElementError(e, fmt.Errorf("%w: size %d must be in range %d to %d", ErrRange, len(b), min, max))
	}
	return b, nil
}

// GetChildren returns the children called name, of which there must be
// between min and max.
func GetChildren(e *Element, name string, min, max int) ([]*Element, error) {
	c := e.Elements(name)
	if len(c) < min || len(c) > max {
		return c, ElementError(e, fmt.Errorf("%w: found %d <%s>, allowed %d to %d", ErrChildCount, len(c), name, min, max))
	}
	return c, nil
}

// SetIntAttribute sets an integer attribute, in hexadecimal if hex is true.
func SetIntAttribute[T constraints.Integer](e *Element, name string, v T, hex bool) {
	e.SetAttribute(name, FormatInt(v, hex))
}

// SetOptionalIntAttribute sets the attribute if v is not nil.
func SetOptionalIntAttribute[T constraints.Integer](e *Element, name string, v *T, hex bool) {
	if v != nil {
		SetIntAttribute(e, name, *v, hex)
	}
}

// SetIntEnumAttribute sets the attribute to the name of v in table, or to v
// in decimal if it has no name.
func SetIntEnumAttribute[T constraints.Integer](e *Element, name string, table *names.Names, v T) {
	e.SetAttribute(name, table.NameOrValue(int64(v)))
}

// SetOptionalIntEnumAttribute sets the attribute if v is not nil.
func SetOptionalIntEnumAttribute[T constraints.Integer](e *Element, name string, table *names.Names, v *T) {
	if v != nil {
		SetIntEnumAttribute(e, name, table, *v)
	}
}

// SetBoolAttribute sets a boolean attribute to true or false.
func SetBoolAttribute(e *Element, name string, v bool) {
	e.SetAttribute(name, strconv.FormatBool(v))
}

// SetOptionalBoolAttribute sets the attribute if v is not nil.
func SetOptionalBoolAttribute(e *Element, name string, v *bool) {
	if v != nil {
		SetBoolAttribute(e, name, *v)
	}
}

// SetDateAttribute sets a date attribute in the form YYYY-MM-DD.
func SetDateAttribute(e *Element, name string, t time.Time) {
	e.SetAttribute(name, t.Format(DateLayout))
}

// SetIPAttribute sets an IP address attribute.
func SetIPAttribute(e *Element, name string, ip net.IP) { e.SetAttribute(name, ip.String()) }

// SetMACAttribute sets a MAC address attribute.
func SetMACAttribute(e *Element, name string, mac net.HardwareAddr) {
	e.SetAttribute(name, mac.String())
}

// SetHexText sets the text of e to the hexadecimal representation of b.
func SetHexText(e *Element, b []byte) { e.Text = strings.ToUpper(hex.EncodeToString(b)) }

// CheckIntRange returns an error for the named attribute of e if v, already
// read, is not in [min, max]. It is used for enumerations narrower than
// their Go type.
func CheckIntRange[T constraints.Integer](e *Element, name string, v, min, max T) error {
	if v >= min && v <= max {
		return nil
	}
	return attrErr(e, name, fmt.Errorf("%w: %d must be in range %d to %d", ErrRange, v, min, max))
}
