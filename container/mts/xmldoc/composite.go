/*
NAME
  composite.go

DESCRIPTION
  composite.go provides attributes whose value is made of several integer
  parts separated by a fixed character, such as an orbital position "19.2".

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
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Composite is the grammar of a value made of decimal parts separated by Sep.
// Widths gives the number of parts and, for each part, the maximum number of
// digits accepted and the zero padded width used when formatting. A width of
// 0 means any number of digits without padding.
type Composite struct {
	Sep    string
	Widths []int
}

var errComposite = errors.New("malformed composite value")

// Pattern returns a description of the expected form, e.g. "n.n".
func (c Composite) Pattern() string {
	p := make([]string, len(c.Widths))
	for i, w := range c.Widths {
		if w == 0 {
			p[i] = "n"
			continue
		}
		p[i] = strings.Repeat("n", w)
	}
	return strings.Join(p, c.Sep)
}

// split returns the digit strings of each part of s.
func (c Composite) split(s string) ([]string, error) {
	parts := strings.Split(strings.TrimSpace(s), c.Sep)
	if len(parts) != len(c.Widths) {
		return nil, errComposite
	}
	for i, p := range parts {
		if p == "" || (c.Widths[i] > 0 && len(p) > c.Widths[i]) {
			return nil, errComposite
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return nil, errComposite
			}
		}
	}
	return parts, nil
}

// Parse returns the integer parts of s.
func (c Composite) Parse(s string) ([]uint64, error) {
	parts, err := c.split(s)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s', use %s", ErrSyntax, s, c.Pattern())
	}
	v := make([]uint64, len(parts))
	for i, p := range parts {
		v[i], err = strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s', use %s", ErrSyntax, s, c.Pattern())
		}
	}
	return v, nil
}

// Format returns the text form of parts. Missing parts are formatted as 0.
func (c Composite) Format(parts ...uint64) string {
	s := make([]string, len(c.Widths))
	for i, w := range c.Widths {
		var v uint64
		if i < len(parts) {
			v = parts[i]
		}
		s[i] = fmt.Sprintf("%0*d", w, v)
	}
	return strings.Join(s, c.Sep)
}

// GetCompositeAttribute returns the parts of a composite attribute, or nil if
// it is absent and not required.
func GetCompositeAttribute(e *Element, name string, c Composite, required bool) ([]uint64, error) {
	s, ok := e.Attribute(name)
	if !ok {
		if required {
			return nil, attrErr(e, name, ErrMissing)
		}
		return nil, nil
	}
	v, err := c.Parse(s)
	if err != nil {
		return nil, attrErr(e, name, err)
	}
	return v, nil
}

// SetCompositeAttribute sets a composite attribute from its parts.
func SetCompositeAttribute(e *Element, name string, c Composite, parts ...uint64) {
	e.SetAttribute(name, c.Format(parts...))
}

// pow10 returns 10 to the power n.
func pow10(n int) uint64 {
	v := uint64(1)
	for ; n > 0; n-- {
		v *= 10
	}
	return v
}

// fixedPoint returns the composite grammar of a decimal number with the given
// number of decimals.
func fixedPoint(decimals int) Composite { return Composite{Sep: ".", Widths: []int{0, decimals}} }

// GetFixedPointAttribute reads a decimal number with the given number of
// decimals, such as "19.2", as an integer in units of the last decimal (192).
// The result must lie in [min, max].
func GetFixedPointAttribute[T constraints.Integer](e *Element, name string, decimals int, required bool, def, min, max T) (T, error) {
	s, ok := e.Attribute(name)
	if !ok {
		if required {
			return def, attrErr(e, name, ErrMissing)
		}
		return def, nil
	}
	c := fixedPoint(decimals)
	parts, err := c.split(s)
	if err != nil {
		return def, attrErr(e, name, fmt.Errorf("%w: '%s', use %s", ErrSyntax, s, c.Pattern()))
	}
	ip, err1 := strconv.ParseUint(parts[0], 10, 64)
	fp, err2 := strconv.ParseUint(parts[1], 10, 64)
	d := pow10(decimals)
	frac := fp * pow10(decimals-len(parts[1]))
	overflow := ip > (math.MaxUint64-frac)/d
	v := ip*d + frac
	if err1 != nil || err2 != nil || overflow || v > uint64(max) || T(v) < min {
		lo := c.Format(uint64(min)/pow10(decimals), uint64(min)%pow10(decimals))
		hi := c.Format(uint64(max)/pow10(decimals), uint64(max)%pow10(decimals))
		return def, attrErr(e, name, fmt.Errorf("%w: '%s' must be in range %s to %s", ErrRange, s, lo, hi))
	}
	return T(v), nil
}

// SetFixedPointAttribute writes v, in units of the last decimal, as a decimal
// number.
func SetFixedPointAttribute[T constraints.Integer](e *Element, name string, v T, decimals int) {
	d := pow10(decimals)
	e.SetAttribute(name, fixedPoint(decimals).Format(uint64(v)/d, uint64(v)%d))
}
