/*
NAME
  format.go

DESCRIPTION
  format.go provides number formatting used by descriptor displays.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package names

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Grouped formats v in decimal with thousands separators, e.g. "47,500,000".
func Grouped[T constraints.Integer](v T) string { return printer.Sprintf("%d", v) }

// Hex formats v as "0xXX (dd)", using the given number of hex digits.
func Hex[T constraints.Integer](v T, digits int) string {
	return fmt.Sprintf("0x%0*X (%d)", digits, v, v)
}
