// Package core provides the payment record and amount display helpers.
//
// This file contains the formatting of textual amounts for display. Amounts are
// stored as text; only whole numbers are reformatted, anything else is echoed.
package core

import (
	"strconv"
	"strings"
)

// FormatAmount groups the digits of an integer amount by thousands with spaces.
//
// Non-integer or non-numeric input is returned trimmed but otherwise verbatim,
// so a record with a free-form amount still renders.
//
// Examples:
//
//	FormatAmount("1500000") -> "1 500 000"
//	FormatAmount("-2500")   -> "-2 500"
//	FormatAmount("12.50")   -> "12.50"
//	FormatAmount("abc")     -> "abc"
func FormatAmount(s string) string {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(' ')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// IsWholeAmount reports whether FormatAmount would reformat s.
func IsWholeAmount(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

// DisplayAmount formats s and appends the currency suffix to whole amounts.
func DisplayAmount(s, currency string) string {
	if !IsWholeAmount(s) || currency == "" {
		return FormatAmount(s)
	}
	return FormatAmount(s) + " " + currency
}
