// Package core holds the ledger domain model shared by every other package:
// transactions, lending records, goals, amount parsing and the ledger date
// format.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user-entered text into a positive decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// tolerates a leading currency glyph. Zero, negative and non-numeric input
// return ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	for _, glyph := range []string{"₹", "$", "€", "£"} {
		s = strings.TrimPrefix(s, glyph)
	}
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two decimal places for display and for
// ledger cells.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
