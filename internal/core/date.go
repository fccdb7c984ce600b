package core

import (
	"fmt"
	"strings"
	"time"
)

// LedgerDateLayout is the serialization format used by ledger rows:
// day/month/4-digit-year.
const LedgerDateLayout = "02/01/2006"

// FormatDate renders a calendar day in the ledger format. The zero time
// renders as the empty string, mirroring ParseDate on optional columns.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LedgerDateLayout)
}

// ParseDate reads a ledger date cell. Empty input yields the zero time with
// no error so that optional date columns (return_date) round-trip cleanly.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(LedgerDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse ledger date %q: %w", s, err)
	}
	return t, nil
}

// Day truncates a timestamp to its calendar day, anchored at UTC midnight.
// ParseDate yields UTC midnights too, so a day taken from the clock always
// compares Equal to the same day read back from a ledger cell, whatever
// zone the process runs in.
func Day(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
