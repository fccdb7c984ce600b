package parse

import (
	"regexp"
	"strings"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/shopspring/decimal"
)

// amountPattern matches the first decimal number, optionally preceded by a
// currency glyph.
var amountPattern = regexp.MustCompile(`[₹$€£]?\s*(\d+(?:\.\d+)?)`)

// merchantMarkers are the tokens whose follower is taken as the merchant.
var merchantMarkers = map[string]bool{"at": true, "from": true, "in": true, "@": true}

// Fallback extracts transaction fields deterministically, without any AI
// call. It is the final word whenever extraction over the wire fails.
func Fallback(text string) Result {
	r := Result{
		Description:   strings.TrimSpace(text),
		Category:      MatchCategory(text),
		Merchant:      merchantAfterMarker(text),
		TimeReference: "today",
	}
	if m := amountPattern.FindStringSubmatch(text); m != nil {
		if d, err := decimal.NewFromString(m[1]); err == nil && d.Sign() > 0 {
			r.Amount = d
			r.HasAmount = true
		}
	}
	if r.Category == "" {
		r.Category = core.DefaultCategory
	}
	return r
}

// merchantAfterMarker returns the token immediately following the first
// "at"/"from"/"in"/"@" marker, title-cased, only when longer than two
// characters.
func merchantAfterMarker(text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		if !merchantMarkers[strings.ToLower(f)] || i+1 >= len(fields) {
			continue
		}
		token := strings.Trim(fields[i+1], ".,!?;:\"'()")
		if len(token) <= 2 {
			return ""
		}
		return titleCase(token)
	}
	return ""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
