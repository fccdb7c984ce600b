package parse

import "strings"

// categoryOrder fixes the priority in which categories are scanned; the
// first table hit wins regardless of position in the text.
var categoryOrder = []string{
	"groceries",
	"food",
	"transport",
	"fuel",
	"shopping",
	"bills",
	"entertainment",
	"health",
}

var categoryKeywords = map[string][]string{
	"groceries":     {"groceries", "grocery", "vegetables", "supermarket", "dmart", "kirana"},
	"food":          {"food", "lunch", "dinner", "breakfast", "snacks", "restaurant", "pizza", "burger", "coffee", "tea", "zomato", "swiggy"},
	"transport":     {"transport", "taxi", "cab", "uber", "ola", "bus", "train", "metro", "auto", "rickshaw"},
	"fuel":          {"fuel", "petrol", "diesel", "cng"},
	"shopping":      {"shopping", "clothes", "shoes", "amazon", "flipkart", "myntra"},
	"bills":         {"bill", "bills", "electricity", "recharge", "rent", "wifi", "internet", "broadband"},
	"entertainment": {"entertainment", "movie", "cinema", "netflix", "concert", "game"},
	"health":        {"health", "medicine", "doctor", "hospital", "pharmacy", "gym"},
}

// MatchCategory returns the first category whose keyword table hits the
// text, scanning categories in fixed priority order. Empty string when
// nothing matches.
func MatchCategory(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return ""
}
