package parse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/ai"
)

type stubCompleter struct {
	response string
	err      error
	gotTemp  float64
}

func (s *stubCompleter) Complete(_ context.Context, _ []ai.Message, temp float64) (string, error) {
	s.gotTemp = temp
	return s.response, s.err
}

func TestParseUsesAIExtraction(t *testing.T) {
	s := &stubCompleter{response: `Here is the result:
{"amount": "450.50", "category": "food", "description": "team lunch", "merchant": "Subway", "time_reference": "yesterday"}`}
	p := New(s)

	r := p.Parse(context.Background(), "lunch 450.50 at subway yesterday")
	if !r.HasAmount || r.Amount.String() != "450.5" {
		t.Fatalf("amount = %v (has=%v)", r.Amount, r.HasAmount)
	}
	if r.Category != "food" || r.Merchant != "Subway" || r.TimeReference != "yesterday" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if s.gotTemp != extractionTemperature {
		t.Fatalf("temperature = %v, want %v", s.gotTemp, extractionTemperature)
	}
}

func TestParseNumericAmountField(t *testing.T) {
	s := &stubCompleter{response: `{"amount": 200, "category": "fuel", "description": "petrol", "merchant": "", "time_reference": ""}`}
	r := New(s).Parse(context.Background(), "petrol 200")
	if !r.HasAmount || r.Amount.String() != "200" {
		t.Fatalf("amount = %v (has=%v)", r.Amount, r.HasAmount)
	}
	if r.TimeReference != "today" {
		t.Fatalf("empty time_reference should default to today, got %q", r.TimeReference)
	}
}

func TestParseFallsBackOnAIFailure(t *testing.T) {
	cases := map[string]*stubCompleter{
		"orchestrator unavailable": {err: ai.ErrUnavailable},
		"no JSON in response":      {response: "I could not parse that, sorry."},
		"malformed JSON":           {response: `{"amount": "500", "category":`},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			r := New(s).Parse(context.Background(), "spent 500 on groceries at DMart")
			if !r.HasAmount || r.Amount.String() != "500" {
				t.Fatalf("fallback amount = %v (has=%v)", r.Amount, r.HasAmount)
			}
			if r.Category != "groceries" {
				t.Fatalf("fallback category = %q", r.Category)
			}
			if r.Merchant != "Dmart" {
				t.Fatalf("fallback merchant = %q", r.Merchant)
			}
		})
	}
}

func TestParseNilCompleter(t *testing.T) {
	r := New(nil).Parse(context.Background(), "₹ 120 coffee")
	if !r.HasAmount || r.Amount.String() != "120" {
		t.Fatalf("amount = %v (has=%v)", r.Amount, r.HasAmount)
	}
	if r.Category != "food" {
		t.Fatalf("category = %q", r.Category)
	}
}

func TestFallbackAmountExtraction(t *testing.T) {
	cases := []struct {
		text string
		want string
		has  bool
	}{
		{"spent 500 on groceries", "500", true},
		{"₹1500.50 shopping", "1500.5", true},
		{"$ 42 dinner", "42", true},
		{"no numbers here", "", false},
	}
	for _, tc := range cases {
		r := Fallback(tc.text)
		if r.HasAmount != tc.has {
			t.Fatalf("Fallback(%q).HasAmount = %v", tc.text, r.HasAmount)
		}
		if tc.has && r.Amount.String() != tc.want {
			t.Fatalf("Fallback(%q).Amount = %s, want %s", tc.text, r.Amount, tc.want)
		}
	}
}

func TestFallbackCategoryPriority(t *testing.T) {
	// Both groceries and food keywords present; groceries scans first.
	r := Fallback("groceries and lunch 300")
	if r.Category != "groceries" {
		t.Fatalf("category = %q, want groceries", r.Category)
	}
	if got := Fallback("something unclassifiable 50").Category; got != "other" {
		t.Fatalf("category = %q, want other", got)
	}
}

func TestFallbackMerchant(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"spent 500 at DMart", "Dmart"},
		{"bought milk from amul store", "Amul"},
		{"paid 100 @ IKEA", "Ikea"},
		{"coffee at it", ""}, // too short
		{"just coffee", ""},
	}
	for _, tc := range cases {
		if got := Fallback(tc.text).Merchant; got != tc.want {
			t.Fatalf("Fallback(%q).Merchant = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestFallbackTimeReferenceDefault(t *testing.T) {
	if got := Fallback("500 groceries").TimeReference; got != "today" {
		t.Fatalf("time reference = %q, want today", got)
	}
}

func TestResolveTimeReference(t *testing.T) {
	now := time.Date(2025, 8, 30, 15, 4, 5, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		ref  string
		want time.Time
	}{
		{"today", day(30)},
		{"yesterday", day(29)},
		{"last week", day(23)},
		{"sometime last week", day(23)},
		{"", day(30)},
		{"next month", day(30)},
	}
	for _, tc := range cases {
		if got := ResolveTimeReference(tc.ref, now); !got.Equal(tc.want) {
			t.Fatalf("ResolveTimeReference(%q) = %v, want %v", tc.ref, got, tc.want)
		}
	}
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		err  error
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, nil},
		{"prose prefix", "Sure! Here you go: {\"a\":1} hope that helps", `{"a":1}`, nil},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`, nil},
		{"nested object", `{"a":{"b":2}}`, `{"a":{"b":2}}`, nil},
		{"brace in string", `{"a":"}{"}`, `{"a":"}{"}`, nil},
		{"escaped quote", `{"a":"say \"hi\""}`, `{"a":"say \"hi\""}`, nil},
		{"no object", "nothing here", "", ErrNoJSON},
		{"unterminated", `{"a":1`, "", ErrNoJSON},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tc.in)
			if !errors.Is(err, tc.err) {
				t.Fatalf("err = %v, want %v", err, tc.err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
