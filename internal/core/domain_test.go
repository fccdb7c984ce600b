package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        date(2025, 1, 1),
		Direction:   Debit,
		Wallet:      WalletPocket,
		Amount:      decimal.NewFromInt(500),
		Description: "groceries",
		Category:    "groceries",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Direction: Debit, Wallet: WalletTotal, Amount: decimal.NewFromInt(1), Description: "a"}, // zero date
		{Date: date(2025, 1, 1), Direction: "move", Wallet: WalletTotal, Amount: decimal.NewFromInt(1), Description: "a"},
		{Date: date(2025, 1, 1), Direction: Credit, Wallet: "bank", Amount: decimal.NewFromInt(1), Description: "a"},
		{Date: date(2025, 1, 1), Direction: Credit, Wallet: WalletTotal, Amount: decimal.Zero, Description: "a"},
		{Date: date(2025, 1, 1), Direction: Credit, Wallet: WalletTotal, Amount: decimal.NewFromInt(1), Description: "  "},
	}
	for i, tx := range bads {
		err := tx.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("case %d: %v should wrap ErrInvalid", i, err)
		}
	}

	long := good
	long.Description = strings.Repeat("x", 201)
	if err := long.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("overlong description: %v should wrap ErrInvalid", err)
	}
}

func TestLendingRecordValidate(t *testing.T) {
	open := LendingRecord{
		Date:   date(2025, 2, 1),
		Person: "Alex",
		Amount: decimal.NewFromInt(2000),
		Status: StatusLent,
	}
	if err := open.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	returned := open
	returned.Status = StatusReturned
	returned.ReturnDate = date(2025, 2, 10)
	returned.ReturnTo = WalletTotal
	if err := returned.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Open loans must not carry return fields.
	leaky := open
	leaky.ReturnTo = WalletTotal
	if err := leaky.Validate(); err == nil {
		t.Fatal("expected error for open loan with return_to")
	}

	// Returned loans need a return date and a valid destination.
	half := returned
	half.ReturnDate = time.Time{}
	if err := half.Validate(); err == nil {
		t.Fatal("expected error for returned loan without return date")
	}
}

func TestGoalValidate(t *testing.T) {
	g := Goal{Type: GoalSavings, Target: decimal.NewFromInt(50000), Description: "emergency fund", Created: date(2025, 3, 1)}
	if err := g.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	g.Type = "retirement"
	if err := g.Validate(); err == nil {
		t.Fatal("expected error for unknown goal type")
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"500", "500", true},
		{"1500.50", "1500.5", true},
		{"12,34", "12.34", true},
		{"₹250", "250", true},
		{"$ 99.99", "99.99", true},
		{"0", "", false},
		{"-5", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseAmount(%q): unexpected error %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("ParseAmount(%q): expected error", tc.in)
			}
			continue
		}
		if got.String() != tc.want {
			t.Fatalf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestDateRoundTrip(t *testing.T) {
	d := date(2025, 8, 30)
	s := FormatDate(d)
	if s != "30/08/2025" {
		t.Fatalf("FormatDate = %q", s)
	}
	back, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}

	zero, err := ParseDate("  ")
	if err != nil || !zero.IsZero() {
		t.Fatalf("empty date should parse to zero, got %v %v", zero, err)
	}
}

func TestDayMatchesParsedLedgerDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, 8, 30, 23, 30, 0, 0, ist)

	day := Day(now)
	parsed, err := ParseDate(FormatDate(day))
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !parsed.Equal(day) {
		t.Fatalf("day from a zoned clock %v != parsed ledger date %v", day, parsed)
	}
	if day.Location() != time.UTC {
		t.Fatalf("Day location = %v, want UTC", day.Location())
	}
	if y, m, d := day.Date(); y != 2025 || m != time.August || d != 30 {
		t.Fatalf("Day dropped the local calendar day: %v", day)
	}
}
