package analytics

import (
	"testing"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/shopspring/decimal"
)

var now = time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

func day(daysAgo int) time.Time {
	return core.Day(now.AddDate(0, 0, -daysAgo))
}

func debit(daysAgo int, amount, category string) core.Transaction {
	return core.Transaction{
		Date:      day(daysAgo),
		Direction: core.Debit,
		Wallet:    core.WalletTotal,
		Amount:    dec(amount),
		Category:  category,
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDailyAverage(t *testing.T) {
	txns := []core.Transaction{
		debit(1, "100", "food"),
		debit(3, "250", "groceries"),
		debit(40, "9999", "shopping"), // outside the window
		{Date: day(2), Direction: core.Credit, Amount: dec("5000")},
	}
	got := DailyAverage(txns, now, 7)
	if got.String() != "50" {
		t.Fatalf("DailyAverage = %s, want 50", got)
	}
	if !DailyAverage(nil, now, 7).IsZero() {
		t.Fatal("empty ledger should average zero")
	}
}

func TestCategoryBreakdown(t *testing.T) {
	txns := []core.Transaction{
		debit(1, "300", "food"),
		debit(2, "100", "food"),
		debit(3, "600", "transport"),
		debit(4, "0", ""),
	}
	got := CategoryBreakdown(txns, now, 30)
	if got["food"] != 40 || got["transport"] != 60 {
		t.Fatalf("breakdown = %v", got)
	}
	if len(CategoryBreakdown(nil, now, 30)) != 0 {
		t.Fatal("empty ledger should yield an empty breakdown")
	}
}

func TestTrend(t *testing.T) {
	cases := []struct {
		name string
		txns []core.Transaction
		want string
	}{
		{
			name: "increasing",
			txns: []core.Transaction{
				debit(2, "1000", "food"), debit(9, "1000", "food"),
				debit(16, "100", "food"), debit(23, "100", "food"),
			},
			want: "increasing 900%",
		},
		{
			name: "decreasing",
			txns: []core.Transaction{
				debit(2, "100", "food"), debit(9, "100", "food"),
				debit(16, "1000", "food"), debit(23, "1000", "food"),
			},
			want: "decreasing 90%",
		},
		{
			name: "stable",
			txns: []core.Transaction{
				debit(2, "100", "food"), debit(9, "110", "food"),
				debit(16, "100", "food"), debit(23, "100", "food"),
			},
			want: "stable",
		},
		{
			name: "no older baseline",
			txns: []core.Transaction{
				debit(2, "100", "food"), debit(9, "100", "food"),
			},
			want: "increasing",
		},
		{
			name: "too few rows",
			txns: []core.Transaction{debit(2, "100", "food")},
			want: "not enough data",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Trend(tc.txns, now, "", 4); got != tc.want {
				t.Fatalf("Trend = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTrendCategoryFilter(t *testing.T) {
	txns := []core.Transaction{
		debit(2, "1000", "shopping"), debit(9, "1000", "shopping"),
		debit(2, "100", "food"), debit(9, "100", "food"),
		debit(16, "100", "food"), debit(23, "100", "food"),
	}
	if got := Trend(txns, now, "food", 4); got != "stable" {
		t.Fatalf("Trend(food) = %q, want stable", got)
	}
}

func TestForecastMonthEnd(t *testing.T) {
	// 30 Aug: 29 full days elapsed plus today, August has 31 days.
	txns := []core.Transaction{
		debit(0, "6000", "rent"),
		debit(5, "3000", "food"),
		debit(60, "50000", "travel"), // previous month, ignored
	}
	forecast, pace := ForecastMonthEnd(txns, now)
	want := dec("9000").Div(dec("30")).Mul(dec("31"))
	if !forecast.Equal(want) {
		t.Fatalf("forecast = %s, want %s", forecast, want)
	}
	if pace != "normal" {
		t.Fatalf("pace = %q, want normal", pace)
	}

	_, pace = ForecastMonthEnd([]core.Transaction{debit(0, "90000", "rent")}, now)
	if pace != "high" {
		t.Fatalf("pace = %q, want high", pace)
	}
	_, pace = ForecastMonthEnd(nil, now)
	if pace != "low" {
		t.Fatalf("pace = %q, want low", pace)
	}
}

func TestBurnRate(t *testing.T) {
	pocket := func(daysAgo int, amount string) core.Transaction {
		tx := debit(daysAgo, amount, "food")
		tx.Wallet = core.WalletPocket
		return tx
	}
	txns := []core.Transaction{
		pocket(1, "350"),
		pocket(4, "350"),
		debit(2, "10000", "rent"), // total wallet, excluded
	}
	burn, daysLeft := BurnRate(dec("1000"), txns, now, 7)
	if burn.String() != "100" {
		t.Fatalf("burn = %s, want 100", burn)
	}
	if daysLeft != 10 {
		t.Fatalf("daysLeft = %d, want 10", daysLeft)
	}

	_, daysLeft = BurnRate(dec("1000"), nil, now, 7)
	if daysLeft != DaysIndefinite {
		t.Fatalf("daysLeft = %d, want DaysIndefinite", daysLeft)
	}
}

func TestFrequentTransactions(t *testing.T) {
	txns := []core.Transaction{
		debit(1, "120", "food"), debit(2, "120", "food"), debit(3, "120", "food"),
		debit(4, "50", "transport"), debit(5, "50", "transport"),
		debit(6, "999", "shopping"), // seen once, dropped
	}
	for i := range txns {
		txns[i].Description = map[string]string{
			"food": "Coffee", "transport": "metro", "shopping": "shoes",
		}[txns[i].Category]
	}

	got := FrequentTransactions(txns, 5)
	if len(got) != 2 {
		t.Fatalf("patterns = %d, want 2", len(got))
	}
	if got[0].Description != "coffee" || got[0].Count != 3 {
		t.Fatalf("top pattern = %+v", got[0])
	}
	if got[1].Description != "metro" || got[1].Count != 2 {
		t.Fatalf("second pattern = %+v", got[1])
	}

	if got := FrequentTransactions(txns, 1); len(got) != 1 {
		t.Fatalf("limit not applied: %d patterns", len(got))
	}
}

func TestLending(t *testing.T) {
	records := []core.LendingRecord{
		{Date: day(10), Person: "Alex", Amount: dec("2000"), Status: core.StatusReturned, ReturnDate: day(3), ReturnTo: core.WalletTotal},
		{Date: day(5), Person: "Sam", Amount: dec("500"), Status: core.StatusLent},
		{Date: day(4), Person: "Priya", Amount: dec("1500"), Status: core.StatusLent},
	}
	agg := Lending(records)
	if agg.TotalLent.String() != "4000" || agg.TotalReturned.String() != "2000" {
		t.Fatalf("totals = %s lent, %s returned", agg.TotalLent, agg.TotalReturned)
	}
	if agg.Pending.String() != "2000" {
		t.Fatalf("pending = %s, want 2000", agg.Pending)
	}
	if agg.AvgReturnDays != 7 {
		t.Fatalf("avg return days = %v, want 7", agg.AvgReturnDays)
	}
	if len(agg.PendingByPerson) != 2 || agg.PendingByPerson[0].Person != "Priya" {
		t.Fatalf("pending by person = %+v", agg.PendingByPerson)
	}
}

func TestLendingFullyReturned(t *testing.T) {
	records := []core.LendingRecord{
		{Date: day(10), Person: "Alex", Amount: dec("2000"), Status: core.StatusReturned, ReturnDate: day(3), ReturnTo: core.WalletTotal},
	}
	agg := Lending(records)
	if !agg.Pending.IsZero() {
		t.Fatalf("pending = %s, want 0", agg.Pending)
	}
	if len(agg.PendingByPerson) != 0 {
		t.Fatalf("pending by person should be empty, got %+v", agg.PendingByPerson)
	}
}

func TestCategoryAverage(t *testing.T) {
	txns := []core.Transaction{
		debit(1, "100", "food"),
		debit(2, "300", "food"),
		debit(3, "5000", "rent"),
	}
	if got := CategoryAverage(txns, "food"); got.String() != "200" {
		t.Fatalf("CategoryAverage = %s, want 200", got)
	}
	if !CategoryAverage(txns, "travel").IsZero() {
		t.Fatal("unknown category should average zero")
	}
}
