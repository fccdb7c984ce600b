// Package analytics computes derived statistics over ledger snapshots.
// Every function is pure: the caller passes the rows and the reference
// time, so the same snapshot always yields the same answer.
package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/shopspring/decimal"
)

// DaysIndefinite is the BurnRate sentinel for "balance lasts indefinitely".
const DaysIndefinite = -1

// DailyAverage is the mean daily debit over the trailing window. The sum is
// divided by the window length, not by the count of active days, which
// deliberately dilutes sparse spending.
func DailyAverage(txns []core.Transaction, now time.Time, windowDays int) decimal.Decimal {
	if windowDays <= 0 {
		return decimal.Zero
	}
	cutoff := now.AddDate(0, 0, -windowDays)
	sum := decimal.Zero
	for _, t := range txns {
		if t.Direction == core.Debit && !t.Date.Before(cutoff) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum.Div(decimal.NewFromInt(int64(windowDays)))
}

// CategoryBreakdown returns each category's percentage share of the debit
// total within the window. The mapping is empty when the window total is
// zero.
func CategoryBreakdown(txns []core.Transaction, now time.Time, windowDays int) map[string]float64 {
	cutoff := now.AddDate(0, 0, -windowDays)
	totals := map[string]decimal.Decimal{}
	sum := decimal.Zero
	for _, t := range txns {
		if t.Direction != core.Debit || t.Date.Before(cutoff) {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = core.DefaultCategory
		}
		totals[cat] = totals[cat].Add(t.Amount)
		sum = sum.Add(t.Amount)
	}
	if sum.IsZero() {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(totals))
	for cat, amt := range totals {
		share, _ := amt.Mul(decimal.NewFromInt(100)).Div(sum).Float64()
		out[cat] = share
	}
	return out
}

// Trend classifies spending direction over the trailing weeks. The weeks
// are 7-day buckets relative to now, not calendar weeks; the mean of the
// two most recent buckets is compared against the mean of the two oldest.
// An optional category restricts the sums.
func Trend(txns []core.Transaction, now time.Time, category string, weeks int) string {
	if len(txns) < 2 {
		return "not enough data"
	}
	if weeks < 2 {
		weeks = 2
	}

	buckets := make([]decimal.Decimal, weeks)
	for offset := 0; offset < weeks; offset++ {
		start := now.AddDate(0, 0, -7*(offset+1))
		end := now.AddDate(0, 0, -7*offset)
		sum := decimal.Zero
		for _, t := range txns {
			if t.Direction != core.Debit {
				continue
			}
			if t.Date.Before(start) || !t.Date.Before(end) {
				continue
			}
			cat := t.Category
			if cat == "" {
				cat = core.DefaultCategory
			}
			if category != "" && cat != category {
				continue
			}
			sum = sum.Add(t.Amount)
		}
		buckets[offset] = sum
	}

	// buckets[0] is the most recent; flip to oldest-first for the means.
	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}

	two := decimal.NewFromInt(2)
	recent := buckets[len(buckets)-2].Add(buckets[len(buckets)-1]).Div(two)
	older := buckets[0].Add(buckets[1]).Div(two)

	if older.IsZero() {
		if recent.Sign() > 0 {
			return "increasing"
		}
		return "stable"
	}

	change, _ := recent.Sub(older).Mul(decimal.NewFromInt(100)).Div(older).Float64()
	switch {
	case change > 15:
		return fmt.Sprintf("increasing %.0f%%", change)
	case change < -15:
		return fmt.Sprintf("decreasing %.0f%%", -change)
	default:
		return "stable"
	}
}

// ForecastMonthEnd projects month-end spending from the month-to-date daily
// rate. The pace thresholds are fixed and currency-unit specific.
func ForecastMonthEnd(txns []core.Transaction, now time.Time) (forecast decimal.Decimal, pace string) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	daysElapsed := now.Day()
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()

	spent := decimal.Zero
	for _, t := range txns {
		if t.Direction == core.Debit && !t.Date.Before(monthStart) {
			spent = spent.Add(t.Amount)
		}
	}

	dailyRate := spent.Div(decimal.NewFromInt(int64(daysElapsed)))
	forecast = dailyRate.Mul(decimal.NewFromInt(int64(daysInMonth)))

	pace = "normal"
	switch {
	case dailyRate.GreaterThan(decimal.NewFromInt(1000)):
		pace = "high"
	case dailyRate.LessThan(decimal.NewFromInt(300)):
		pace = "low"
	}
	return forecast, pace
}

// BurnRate reports the mean daily pocket-wallet debit over the trailing
// window and how many whole days the given balance lasts at that rate.
// DaysIndefinite is returned when nothing burned.
func BurnRate(walletBalance decimal.Decimal, txns []core.Transaction, now time.Time, windowDays int) (dailyBurn decimal.Decimal, daysLeft int) {
	if windowDays <= 0 {
		windowDays = 7
	}
	cutoff := now.AddDate(0, 0, -windowDays)
	sum := decimal.Zero
	for _, t := range txns {
		if t.Direction == core.Debit && t.Wallet == core.WalletPocket && !t.Date.Before(cutoff) {
			sum = sum.Add(t.Amount)
		}
	}
	dailyBurn = sum.Div(decimal.NewFromInt(int64(windowDays)))
	if dailyBurn.Sign() <= 0 {
		return dailyBurn, DaysIndefinite
	}
	return dailyBurn, int(walletBalance.Div(dailyBurn).IntPart())
}

// Pattern is a recurring debit: same description, category and amount.
type Pattern struct {
	Description string
	Category    string
	Amount      decimal.Decimal
	Count       int
}

// FrequentTransactions mines the most recent 100 debits for composite
// patterns (description+category+amount) seen at least twice, ordered by
// descending count and capped at limit.
func FrequentTransactions(txns []core.Transaction, limit int) []Pattern {
	recent := txns
	if len(recent) > 100 {
		recent = recent[len(recent)-100:]
	}

	type keyed struct {
		pattern Pattern
		first   int
	}
	counts := map[string]*keyed{}
	var order []string
	for i, t := range recent {
		if t.Direction != core.Debit {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = core.DefaultCategory
		}
		desc := strings.ToLower(t.Description)
		key := desc + "_" + cat + "_" + t.Amount.String()
		if k, ok := counts[key]; ok {
			k.pattern.Count++
			continue
		}
		counts[key] = &keyed{
			pattern: Pattern{Description: desc, Category: cat, Amount: t.Amount, Count: 1},
			first:   i,
		}
		order = append(order, key)
	}

	var out []Pattern
	for _, key := range order {
		if counts[key].pattern.Count >= 2 {
			out = append(out, counts[key].pattern)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PersonAmount is one person's open lending total.
type PersonAmount struct {
	Person string
	Amount decimal.Decimal
}

// LendingAggregate summarizes the lending ledger.
type LendingAggregate struct {
	TotalLent       decimal.Decimal // every record was lent at some point
	TotalReturned   decimal.Decimal
	Pending         decimal.Decimal
	AvgAmount       decimal.Decimal
	AvgReturnDays   float64        // over records with both dates
	PendingByPerson []PersonAmount // sorted descending by amount
}

// Lending aggregates the lending ledger: totals, pending, mean amount,
// mean calendar days to return, and per-person open balances.
func Lending(records []core.LendingRecord) LendingAggregate {
	agg := LendingAggregate{
		TotalLent:     decimal.Zero,
		TotalReturned: decimal.Zero,
		Pending:       decimal.Zero,
		AvgAmount:     decimal.Zero,
	}
	if len(records) == 0 {
		return agg
	}

	sum := decimal.Zero
	var returnDaysTotal, returnedWithDates int
	perPerson := map[string]decimal.Decimal{}
	var personOrder []string

	for _, r := range records {
		agg.TotalLent = agg.TotalLent.Add(r.Amount)
		sum = sum.Add(r.Amount)

		switch r.Status {
		case core.StatusReturned:
			agg.TotalReturned = agg.TotalReturned.Add(r.Amount)
			if !r.Date.IsZero() && !r.ReturnDate.IsZero() {
				returnDaysTotal += int(r.ReturnDate.Sub(r.Date).Hours() / 24)
				returnedWithDates++
			}
		case core.StatusLent:
			if _, ok := perPerson[r.Person]; !ok {
				personOrder = append(personOrder, r.Person)
			}
			perPerson[r.Person] = perPerson[r.Person].Add(r.Amount)
		}
	}

	agg.Pending = agg.TotalLent.Sub(agg.TotalReturned)
	agg.AvgAmount = sum.Div(decimal.NewFromInt(int64(len(records))))
	if returnedWithDates > 0 {
		agg.AvgReturnDays = float64(returnDaysTotal) / float64(returnedWithDates)
	}

	for _, person := range personOrder {
		if perPerson[person].Sign() > 0 {
			agg.PendingByPerson = append(agg.PendingByPerson, PersonAmount{Person: person, Amount: perPerson[person]})
		}
	}
	sort.SliceStable(agg.PendingByPerson, func(i, j int) bool {
		return agg.PendingByPerson[i].Amount.GreaterThan(agg.PendingByPerson[j].Amount)
	})
	return agg
}

// CategoryAverage is the mean debit amount for one category over the whole
// ledger, used as the anomaly baseline. Zero when the category has no
// debits.
func CategoryAverage(txns []core.Transaction, category string) decimal.Decimal {
	sum := decimal.Zero
	count := 0
	for _, t := range txns {
		cat := t.Category
		if cat == "" {
			cat = core.DefaultCategory
		}
		if t.Direction == core.Debit && cat == category {
			sum = sum.Add(t.Amount)
			count++
		}
	}
	if count == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}
