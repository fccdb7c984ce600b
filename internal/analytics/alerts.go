package analytics

import (
	"fmt"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/shopspring/decimal"
)

// SpikeAlert warns when a single debit reaches multiplier times the daily
// average. The second return is false when there is nothing to say; the
// alert is advisory and never blocks the transaction.
func SpikeAlert(amount, dailyAverage decimal.Decimal, category string, multiplier float64) (string, bool) {
	if multiplier <= 0 {
		multiplier = 3
	}
	if dailyAverage.Sign() <= 0 {
		return "", false
	}
	threshold := dailyAverage.Mul(decimal.NewFromFloat(multiplier))
	if amount.LessThan(threshold) {
		return "", false
	}
	times, _ := amount.Div(dailyAverage).Float64()
	return fmt.Sprintf("High spending alert! You spent ₹%s on %s, %.1fx your daily average of ₹%s",
		amount.StringFixed(2), category, times, dailyAverage.StringFixed(2)), true
}

// AnomalyAlert warns when a debit exceeds five times the historical
// average for its category. A zero baseline never alerts.
func AnomalyAlert(amount decimal.Decimal, category string, historicalAverage decimal.Decimal) (string, bool) {
	if historicalAverage.Sign() <= 0 {
		return "", false
	}
	if !amount.GreaterThan(historicalAverage.Mul(decimal.NewFromInt(5))) {
		return "", false
	}
	return fmt.Sprintf("Unusual %s expense: ₹%s is well above your usual ₹%s",
		category, amount.StringFixed(2), historicalAverage.StringFixed(2)), true
}

// MonthToDateCategory sums debits for one category since the start of the
// current month, used against per-category spending limits.
func MonthToDateCategory(txns []core.Transaction, now time.Time, category string) decimal.Decimal {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	sum := decimal.Zero
	for _, t := range txns {
		cat := t.Category
		if cat == "" {
			cat = core.DefaultCategory
		}
		if t.Direction == core.Debit && cat == category && !t.Date.Before(monthStart) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}
