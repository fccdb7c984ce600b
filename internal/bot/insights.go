package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/HimanshuSingh-966/PayLog/internal/ai"
	"github.com/HimanshuSingh-966/PayLog/internal/analytics"
	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger"
)

// Temperatures per report kind. Insights get room to phrase advice,
// forecasts stay closer to the numbers.
const (
	insightsTemperature = 0.7
	forecastTemperature = 0.5
	lendingTemperature  = 0.6
)

func (e *Engine) insights(ctx context.Context) Reply {
	txns, r, ok := e.snapshot(ctx)
	if !ok {
		return r
	}
	if len(txns) == 0 {
		return reply("No transactions yet, nothing to analyze.")
	}

	prompt := fmt.Sprintf(`Analyze these expense transactions and provide personalized insights.

Period: month
Transactions data:
%s

Provide:
1. Daily average spending
2. Top spending categories with percentages
3. Notable trends (increases/decreases)
4. Brief financial advice (2-3 sentences max)

Keep response concise and personal. Use rupee symbol ₹.`, transactionsBlock(txns))

	if text, ok := e.complete(ctx, prompt, insightsTemperature); ok {
		return Reply{Text: text}
	}
	return Reply{Text: e.cannedInsights(txns)}
}

func (e *Engine) cannedInsights(txns []core.Transaction) string {
	now := e.now()
	var b strings.Builder
	b.WriteString("Spending insights (last 30 days):\n")
	b.WriteString("Daily average: " + money(analytics.DailyAverage(txns, now, 30)) + "\n")

	breakdown := analytics.CategoryBreakdown(txns, now, 30)
	type share struct {
		category string
		pct      float64
	}
	var shares []share
	for cat, pct := range breakdown {
		shares = append(shares, share{cat, pct})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].pct > shares[j].pct })
	if len(shares) > 3 {
		shares = shares[:3]
	}
	for _, s := range shares {
		b.WriteString(fmt.Sprintf("  %s: %.0f%%\n", s.category, s.pct))
	}
	b.WriteString("Trend: " + analytics.Trend(txns, now, "", 4))
	return b.String()
}

func (e *Engine) forecast(ctx context.Context) Reply {
	txns, r, ok := e.snapshot(ctx)
	if !ok {
		return r
	}
	if len(txns) == 0 {
		return reply("No transactions yet, nothing to forecast.")
	}

	prompt := fmt.Sprintf(`Based on this spending history, forecast the month-end total.

Transaction history:
%s

Provide:
1. Estimated month-end spending
2. Current pace/burn rate
3. Days left in month consideration

Keep response brief (2-3 sentences). Use ₹ symbol.`, transactionsBlock(txns))

	if text, ok := e.complete(ctx, prompt, forecastTemperature); ok {
		return Reply{Text: text}
	}

	now := e.now()
	projected, pace := analytics.ForecastMonthEnd(txns, now)
	last := txns[len(txns)-1]
	burn, daysLeft := analytics.BurnRate(last.BalanceWallet, txns, now, 7)
	out := fmt.Sprintf("Projected month-end spending: %s (%s pace).\nWallet burn: %s/day", money(projected), pace, money(burn))
	if daysLeft != analytics.DaysIndefinite {
		out += fmt.Sprintf(", about %d day(s) of wallet balance left", daysLeft)
	}
	return Reply{Text: out + "."}
}

func (e *Engine) lendingAnalysis(ctx context.Context) Reply {
	if e.ledger == nil {
		return e.storageReply(ctx, ledger.ErrNotConfigured)
	}
	records, err := e.ledger.ListLending(ctx)
	if err != nil {
		return e.storageReply(ctx, err)
	}
	if len(records) == 0 {
		return reply("No lending records yet.")
	}

	var rows strings.Builder
	for _, r := range records {
		rows.WriteString(core.FormatDate(r.Date) + " | " + r.Person + " | " + money(r.Amount) + " | " + string(r.Status) + "\n")
	}
	prompt := fmt.Sprintf(`Analyze lending patterns and provide insights.

Lending history:
%s
Provide:
1. Average lending amount
2. Average return time
3. Total pending vs returned
4. Brief recommendation

Keep response concise. Use ₹ symbol.`, rows.String())

	if text, ok := e.complete(ctx, prompt, lendingTemperature); ok {
		return Reply{Text: text}
	}

	agg := analytics.Lending(records)
	var b strings.Builder
	b.WriteString("Lending analysis:\n")
	b.WriteString("Average amount: " + money(agg.AvgAmount) + "\n")
	if agg.AvgReturnDays > 0 {
		b.WriteString(fmt.Sprintf("Average return time: %.0f day(s)\n", agg.AvgReturnDays))
	}
	b.WriteString("Pending " + money(agg.Pending) + " vs returned " + money(agg.TotalReturned))
	for _, pp := range agg.PendingByPerson {
		b.WriteString("\n  " + pp.Person + ": " + money(pp.Amount))
	}
	return Reply{Text: b.String()}
}

// snapshot fetches the transaction ledger or produces the degradation
// reply; ok is false when the caller should return r as-is.
func (e *Engine) snapshot(ctx context.Context) (txns []core.Transaction, r Reply, ok bool) {
	if e.ledger == nil {
		return nil, e.storageReply(ctx, ledger.ErrNotConfigured), false
	}
	txns, err := e.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, e.storageReply(ctx, err), false
	}
	return txns, Reply{}, true
}

// complete asks the orchestrator for a free-text report; ok is false when
// AI is unconfigured or unavailable, and the caller falls back to the
// canned analytics rendering.
func (e *Engine) complete(ctx context.Context, prompt string, temperature float64) (string, bool) {
	if e.ai == nil {
		return "", false
	}
	text, err := e.ai.Complete(ctx, ai.UserMessage(prompt), temperature)
	if err != nil {
		slog.DebugContext(ctx, "AI report unavailable, using canned analytics", "error", err)
		return "", false
	}
	return strings.TrimSpace(text), true
}

// transactionsBlock renders the most recent rows for an AI prompt.
func transactionsBlock(txns []core.Transaction) string {
	if len(txns) > 50 {
		txns = txns[len(txns)-50:]
	}
	var b strings.Builder
	for _, t := range txns {
		b.WriteString(core.FormatDate(t.Date) + " | " + string(t.Direction) + " | " + t.Category + " | " + money(t.Amount) + " | " + t.Description + "\n")
	}
	return b.String()
}
