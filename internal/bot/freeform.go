package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/HimanshuSingh-966/PayLog/internal/analytics"
	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/HimanshuSingh-966/PayLog/internal/parse"
	"github.com/HimanshuSingh-966/PayLog/internal/suggest"
	"github.com/shopspring/decimal"
)

// lowWalletThreshold and lowWalletTopUp drive the pocket top-up hint.
var (
	lowWalletThreshold = decimal.NewFromInt(100)
	lowWalletTopUp     = decimal.NewFromInt(2000)
)

// triggerWords mark a message as expense-like even before the parser runs.
var triggerWords = []string{"spent", "paid", "bought", "purchased", "gave", "expense"}

// freeform handles a message that is neither a command nor part of a
// dialogue: expand aliases, extract a transaction, pick a category from
// history when the parser has none, record the debit, then attach any
// advisory alerts.
func (e *Engine) freeform(ctx context.Context, userID, text string) Reply {
	p, err := e.prefs.Get(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load preferences", "user", userID, "error", err)
	}
	expanded := p.ExpandAliases(text)
	if !looksLikeExpense(expanded) {
		return reply("I didn't catch that. Tell me what you spent, for example " +
			"\"spent 500 on groceries at DMart\", or type \"menu\".")
	}

	res := e.parser.Parse(ctx, expanded)
	if !res.HasAmount {
		return reply("I couldn't find an amount in that. Try \"spent 500 on groceries\".")
	}

	category := res.Category
	if category == "" || category == core.DefaultCategory {
		if s := suggest.Train(p.History); s != nil {
			if c := s.Suggest(res.Description); c != "" {
				category = c
			}
		}
	}
	if category == "" {
		category = core.DefaultCategory
	}

	wallet := p.Context.LastWallet
	if wallet == "" {
		wallet = core.WalletPocket
	}
	date := parse.ResolveTimeReference(res.TimeReference, e.now())

	// Snapshot before the append so the alert baselines exclude this
	// transaction.
	var before []core.Transaction
	if e.ledger != nil {
		if before, err = e.ledger.ListTransactions(ctx); err != nil {
			return e.storageReply(ctx, err)
		}
	}

	t, err := e.commit(ctx, core.Debit, wallet, res.Amount, res.Description, category, res.Merchant, date)
	if err != nil {
		return e.storageReply(ctx, err)
	}

	p.Remember(res.Description, category, res.Amount, wallet, e.now())
	if err := e.prefs.Put(ctx, userID, p); err != nil {
		slog.WarnContext(ctx, "Failed to store preferences", "user", userID, "error", err)
	}

	var b strings.Builder
	b.WriteString("Recorded " + money(t.Amount) + " on " + category)
	if t.Merchant != "" {
		b.WriteString(" at " + t.Merchant)
	}
	if !core.Day(e.now()).Equal(t.Date) {
		b.WriteString(" (" + core.FormatDate(t.Date) + ")")
	}
	b.WriteString(".\nTotal Stack: " + money(t.BalanceTotal) + "\nWallet: " + money(t.BalanceWallet))

	for _, warning := range e.advisories(t, before, p.Alerts.SpikeMultiplier, p.SpendingLimits) {
		b.WriteString("\n" + warning)
	}
	return Reply{Text: b.String()}
}

// advisories collects the non-blocking warnings for a freshly committed
// debit: spending spike, per-category anomaly, monthly limit breach, and
// the low-wallet top-up hint.
func (e *Engine) advisories(t core.Transaction, before []core.Transaction, spikeMultiplier float64, limits map[string]decimal.Decimal) []string {
	var out []string

	dailyAvg := analytics.DailyAverage(before, e.now(), 30)
	if msg, ok := analytics.SpikeAlert(t.Amount, dailyAvg, t.Category, spikeMultiplier); ok {
		out = append(out, msg)
	}
	if msg, ok := analytics.AnomalyAlert(t.Amount, t.Category, analytics.CategoryAverage(before, t.Category)); ok {
		out = append(out, msg)
	}

	if limit, ok := limits[t.Category]; ok && limit.Sign() > 0 {
		spent := analytics.MonthToDateCategory(append(before, t), e.now(), t.Category)
		if spent.GreaterThan(limit) {
			out = append(out, "Over your monthly "+t.Category+" limit: "+money(spent)+" of "+money(limit)+".")
		}
	}

	if t.BalanceWallet.LessThan(lowWalletThreshold) {
		out = append(out, "Your wallet is low ("+money(t.BalanceWallet)+"). Consider transferring "+money(lowWalletTopUp)+" from Total Stack.")
	}
	return out
}

func looksLikeExpense(text string) bool {
	for _, r := range text {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	lower := strings.ToLower(text)
	for _, w := range triggerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
