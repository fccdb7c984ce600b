package bot

import (
	"context"
	"strings"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/analytics"
	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger"
	"github.com/shopspring/decimal"
)

// historyLimit caps how many rows a history reply shows.
const historyLimit = 10

// exportLimit caps how many transactions the text export includes; the
// lending ledger is always exported in full.
const exportLimit = 20

func (e *Engine) history(ctx context.Context, period string) Reply {
	if e.ledger == nil {
		return e.storageReply(ctx, ledger.ErrNotConfigured)
	}
	txns, err := e.ledger.ListTransactions(ctx)
	if err != nil {
		return e.storageReply(ctx, err)
	}

	now := e.now()
	var filtered []core.Transaction
	for _, t := range txns {
		if inPeriod(t.Date, now, period) {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return reply("No transactions found for the last %s.", period)
	}
	if len(filtered) > historyLimit {
		filtered = filtered[len(filtered)-historyLimit:]
	}

	var b strings.Builder
	b.WriteString("Transaction history (" + strings.ToUpper(period) + "):\n")
	for _, t := range filtered {
		b.WriteString("\n" + core.FormatDate(t.Date) + "  " + string(t.Direction) + " " + money(t.Amount) +
			" (" + t.Category + ", " + strings.ToLower(walletLabel(t.Wallet)) + ")\n")
		b.WriteString("  " + t.Description + "\n")
		b.WriteString("  total " + money(t.BalanceTotal) + ", wallet " + money(t.BalanceWallet) + "\n")
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n")}
}

func inPeriod(date, now time.Time, period string) bool {
	switch period {
	case "day":
		return date.Equal(core.Day(now))
	case "week":
		return !date.Before(now.AddDate(0, 0, -7))
	case "month":
		return !date.Before(now.AddDate(0, 0, -30))
	case "year":
		return !date.Before(now.AddDate(0, 0, -365))
	}
	return true
}

func (e *Engine) summary(ctx context.Context) Reply {
	if e.ledger == nil {
		return e.storageReply(ctx, ledger.ErrNotConfigured)
	}
	txns, err := e.ledger.ListTransactions(ctx)
	if err != nil {
		return e.storageReply(ctx, err)
	}
	if len(txns) == 0 {
		return reply("No transactions recorded yet.")
	}
	records, err := e.ledger.ListLending(ctx)
	if err != nil {
		return e.storageReply(ctx, err)
	}

	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.Direction == core.Credit {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	last := txns[len(txns)-1]
	agg := analytics.Lending(records)

	var b strings.Builder
	b.WriteString("FINANCIAL SUMMARY\n")
	b.WriteString("\nCurrent balances:\n")
	b.WriteString("  Total Stack: " + money(last.BalanceTotal) + "\n")
	b.WriteString("  Wallet: " + money(last.BalanceWallet) + "\n")
	b.WriteString("  Combined: " + money(last.BalanceTotal.Add(last.BalanceWallet)) + "\n")
	b.WriteString("\nTransactions:\n")
	b.WriteString("  Income: " + money(income) + "\n")
	b.WriteString("  Expenses: " + money(expense) + "\n")
	b.WriteString("  Net: " + money(income.Sub(expense)) + "\n")
	b.WriteString("\nLending:\n")
	b.WriteString("  Total lent: " + money(agg.TotalLent) + "\n")
	b.WriteString("  Returned: " + money(agg.TotalReturned) + "\n")
	b.WriteString("  Pending: " + money(agg.Pending))
	return Reply{Text: b.String()}
}

func (e *Engine) export(ctx context.Context) Reply {
	if e.ledger == nil {
		return e.storageReply(ctx, ledger.ErrNotConfigured)
	}
	txns, err := e.ledger.ListTransactions(ctx)
	if err != nil {
		return e.storageReply(ctx, err)
	}
	records, err := e.ledger.ListLending(ctx)
	if err != nil {
		return e.storageReply(ctx, err)
	}
	if len(txns) > exportLimit {
		txns = txns[len(txns)-exportLimit:]
	}

	var b strings.Builder
	b.WriteString("EXPORTED DATA\n\nTRANSACTIONS:\n")
	b.WriteString("date | direction | wallet | amount | description | category | balance_total | balance_wallet\n")
	for _, t := range txns {
		b.WriteString(core.FormatDate(t.Date) + " | " + string(t.Direction) + " | " + string(t.Wallet) +
			" | " + money(t.Amount) + " | " + t.Description + " | " + t.Category +
			" | " + money(t.BalanceTotal) + " | " + money(t.BalanceWallet) + "\n")
	}
	b.WriteString("\nLENDING:\n")
	b.WriteString("date | person | amount | status | description | return_date | return_to\n")
	for _, r := range records {
		b.WriteString(core.FormatDate(r.Date) + " | " + r.Person + " | " + money(r.Amount) +
			" | " + string(r.Status) + " | " + r.Description + " | " + core.FormatDate(r.ReturnDate) +
			" | " + string(r.ReturnTo) + "\n")
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n")}
}
