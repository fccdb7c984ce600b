package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HimanshuSingh-966/PayLog/internal/ai"
	"github.com/HimanshuSingh-966/PayLog/internal/analytics"
	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger/memory"
	"github.com/HimanshuSingh-966/PayLog/internal/parse"
)

const user = "42"

var testNow = time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

func newTestEngine() (*Engine, *memory.Store) {
	store := memory.New()
	e := New(Config{
		Ledger: store,
		Now:    func() time.Time { return testNow },
	})
	return e, store
}

func seedBalance(t *testing.T, e *Engine, total, pocket string) {
	t.Helper()
	ctx := context.Background()
	for wallet, amount := range map[core.Wallet]string{core.WalletTotal: total, core.WalletPocket: pocket} {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			t.Fatal(err)
		}
		if d.IsZero() {
			continue
		}
		if _, err := e.commit(ctx, core.Credit, wallet, d, "opening balance", "other", "", testNow); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func balances(t *testing.T, e *Engine) (total, pocket decimal.Decimal) {
	t.Helper()
	total, pocket, err := ledger.CurrentBalances(context.Background(), e.ledger)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	return total, pocket
}

func TestFreeformExpenseFallback(t *testing.T) {
	e, store := newTestEngine()
	seedBalance(t, e, "0", "5000")
	ctx := context.Background()

	r := e.HandleText(ctx, user, "spent 500 on groceries at DMart")
	if !strings.Contains(r.Text, "Recorded ₹500.00 on groceries at Dmart") {
		t.Fatalf("reply = %q", r.Text)
	}

	_, pocket := balances(t, e)
	if pocket.String() != "4500" {
		t.Fatalf("pocket = %s, want 4500", pocket)
	}
	txns, _ := store.ListTransactions(ctx)
	last := txns[len(txns)-1]
	if last.Category != "groceries" || last.Merchant != "Dmart" || last.Amount.String() != "500" {
		t.Fatalf("transaction = %+v", last)
	}
	if last.Direction != core.Debit || last.Wallet != core.WalletPocket {
		t.Fatalf("direction/wallet = %s/%s", last.Direction, last.Wallet)
	}
}

type stubCompleter struct {
	response string
}

func (s *stubCompleter) Complete(_ context.Context, _ []ai.Message, _ float64) (string, error) {
	return s.response, nil
}

func TestFreeformYesterday(t *testing.T) {
	stub := &stubCompleter{response: `{"amount": "200", "category": "fuel", "description": "petrol", "merchant": "", "time_reference": "yesterday"}`}
	store := memory.New()
	e := New(Config{
		Ledger: store,
		Parser: parse.New(stub),
		Now:    func() time.Time { return testNow },
	})
	seedBalance(t, e, "0", "5000")
	ctx := context.Background()

	e.HandleText(ctx, user, "paid 200 for petrol yesterday")
	txns, _ := store.ListTransactions(ctx)
	last := txns[len(txns)-1]
	if want := core.Day(testNow.AddDate(0, 0, -1)); !last.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", last.Date, want)
	}
	if last.Category != "fuel" {
		t.Fatalf("category = %q, want fuel", last.Category)
	}
}

func TestFreeformNoAmount(t *testing.T) {
	e, _ := newTestEngine()
	r := e.HandleText(context.Background(), user, "spent some money somewhere")
	if !strings.Contains(r.Text, "couldn't find an amount") {
		t.Fatalf("reply = %q", r.Text)
	}
}

func TestFreeformOverlongDescription(t *testing.T) {
	e, store := newTestEngine()
	seedBalance(t, e, "0", "5000")
	ctx := context.Background()

	r := e.HandleText(ctx, user, "spent 500 on "+strings.Repeat("groceries ", 25))
	if !strings.Contains(r.Text, "Please adjust and try again") {
		t.Fatalf("reply = %q", r.Text)
	}
	if strings.Contains(r.Text, "Storage is unavailable") {
		t.Fatalf("bad input reported as a storage failure: %q", r.Text)
	}

	_, pocket := balances(t, e)
	if pocket.String() != "5000" {
		t.Fatalf("pocket = %s, want 5000", pocket)
	}
	txns, _ := store.ListTransactions(ctx)
	if len(txns) != 1 {
		t.Fatalf("transactions = %d, want the seed row only", len(txns))
	}
}

func TestManualAddFlow(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	r := e.HandleCallback(ctx, user, "add_total")
	if !strings.Contains(r.Text, "amount") {
		t.Fatalf("prompt = %q", r.Text)
	}
	r = e.HandleText(ctx, user, "not a number")
	if !strings.Contains(r.Text, "valid positive number") {
		t.Fatalf("re-prompt = %q", r.Text)
	}
	// Still in the amount state after the bad input.
	r = e.HandleText(ctx, user, "1500.50")
	if !strings.Contains(r.Text, "description") {
		t.Fatalf("description prompt = %q", r.Text)
	}
	r = e.HandleText(ctx, user, "salary advance")
	if !strings.Contains(r.Text, "Transaction recorded") {
		t.Fatalf("confirmation = %q", r.Text)
	}

	total, _ := balances(t, e)
	if total.String() != "1500.5" {
		t.Fatalf("total = %s, want 1500.5", total)
	}
	if e.sessions.Get(user) != nil {
		t.Fatal("session should be cleared after commit")
	}
}

func TestBatchFlow(t *testing.T) {
	e, store := newTestEngine()
	seedBalance(t, e, "0", "5000")
	ctx := context.Background()

	e.HandleText(ctx, user, "batch")
	r := e.HandleText(ctx, user, "500 groceries weekly shopping\n200 fuel petrol refill\nbadline")
	if !strings.Contains(r.Text, "2 transaction(s) recorded") {
		t.Fatalf("reply = %q", r.Text)
	}
	if !strings.Contains(r.Text, "badline") {
		t.Fatalf("failed line not reported: %q", r.Text)
	}

	txns, _ := store.ListTransactions(ctx)
	if len(txns) != 3 { // seed + 2 batch lines
		t.Fatalf("transactions = %d, want 3", len(txns))
	}
	_, pocket := balances(t, e)
	if pocket.String() != "4300" {
		t.Fatalf("pocket = %s, want 4300", pocket)
	}
}

func TestLendAndReturnFlow(t *testing.T) {
	e, store := newTestEngine()
	seedBalance(t, e, "10000", "0")
	ctx := context.Background()

	e.HandleCallback(ctx, user, "lend_money")
	e.HandleText(ctx, user, "Alex")
	e.HandleText(ctx, user, "2000")
	r := e.HandleText(ctx, user, "emergency")
	if !strings.Contains(r.Text, "Lending recorded") {
		t.Fatalf("reply = %q", r.Text)
	}

	totalBefore, _ := balances(t, e)

	e.HandleCallback(ctx, user, "money_returned")
	e.HandleText(ctx, user, "Alex")
	e.HandleText(ctx, user, "2000")
	r = e.HandleCallback(ctx, user, "return_to_total")
	if !strings.Contains(r.Text, "Money return recorded") {
		t.Fatalf("reply = %q", r.Text)
	}

	totalAfter, _ := balances(t, e)
	if diff := totalAfter.Sub(totalBefore); diff.String() != "2000" {
		t.Fatalf("total increased by %s, want 2000", diff)
	}

	records, _ := store.ListLending(ctx)
	agg := analytics.Lending(records)
	if !agg.Pending.IsZero() {
		t.Fatalf("pending = %s, want 0", agg.Pending)
	}
	if records[0].Status != core.StatusReturned || records[0].ReturnTo != core.WalletTotal {
		t.Fatalf("record = %+v", records[0])
	}
}

func TestReturnNoMatchTwice(t *testing.T) {
	e, _ := newTestEngine()
	seedBalance(t, e, "10000", "0")
	ctx := context.Background()

	e.HandleCallback(ctx, user, "lend_money")
	e.HandleText(ctx, user, "Alex")
	e.HandleText(ctx, user, "2000")
	e.HandleText(ctx, user, "emergency")

	returnMoney := func() Reply {
		e.HandleCallback(ctx, user, "money_returned")
		e.HandleText(ctx, user, "Alex")
		e.HandleText(ctx, user, "2000")
		return e.HandleCallback(ctx, user, "return_to_total")
	}

	if r := returnMoney(); !strings.Contains(r.Text, "Money return recorded") {
		t.Fatalf("first return = %q", r.Text)
	}
	totalBefore, _ := balances(t, e)
	if r := returnMoney(); !strings.Contains(r.Text, "No matching lending record") {
		t.Fatalf("second return = %q", r.Text)
	}
	totalAfter, _ := balances(t, e)
	if !totalAfter.Equal(totalBefore) {
		t.Fatal("no-match return must not touch balances")
	}
}

func TestStrayReturnDestination(t *testing.T) {
	e, _ := newTestEngine()
	r := e.HandleCallback(context.Background(), user, "return_to_total")
	if !strings.Contains(r.Text, "No return in progress") {
		t.Fatalf("reply = %q", r.Text)
	}
}

func TestGoalFlow(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	e.HandleText(ctx, user, "goal")
	r := e.HandleText(ctx, user, "hoarding everything")
	if !strings.Contains(r.Text, "Could not read that goal") {
		t.Fatalf("malformed goal reply = %q", r.Text)
	}
	// Session survives the malformed attempt.
	r = e.HandleText(ctx, user, "savings 50000 emergency fund 31/12/2025")
	if !strings.Contains(r.Text, "Goal saved") || !strings.Contains(r.Text, "31/12/2025") {
		t.Fatalf("goal reply = %q", r.Text)
	}

	r = e.HandleText(ctx, user, "goals")
	if !strings.Contains(r.Text, "emergency fund") {
		t.Fatalf("goals listing = %q", r.Text)
	}
}

func TestUndoRestoresBalances(t *testing.T) {
	e, _ := newTestEngine()
	seedBalance(t, e, "0", "5000")
	ctx := context.Background()

	e.HandleText(ctx, user, "spent 500 on groceries")
	_, pocket := balances(t, e)
	if pocket.String() != "4500" {
		t.Fatalf("pocket = %s before undo", pocket)
	}

	r := e.HandleText(ctx, user, "undo")
	if !strings.Contains(r.Text, "Removed the last transaction") {
		t.Fatalf("undo reply = %q", r.Text)
	}
	_, pocket = balances(t, e)
	if pocket.String() != "5000" {
		t.Fatalf("pocket = %s after undo, want 5000", pocket)
	}

	e.HandleText(ctx, user, "undo") // removes the seed row
	if r := e.HandleText(ctx, user, "undo"); !strings.Contains(r.Text, "Nothing to undo") {
		t.Fatalf("empty undo reply = %q", r.Text)
	}
}

func TestSessionExpiry(t *testing.T) {
	now := testNow
	store := memory.New()
	e := New(Config{
		Ledger: store,
		Now:    func() time.Time { return now },
	})
	ctx := context.Background()

	e.HandleCallback(ctx, user, "add_total")
	now = now.Add(DefaultSessionTTL + time.Minute)

	// The dialogue idled out, so "500" routes to the free-form path.
	r := e.HandleText(ctx, user, "500")
	if strings.Contains(r.Text, "description") {
		t.Fatalf("expired session still advanced: %q", r.Text)
	}
}

func TestStorageUnavailable(t *testing.T) {
	e := New(Config{Now: func() time.Time { return testNow }})
	ctx := context.Background()

	for _, msg := range []string{"spent 500 on groceries", "summary", "undo", "balance"} {
		r := e.HandleText(ctx, user, msg)
		if !strings.Contains(r.Text, "Storage is not configured") {
			t.Fatalf("HandleText(%q) = %q", msg, r.Text)
		}
	}
}

func TestAliasExpansion(t *testing.T) {
	e, store := newTestEngine()
	seedBalance(t, e, "0", "5000")
	ctx := context.Background()

	if r := e.HandleText(ctx, user, "alias dm = groceries at DMart"); !strings.Contains(r.Text, "Alias saved") {
		t.Fatalf("alias reply = %q", r.Text)
	}
	e.HandleText(ctx, user, "dm 500")

	txns, _ := store.ListTransactions(ctx)
	last := txns[len(txns)-1]
	if last.Category != "groceries" || last.Merchant != "Dmart" {
		t.Fatalf("expanded transaction = %+v", last)
	}
}

func TestSpikeAdvisory(t *testing.T) {
	e, _ := newTestEngine()
	seedBalance(t, e, "0", "100000")
	ctx := context.Background()

	// Build a modest daily average, then blow past 3x of it.
	e.HandleText(ctx, user, "spent 300 on groceries")
	r := e.HandleText(ctx, user, "spent 9000 on shopping")
	if !strings.Contains(r.Text, "High spending alert") {
		t.Fatalf("expected spike advisory, got %q", r.Text)
	}
}

func TestMenuAndHistory(t *testing.T) {
	e, _ := newTestEngine()
	seedBalance(t, e, "0", "5000")
	ctx := context.Background()

	r := e.HandleText(ctx, user, "menu")
	if len(r.Options) == 0 {
		t.Fatal("welcome should offer options")
	}
	e.HandleText(ctx, user, "spent 500 on groceries")

	r = e.HandleCallback(ctx, user, "history_week")
	if !strings.Contains(r.Text, "groceries") {
		t.Fatalf("history = %q", r.Text)
	}
	if r := e.HandleCallback(ctx, user, "history_day"); !strings.Contains(r.Text, "groceries") {
		t.Fatalf("day history = %q", r.Text)
	}

	r = e.HandleText(ctx, user, "summary")
	if !strings.Contains(r.Text, "FINANCIAL SUMMARY") || !strings.Contains(r.Text, "₹4500.00") {
		t.Fatalf("summary = %q", r.Text)
	}

	r = e.HandleText(ctx, user, "export")
	if !strings.Contains(r.Text, "TRANSACTIONS:") || !strings.Contains(r.Text, "groceries") {
		t.Fatalf("export = %q", r.Text)
	}
}
