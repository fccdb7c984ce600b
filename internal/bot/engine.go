// Package bot is the conversation engine: it routes inbound text and menu
// picks through per-user dialogue sessions, commits the resulting
// transactions to the ledger, and answers with transport-agnostic replies.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger"
	"github.com/HimanshuSingh-966/PayLog/internal/parse"
	"github.com/HimanshuSingh-966/PayLog/internal/prefs"
	"github.com/shopspring/decimal"
)

// TransactionPublisher receives every committed transaction, typically to
// mirror it to a secondary backend. Publishing is best-effort; a failure
// never fails the commit.
type TransactionPublisher interface {
	PublishTransaction(ctx context.Context, t core.Transaction) error
}

// Config wires the engine's collaborators. Ledger may be nil, in which
// case every ledger-dependent operation degrades to a "storage
// unavailable" reply instead of crashing the dialogue.
type Config struct {
	Ledger     ledger.Gateway
	Prefs      prefs.Store
	Parser     *parse.Parser
	AI         parse.Completer
	Publisher  TransactionPublisher
	SessionTTL time.Duration    // 0 means DefaultSessionTTL, negative disables
	Now        func() time.Time // nil means time.Now
}

type Engine struct {
	ledger    ledger.Gateway
	prefs     prefs.Store
	parser    *parse.Parser
	ai        parse.Completer
	publisher TransactionPublisher
	sessions  *Sessions
	now       func() time.Time
}

func New(cfg Config) *Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Prefs == nil {
		cfg.Prefs = prefs.NewMemoryStore()
	}
	if cfg.Parser == nil {
		cfg.Parser = parse.New(cfg.AI)
	}
	return &Engine{
		ledger:    cfg.Ledger,
		prefs:     cfg.Prefs,
		parser:    cfg.Parser,
		ai:        cfg.AI,
		publisher: cfg.Publisher,
		sessions:  NewSessions(cfg.SessionTTL, cfg.Now),
		now:       cfg.Now,
	}
}

// HandleText processes one inbound message. A live session always wins
// over command routing, so a dialogue can be continued with text that
// would otherwise be a command.
func (e *Engine) HandleText(ctx context.Context, userID, raw string) Reply {
	text := strings.TrimSpace(raw)
	if text == "" {
		return reply("Say what you spent, or type \"menu\" for options.")
	}
	lower := strings.ToLower(text)

	if lower == "/start" || lower == "start" || lower == "menu" || lower == "/menu" {
		e.sessions.Clear(userID)
		return e.welcome()
	}

	if sess := e.sessions.Get(userID); sess != nil && sess.WaitingFor != "" {
		return e.continueSession(ctx, userID, sess, text)
	}
	return e.route(ctx, userID, text, lower)
}

// HandleCallback processes a menu pick by its token.
func (e *Engine) HandleCallback(ctx context.Context, userID, token string) Reply {
	switch {
	case strings.HasPrefix(token, "add_"), strings.HasPrefix(token, "subtract_"):
		return e.startManualEntry(ctx, userID, token)
	case token == "lend_money":
		sess := e.sessions.Start(userID)
		sess.Action = "lend"
		sess.WaitingFor = statePersonName
		return reply("Who are you lending money to?")
	case token == "money_returned":
		sess := e.sessions.Start(userID)
		sess.WaitingFor = stateReturnPerson
		return reply("Who returned the money?")
	case strings.HasPrefix(token, "history_"):
		return e.history(ctx, strings.TrimPrefix(token, "history_"))
	case strings.HasPrefix(token, "return_to_"):
		return e.pickReturnDestination(ctx, userID, strings.TrimPrefix(token, "return_to_"))
	case token == "insights":
		return e.insights(ctx)
	case token == "forecast":
		return e.forecast(ctx)
	case token == "lending_analysis":
		return e.lendingAnalysis(ctx)
	case strings.HasPrefix(token, "menu_"):
		return e.route(ctx, userID, token, menuCommand(token))
	}
	return reply("Unknown option. Type \"menu\" to see what I can do.")
}

func (e *Engine) welcome() Reply {
	return Reply{
		Text: "Welcome to PayLog. Track expenses, pocket money and loans by " +
			"chatting: try \"spent 500 on groceries at DMart\", or pick an option.",
		Options: []Option{
			{Label: "Total Stack", Token: "menu_total"},
			{Label: "Wallet", Token: "menu_pocket"},
			{Label: "Lending", Token: "menu_lending"},
			{Label: "Reports", Token: "menu_reports"},
			{Label: "Summary", Token: "menu_summary"},
			{Label: "Export", Token: "menu_export"},
		},
	}
}

func (e *Engine) route(ctx context.Context, userID, text, lower string) Reply {
	switch lower {
	case "balance", "balances":
		return e.balances(ctx)
	case "summary":
		return e.summary(ctx)
	case "export":
		return e.export(ctx)
	case "undo":
		return e.undo(ctx)
	case "reports", "history":
		return Reply{
			Text: "Which period?",
			Options: []Option{
				{Label: "Today", Token: "history_day"},
				{Label: "Week", Token: "history_week"},
				{Label: "Month", Token: "history_month"},
				{Label: "Year", Token: "history_year"},
			},
		}
	case "lending":
		return Reply{
			Text: "Lending management:",
			Options: []Option{
				{Label: "Lend Money", Token: "lend_money"},
				{Label: "Money Returned", Token: "money_returned"},
			},
		}
	case "total", "total stack":
		return e.walletMenu(ctx, core.WalletTotal)
	case "wallet", "pocket":
		return e.walletMenu(ctx, core.WalletPocket)
	case "goal":
		sess := e.sessions.Start(userID)
		sess.WaitingFor = stateGoalDetails
		return reply("Describe the goal as \"type target description [deadline]\", " +
			"for example \"savings 50000 emergency fund 31/12/2025\". " +
			"Types: savings, spending_limit, investment.")
	case "goals":
		return e.listGoals(ctx, userID)
	case "batch":
		sess := e.sessions.Start(userID)
		sess.WaitingFor = stateBatch
		return reply("Send one transaction per line as \"amount category description\", " +
			"for example:\n500 groceries weekly shopping\n200 fuel petrol refill")
	case "insights":
		return e.insights(ctx)
	case "forecast":
		return e.forecast(ctx)
	case "lending analysis", "lending report":
		return e.lendingAnalysis(ctx)
	case "help":
		return reply("Tell me what you spent in plain words, or use: balance, " +
			"summary, history, lending, goal, batch, undo, export, insights, forecast.")
	}
	if strings.HasPrefix(lower, "alias ") {
		return e.setAlias(ctx, userID, text)
	}
	if strings.HasPrefix(lower, "limit ") {
		return e.setLimit(ctx, userID, text)
	}
	return e.freeform(ctx, userID, text)
}

func (e *Engine) walletMenu(ctx context.Context, wallet core.Wallet) Reply {
	label, suffix := "Total Stack", "total"
	if wallet == core.WalletPocket {
		label, suffix = "Wallet", "pocket"
	}
	total, pocket, err := ledger.CurrentBalances(ctx, e.ledger)
	if err != nil {
		return e.storageReply(ctx, err)
	}
	balance := total
	if wallet == core.WalletPocket {
		balance = pocket
	}
	return Reply{
		Text: label + "\nCurrent balance: " + money(balance),
		Options: []Option{
			{Label: "Add Money", Token: "add_" + suffix},
			{Label: "Subtract Money", Token: "subtract_" + suffix},
		},
	}
}

func (e *Engine) balances(ctx context.Context) Reply {
	total, pocket, err := ledger.CurrentBalances(ctx, e.ledger)
	if err != nil {
		return e.storageReply(ctx, err)
	}
	return reply("Total Stack: %s\nWallet: %s\nCombined: %s",
		money(total), money(pocket), money(total.Add(pocket)))
}

func (e *Engine) startManualEntry(ctx context.Context, userID, token string) Reply {
	action, walletName, ok := strings.Cut(token, "_")
	if !ok {
		return reply("Unknown option.")
	}
	wallet := core.WalletTotal
	if walletName == "pocket" {
		wallet = core.WalletPocket
	}
	sess := e.sessions.Start(userID)
	sess.Action = action
	sess.Wallet = wallet
	sess.WaitingFor = stateAmount

	verb := "add to"
	if action == "subtract" {
		verb = "subtract from"
	}
	return reply("Enter the amount to %s %s, for example 500 or 1500.50.", verb, walletLabel(wallet))
}

// commit reads the current balances, derives the new snapshots, validates
// and appends the row. This read-then-append sequence is not atomic;
// concurrent commits for the same ledger can lose an update.
func (e *Engine) commit(ctx context.Context, direction core.Direction, wallet core.Wallet, amount decimal.Decimal, description, category, merchant string, date time.Time) (core.Transaction, error) {
	if e.ledger == nil {
		return core.Transaction{}, ledger.ErrNotConfigured
	}
	total, pocket, err := ledger.CurrentBalances(ctx, e.ledger)
	if err != nil {
		return core.Transaction{}, err
	}
	total, pocket = ledger.NextBalances(total, pocket, wallet, direction, amount)

	t := core.Transaction{
		Date:          core.Day(date),
		Direction:     direction,
		Wallet:        wallet,
		Amount:        amount,
		Description:   description,
		Category:      category,
		Merchant:      merchant,
		BalanceTotal:  total,
		BalanceWallet: pocket,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := e.ledger.AppendTransaction(ctx, t); err != nil {
		return core.Transaction{}, err
	}
	if e.publisher != nil {
		if err := e.publisher.PublishTransaction(ctx, t); err != nil {
			slog.WarnContext(ctx, "Failed to publish transaction event", "error", err)
		}
	}
	return t, nil
}

func (e *Engine) undo(ctx context.Context) Reply {
	if e.ledger == nil {
		return e.storageReply(ctx, ledger.ErrNotConfigured)
	}
	txns, err := e.ledger.ListTransactions(ctx)
	if err != nil {
		return e.storageReply(ctx, err)
	}
	if len(txns) == 0 {
		return reply("Nothing to undo.")
	}
	if err := e.ledger.DeleteLastTransaction(ctx); err != nil {
		return e.storageReply(ctx, err)
	}
	total, pocket, err := ledger.CurrentBalances(ctx, e.ledger)
	if err != nil {
		return e.storageReply(ctx, err)
	}
	last := txns[len(txns)-1]
	return reply("Removed the last transaction (%s %s, %s).\nTotal Stack: %s\nWallet: %s",
		last.Direction, money(last.Amount), last.Description, money(total), money(pocket))
}

func (e *Engine) setAlias(ctx context.Context, userID, text string) Reply {
	rest := strings.TrimSpace(text[len("alias "):])
	shorthand, expansion, ok := strings.Cut(rest, "=")
	if !ok || strings.TrimSpace(shorthand) == "" || strings.TrimSpace(expansion) == "" {
		return reply("Use: alias <shortcut> = <full text>, for example \"alias ccd = coffee at Cafe Coffee Day\".")
	}
	p, err := e.prefs.Get(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load preferences", "user", userID, "error", err)
	}
	p.SetAlias(shorthand, expansion)
	if err := e.prefs.Put(ctx, userID, p); err != nil {
		slog.WarnContext(ctx, "Failed to store preferences", "user", userID, "error", err)
		return reply("Could not save the alias. Please try again.")
	}
	return reply("Alias saved: %q now expands to %q.", strings.ToLower(strings.TrimSpace(shorthand)), strings.TrimSpace(expansion))
}

func (e *Engine) setLimit(ctx context.Context, userID, text string) Reply {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return reply("Use: limit <category> <amount>, for example \"limit food 5000\".")
	}
	amount, err := core.ParseAmount(fields[2])
	if err != nil {
		return reply("Use: limit <category> <amount>, for example \"limit food 5000\".")
	}
	p, err := e.prefs.Get(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load preferences", "user", userID, "error", err)
	}
	p.SetSpendingLimit(fields[1], amount)
	if err := e.prefs.Put(ctx, userID, p); err != nil {
		slog.WarnContext(ctx, "Failed to store preferences", "user", userID, "error", err)
		return reply("Could not save the limit. Please try again.")
	}
	return reply("Monthly limit for %s set to %s.", strings.ToLower(fields[1]), money(amount))
}

func (e *Engine) listGoals(ctx context.Context, userID string) Reply {
	p, err := e.prefs.Get(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load preferences", "user", userID, "error", err)
	}
	if len(p.Goals) == 0 {
		return reply("No goals yet. Type \"goal\" to create one.")
	}
	var b strings.Builder
	b.WriteString("Your goals:\n")
	for _, g := range p.Goals {
		b.WriteString("- " + string(g.Type) + " " + money(g.Target) + " " + g.Description)
		if !g.Deadline.IsZero() {
			b.WriteString(" (by " + core.FormatDate(g.Deadline) + ")")
		}
		b.WriteString("\n")
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n")}
}

func (e *Engine) storageReply(ctx context.Context, err error) Reply {
	if errors.Is(err, core.ErrInvalid) {
		return reply("That could not be recorded: %v. Please adjust and try again.", err)
	}
	if errors.Is(err, ledger.ErrNotConfigured) {
		return reply("Storage is not configured. Connect a ledger backend to record transactions.")
	}
	slog.ErrorContext(ctx, "Ledger operation failed", "error", err)
	return reply("Storage is unavailable right now. Please try again.")
}

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

// menuCommand maps main-menu tokens onto the equivalent text commands.
func menuCommand(token string) string {
	switch strings.TrimPrefix(token, "menu_") {
	case "total":
		return "total"
	case "pocket":
		return "wallet"
	case "lending":
		return "lending"
	case "reports":
		return "reports"
	case "summary":
		return "summary"
	case "export":
		return "export"
	}
	return "help"
}

func walletLabel(w core.Wallet) string {
	if w == core.WalletPocket {
		return "Wallet"
	}
	return "Total Stack"
}
