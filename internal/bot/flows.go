package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger"
	"github.com/HimanshuSingh-966/PayLog/internal/parse"
)

const badNumberHint = "Please enter a valid positive number, for example 500 or 1500.50."

// continueSession feeds the message into the dialogue the user is in the
// middle of. Numeric-parse failures re-prompt the same state; the user can
// retry indefinitely.
func (e *Engine) continueSession(ctx context.Context, userID string, sess *Session, text string) Reply {
	switch sess.WaitingFor {
	case stateAmount:
		amount, err := core.ParseAmount(text)
		if err != nil {
			return reply(badNumberHint)
		}
		sess.Amount = amount
		sess.WaitingFor = stateDescription
		verb := "added to"
		if sess.Action == "subtract" {
			verb = "subtracted from"
		}
		return reply("%s will be %s %s.\nEnter a description, for example Salary, Food, Shopping.",
			money(amount), verb, walletLabel(sess.Wallet))

	case stateDescription:
		return e.finishManualEntry(ctx, userID, sess, text)

	case statePersonName:
		sess.Person = text
		sess.WaitingFor = stateLendAmount
		return reply("Lending to %s.\nEnter the amount:", text)

	case stateLendAmount:
		amount, err := core.ParseAmount(text)
		if err != nil {
			return reply(badNumberHint)
		}
		sess.Amount = amount
		sess.WaitingFor = stateLendDescription
		return reply("Person: %s\nAmount: %s\nEnter a description, for example Emergency, Business, Personal.",
			sess.Person, money(amount))

	case stateLendDescription:
		return e.finishLend(ctx, userID, sess, text)

	case stateReturnPerson:
		sess.ReturnPerson = text
		sess.WaitingFor = stateReturnAmount
		return reply("Money returned by %s.\nEnter the amount returned:", text)

	case stateReturnAmount:
		amount, err := core.ParseAmount(text)
		if err != nil {
			return reply(badNumberHint)
		}
		sess.ReturnAmount = amount
		sess.WaitingFor = stateReturnDestination
		return Reply{
			Text: "Person: " + sess.ReturnPerson + "\nAmount: " + money(amount) +
				"\nWhere should the returned money go?",
			Options: []Option{
				{Label: "Total Stack", Token: "return_to_total"},
				{Label: "Wallet", Token: "return_to_pocket"},
			},
		}

	case stateReturnDestination:
		switch strings.ToLower(text) {
		case "total", "total stack":
			return e.finishReturn(ctx, userID, sess, core.WalletTotal)
		case "wallet", "pocket":
			return e.finishReturn(ctx, userID, sess, core.WalletPocket)
		}
		return reply("Choose \"total\" or \"wallet\".")

	case stateGoalDetails:
		return e.finishGoal(ctx, userID, text)

	case stateBatch:
		return e.finishBatch(ctx, userID, text)
	}

	e.sessions.Clear(userID)
	return reply("Lost track of that conversation. Type \"menu\" to start over.")
}

func (e *Engine) finishManualEntry(ctx context.Context, userID string, sess *Session, description string) Reply {
	direction := core.Credit
	if sess.Action == "subtract" {
		direction = core.Debit
	}
	category := parse.MatchCategory(description)
	if category == "" {
		category = core.DefaultCategory
	}
	t, err := e.commit(ctx, direction, sess.Wallet, sess.Amount, description, category, "", e.now())
	e.sessions.Clear(userID)
	if err != nil {
		return e.storageReply(ctx, err)
	}
	verb := "Added to"
	if direction == core.Debit {
		verb = "Subtracted from"
	}
	return reply("Transaction recorded.\n%s %s: %s (%s)\nTotal Stack: %s\nWallet: %s\nCombined: %s",
		verb, strings.ToLower(walletLabel(sess.Wallet)), money(t.Amount), description,
		money(t.BalanceTotal), money(t.BalanceWallet), money(t.BalanceTotal.Add(t.BalanceWallet)))
}

func (e *Engine) finishLend(ctx context.Context, userID string, sess *Session, description string) Reply {
	defer e.sessions.Clear(userID)
	if e.ledger == nil {
		return e.storageReply(ctx, ledger.ErrNotConfigured)
	}
	record := core.LendingRecord{
		Date:        core.Day(e.now()),
		Person:      sess.Person,
		Amount:      sess.Amount,
		Status:      core.StatusLent,
		Description: description,
	}
	if err := record.Validate(); err != nil {
		return reply("Could not record that loan: %v.", err)
	}
	if err := e.ledger.AppendLending(ctx, record); err != nil {
		return e.storageReply(ctx, err)
	}
	return reply("Lending recorded.\nPerson: %s\nAmount: %s\nDescription: %s\nUse \"lending\" and pick Money Returned when %s pays you back.",
		sess.Person, money(sess.Amount), description, sess.Person)
}

// pickReturnDestination resolves the return_to_* callback. It needs a live
// return dialogue; a stray pick is answered, not crashed on.
func (e *Engine) pickReturnDestination(ctx context.Context, userID, walletName string) Reply {
	sess := e.sessions.Get(userID)
	if sess == nil || sess.WaitingFor != stateReturnDestination {
		return reply("No return in progress. Use \"lending\" to start one.")
	}
	wallet := core.WalletTotal
	if walletName == "pocket" {
		wallet = core.WalletPocket
	}
	return e.finishReturn(ctx, userID, sess, wallet)
}

// finishReturn scans the lending ledger in order for the first open record
// matching (person, amount), flips it to returned, and credits the chosen
// wallet. No match leaves the ledger untouched.
func (e *Engine) finishReturn(ctx context.Context, userID string, sess *Session, wallet core.Wallet) Reply {
	defer e.sessions.Clear(userID)
	if e.ledger == nil {
		return e.storageReply(ctx, ledger.ErrNotConfigured)
	}
	records, err := e.ledger.ListLending(ctx)
	if err != nil {
		return e.storageReply(ctx, err)
	}

	match := -1
	for i, r := range records {
		if r.Person == sess.ReturnPerson && r.Amount.Equal(sess.ReturnAmount) && r.Status == core.StatusLent {
			match = i
			break
		}
	}
	if match == -1 {
		return reply("No matching lending record found.\nPerson: %s\nAmount: %s\nCheck that the name and amount match an open loan exactly.",
			sess.ReturnPerson, money(sess.ReturnAmount))
	}

	if err := e.ledger.MarkReturned(ctx, match, core.Day(e.now()), wallet); err != nil {
		return e.storageReply(ctx, err)
	}
	t, err := e.commit(ctx, core.Credit, wallet, sess.ReturnAmount, "Returned by "+sess.ReturnPerson, "lending", "", e.now())
	if err != nil {
		return e.storageReply(ctx, err)
	}
	return reply("Money return recorded.\nReturned by: %s\nAmount: %s\nAdded to: %s\nTotal Stack: %s\nWallet: %s",
		sess.ReturnPerson, money(sess.ReturnAmount), walletLabel(wallet),
		money(t.BalanceTotal), money(t.BalanceWallet))
}

func (e *Engine) finishGoal(ctx context.Context, userID, text string) Reply {
	goal, err := parseGoalLine(text, e.now())
	if err != nil {
		return reply("Could not read that goal. Use \"type target description [deadline]\", " +
			"for example \"savings 50000 emergency fund 31/12/2025\".")
	}
	p, perr := e.prefs.Get(ctx, userID)
	if perr != nil {
		return reply("Could not load your preferences. Please try again.")
	}
	p.Goals = append(p.Goals, goal)
	if err := e.prefs.Put(ctx, userID, p); err != nil {
		return reply("Could not save the goal. Please try again.")
	}
	e.sessions.Clear(userID)
	out := "Goal saved: " + string(goal.Type) + " " + money(goal.Target) + " " + goal.Description
	if !goal.Deadline.IsZero() {
		out += " (by " + core.FormatDate(goal.Deadline) + ")"
	}
	return Reply{Text: out}
}

// parseGoalLine reads "type target description [deadline]"; the deadline
// is the last field when it parses as dd/mm/yyyy.
func parseGoalLine(text string, now time.Time) (core.Goal, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return core.Goal{}, errors.New("need type, target and description")
	}
	target, err := core.ParseAmount(fields[1])
	if err != nil {
		return core.Goal{}, err
	}
	rest := fields[2:]
	var deadline time.Time
	if len(rest) > 1 {
		if d, err := time.Parse(core.LedgerDateLayout, rest[len(rest)-1]); err == nil {
			deadline = d
			rest = rest[:len(rest)-1]
		}
	}
	goal := core.Goal{
		Type:        core.GoalType(strings.ToLower(fields[0])),
		Target:      target,
		Description: strings.Join(rest, " "),
		Deadline:    deadline,
		Created:     core.Day(now),
	}
	return goal, goal.Validate()
}

// finishBatch records one debit per well-formed "amount category
// [description]" line and reports the lines it had to skip.
func (e *Engine) finishBatch(ctx context.Context, userID, text string) Reply {
	defer e.sessions.Clear(userID)

	var recorded int
	var failed []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			failed = append(failed, line)
			continue
		}
		amount, err := core.ParseAmount(fields[0])
		if err != nil {
			failed = append(failed, line)
			continue
		}
		category := strings.ToLower(fields[1])
		description := strings.Join(fields[2:], " ")
		if description == "" {
			description = category
		}
		if _, err := e.commit(ctx, core.Debit, core.WalletPocket, amount, description, category, "", e.now()); err != nil {
			if errors.Is(err, ledger.ErrNotConfigured) {
				return e.storageReply(ctx, err)
			}
			failed = append(failed, line)
			continue
		}
		recorded++
	}

	out := reply("Batch done: %d transaction(s) recorded.", recorded)
	if len(failed) > 0 {
		out.Text += "\nSkipped " + strings.Join(failed, "; ")
	}
	return out
}
