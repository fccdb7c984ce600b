package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

const (
	WalletTotal  Wallet = "total"
	WalletPocket Wallet = "pocket"
)

const (
	StatusLent     LendingStatus = "lent"
	StatusReturned LendingStatus = "returned"
)

const (
	GoalSavings       GoalType = "savings"
	GoalSpendingLimit GoalType = "spending_limit"
	GoalInvestment    GoalType = "investment"
)

// DefaultCategory is assigned when no category could be determined.
const DefaultCategory = "other"

type (
	Direction     string
	Wallet        string
	LendingStatus string
	GoalType      string

	// Transaction is one ledger row. BalanceTotal and BalanceWallet are
	// snapshots taken after applying this transaction; the current balances
	// of the ledger are always read from the newest row, never stored
	// independently.
	Transaction struct {
		Date          time.Time
		Direction     Direction
		Wallet        Wallet
		Amount        decimal.Decimal
		Description   string
		Category      string
		Merchant      string
		BalanceTotal  decimal.Decimal
		BalanceWallet decimal.Decimal
	}

	// LendingRecord tracks a loan to a person. It is created with status
	// "lent" and transitions at most once to "returned".
	LendingRecord struct {
		Date        time.Time
		Person      string
		Amount      decimal.Decimal
		Status      LendingStatus
		Description string
		ReturnDate  time.Time // zero until returned
		ReturnTo    Wallet    // empty until returned
	}

	// Goal is an append-only savings/spending target.
	Goal struct {
		Type        GoalType
		Target      decimal.Decimal
		Description string
		Deadline    time.Time // optional, zero when absent
		Created     time.Time
	}
)

// ErrInvalid is wrapped by every Validate failure so callers can tell bad
// input apart from storage trouble.
var ErrInvalid = errors.New("invalid")

var (
	ErrInvalidAmount    = fmt.Errorf("%w amount", ErrInvalid)
	ErrInvalidDirection = fmt.Errorf("%w direction", ErrInvalid)
	ErrInvalidWallet    = fmt.Errorf("%w wallet", ErrInvalid)
	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrInvalid)
	ErrEmptyPerson      = fmt.Errorf("%w: empty person", ErrInvalid)
	ErrInvalidGoalType  = fmt.Errorf("%w goal type", ErrInvalid)
)

func (d Direction) Valid() bool {
	return d == Credit || d == Debit
}

func (w Wallet) Valid() bool {
	return w == WalletTotal || w == WalletPocket
}

func (g GoalType) Valid() bool {
	return g == GoalSavings || g == GoalSpendingLimit || g == GoalInvestment
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalid)
	}
	if !t.Direction.Valid() {
		return ErrInvalidDirection
	}
	if !t.Wallet.Valid() {
		return ErrInvalidWallet
	}
	if t.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrInvalid)
	}
	return nil
}

func (r LendingRecord) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalid)
	}
	if len(strings.TrimSpace(r.Person)) == 0 {
		return ErrEmptyPerson
	}
	if r.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	switch r.Status {
	case StatusLent:
		if !r.ReturnDate.IsZero() || r.ReturnTo != "" {
			return fmt.Errorf("%w: open loan cannot carry return fields", ErrInvalid)
		}
	case StatusReturned:
		if r.ReturnDate.IsZero() {
			return fmt.Errorf("%w: returned loan requires a return date", ErrInvalid)
		}
		if !r.ReturnTo.Valid() {
			return ErrInvalidWallet
		}
	default:
		return fmt.Errorf("%w lending status", ErrInvalid)
	}
	return nil
}

func (g Goal) Validate() error {
	if !g.Type.Valid() {
		return ErrInvalidGoalType
	}
	if g.Target.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(g.Description)) == 0 {
		return ErrEmptyDescription
	}
	return nil
}
