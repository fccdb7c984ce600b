// Package ledger defines the ports for the append-only transaction and
// lending ledgers. Adapters live in subpackages (google, memory) and in
// internal/storage for SQLite.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/shopspring/decimal"
)

// ErrNotConfigured is returned by operations that need a ledger backend when
// none is reachable. Callers degrade to a "storage unavailable" reply.
var ErrNotConfigured = errors.New("ledger not configured")

// Ports for outbound adapters.
type (
	TransactionAppender interface {
		AppendTransaction(ctx context.Context, t core.Transaction) error
	}

	TransactionLister interface {
		// ListTransactions returns every row in ledger order, oldest first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// LastRowDeleter removes the newest transaction row. Because balances
	// are snapshots on the row itself, deleting the row restores the prior
	// balances with no separate rollback step.
	LastRowDeleter interface {
		DeleteLastTransaction(ctx context.Context) error
	}

	LendingAppender interface {
		AppendLending(ctx context.Context, r core.LendingRecord) error
	}

	LendingLister interface {
		ListLending(ctx context.Context) ([]core.LendingRecord, error)
	}

	// LendingReturner flips the record at the given position (ledger order,
	// zero-based) from "lent" to "returned". It is the only in-place update
	// the ledger supports.
	LendingReturner interface {
		MarkReturned(ctx context.Context, index int, returnDate time.Time, returnTo core.Wallet) error
	}

	// Gateway bundles every ledger capability a full backend provides.
	Gateway interface {
		TransactionAppender
		TransactionLister
		LastRowDeleter
		LendingAppender
		LendingLister
		LendingReturner
	}
)

// CurrentBalances reads the authoritative balances from the newest
// transaction row. An empty ledger has zero balances.
func CurrentBalances(ctx context.Context, lister TransactionLister) (total, pocket decimal.Decimal, err error) {
	if lister == nil {
		return decimal.Zero, decimal.Zero, ErrNotConfigured
	}
	txns, err := lister.ListTransactions(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if len(txns) == 0 {
		return decimal.Zero, decimal.Zero, nil
	}
	last := txns[len(txns)-1]
	return last.BalanceTotal, last.BalanceWallet, nil
}

// NextBalances applies a transaction to the current balances and returns the
// snapshots the new row should carry.
func NextBalances(total, pocket decimal.Decimal, wallet core.Wallet, direction core.Direction, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	delta := amount
	if direction == core.Debit {
		delta = amount.Neg()
	}
	switch wallet {
	case core.WalletPocket:
		pocket = pocket.Add(delta)
	default:
		total = total.Add(delta)
	}
	return total, pocket
}
