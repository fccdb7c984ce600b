// Package worker mirrors locally stored transactions to the spreadsheet
// ledger. The bot appends to SQLite and publishes a sync message; this
// worker consumes the message, loads the row, and appends it remotely.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HimanshuSingh-966/PayLog/internal/amqp"
	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger"
)

// TransactionGetter is the slice of the local store the worker reads.
type TransactionGetter interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
}

type SyncWorker struct {
	local  TransactionGetter
	remote ledger.TransactionAppender
}

func NewSyncWorker(local TransactionGetter, remote ledger.TransactionAppender) *SyncWorker {
	return &SyncWorker{local: local, remote: remote}
}

// HandleSyncMessage loads the referenced transaction from the local store
// and appends it to the remote ledger. Errors are returned so the caller
// can nack and requeue.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	t, err := w.local.GetTransaction(ctx, msg.TransactionID)
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", msg.TransactionID, err)
	}
	if err := w.remote.AppendTransaction(ctx, t); err != nil {
		return fmt.Errorf("mirror transaction %d: %w", msg.TransactionID, err)
	}
	slog.InfoContext(ctx, "Mirrored transaction to remote ledger",
		"transaction_id", msg.TransactionID,
		"amount", t.Amount.String(),
		"category", t.Category)
	return nil
}
