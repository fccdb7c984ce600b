package worker

import (
	"context"
	"fmt"

	"github.com/HimanshuSingh-966/PayLog/internal/amqp"
	"github.com/HimanshuSingh-966/PayLog/internal/core"
)

// LastIDReader reports the id of the newest stored transaction row.
type LastIDReader interface {
	LastTransactionID(ctx context.Context) (int64, error)
}

// SyncPublisher bridges the bot's publish hook to AMQP: after a commit it
// resolves the row's database id and emits a sync message for the worker.
type SyncPublisher struct {
	local LastIDReader
	mq    *amqp.Client
}

func NewSyncPublisher(local LastIDReader, mq *amqp.Client) *SyncPublisher {
	return &SyncPublisher{local: local, mq: mq}
}

func (p *SyncPublisher) PublishTransaction(ctx context.Context, _ core.Transaction) error {
	id, err := p.local.LastTransactionID(ctx)
	if err != nil {
		return fmt.Errorf("resolve last transaction id: %w", err)
	}
	return p.mq.PublishTransactionSync(ctx, id)
}

// Close releases the underlying AMQP connection.
func (p *SyncPublisher) Close() error {
	return p.mq.Close()
}
