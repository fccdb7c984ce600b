package ledger

import (
	"context"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/cache"
	"github.com/HimanshuSingh-966/PayLog/internal/core"
)

const (
	txnsKey    = "transactions"
	lendingKey = "lending"
)

// Cached wraps a Gateway with a read-through cache over the two full-scan
// reads. Every write invalidates the affected scan, so the analytics paths
// that call ListTransactions several times per message only pay for one
// remote read.
type Cached struct {
	inner Gateway
	txns  *cache.LRU[[]core.Transaction]
	lends *cache.LRU[[]core.LendingRecord]
}

var _ Gateway = (*Cached)(nil)

func NewCached(inner Gateway, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		txns:  cache.NewLRU[[]core.Transaction](1, ttl),
		lends: cache.NewLRU[[]core.LendingRecord](1, ttl),
	}
}

func (c *Cached) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if rows, ok := c.txns.Get(txnsKey); ok {
		return rows, nil
	}
	rows, err := c.inner.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	c.txns.Set(txnsKey, rows)
	return rows, nil
}

func (c *Cached) ListLending(ctx context.Context) ([]core.LendingRecord, error) {
	if rows, ok := c.lends.Get(lendingKey); ok {
		return rows, nil
	}
	rows, err := c.inner.ListLending(ctx)
	if err != nil {
		return nil, err
	}
	c.lends.Set(lendingKey, rows)
	return rows, nil
}

func (c *Cached) AppendTransaction(ctx context.Context, t core.Transaction) error {
	c.txns.Delete(txnsKey)
	return c.inner.AppendTransaction(ctx, t)
}

func (c *Cached) DeleteLastTransaction(ctx context.Context) error {
	c.txns.Delete(txnsKey)
	return c.inner.DeleteLastTransaction(ctx)
}

func (c *Cached) AppendLending(ctx context.Context, r core.LendingRecord) error {
	c.lends.Delete(lendingKey)
	return c.inner.AppendLending(ctx, r)
}

func (c *Cached) MarkReturned(ctx context.Context, index int, returnDate time.Time, returnTo core.Wallet) error {
	c.lends.Delete(lendingKey)
	return c.inner.MarkReturned(ctx, index, returnDate, returnTo)
}
