// Package memory is an in-process ledger used as the default backend and as
// the test double for everything that speaks to the ledger ports.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	ports "github.com/HimanshuSingh-966/PayLog/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	txns    []core.Transaction
	lending []core.LendingRecord
}

// Ensure interface conformance
var _ ports.Gateway = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AppendTransaction(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append(s.txns, t)
	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txns...), nil
}

func (s *Store) DeleteLastTransaction(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.txns) == 0 {
		return errors.New("ledger is empty")
	}
	s.txns = s.txns[:len(s.txns)-1]
	return nil
}

func (s *Store) AppendLending(_ context.Context, r core.LendingRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lending = append(s.lending, r)
	return nil
}

func (s *Store) ListLending(_ context.Context) ([]core.LendingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.LendingRecord(nil), s.lending...), nil
}

func (s *Store) MarkReturned(_ context.Context, index int, returnDate time.Time, returnTo core.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.lending) {
		return errors.New("lending index out of range")
	}
	rec := &s.lending[index]
	if rec.Status != core.StatusLent {
		return errors.New("lending record already returned")
	}
	rec.Status = core.StatusReturned
	rec.ReturnDate = returnDate
	rec.ReturnTo = returnTo
	return nil
}
