package prefs

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store used in tests and when no
// preferences path is configured.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]Preferences
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Preferences{}}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.data[userID]; ok {
		return p, nil
	}
	return Default(), nil
}

func (s *MemoryStore) Put(_ context.Context, userID string, p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = p
	return nil
}

func (s *MemoryStore) Close() error { return nil }
