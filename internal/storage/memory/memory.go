package memory

import (
	"context"
	"sync"

	"smartpay/internal/core"
	"smartpay/internal/storage"
)

var _ storage.PaymentStore = (*Store)(nil)

// Store keeps the collection in process memory.
type Store struct {
	mu    sync.Mutex
	items []core.Payment
	saves int
}

func New(seed ...core.Payment) *Store {
	return &Store{items: clone(seed)}
}

func (s *Store) Load(_ context.Context) ([]core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items), nil
}

func (s *Store) Save(_ context.Context, payments []core.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = clone(payments)
	s.saves++
	return nil
}

// Saves returns how many times Save was called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// clone copies the records and drops session identifiers, which are never stored.
func clone(in []core.Payment) []core.Payment {
	out := make([]core.Payment, len(in))
	for i, p := range in {
		p.ID = 0
		out[i] = p
	}
	return out
}
