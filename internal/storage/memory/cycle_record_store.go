// Package memory provides in-memory store implementations, used by
// default when no database is configured and throughout the tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-airdrop-bot/internal/domain"
	"solana-airdrop-bot/internal/storage"
)

// CycleRecordStore is an in-memory implementation of storage.CycleRecordStore.
type CycleRecordStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.CycleRecord // keyed by cycle number
}

// NewCycleRecordStore creates a new in-memory cycle record store.
func NewCycleRecordStore() *CycleRecordStore {
	return &CycleRecordStore{
		data: make(map[int64]*domain.CycleRecord),
	}
}

// Compile-time interface check.
var _ storage.CycleRecordStore = (*CycleRecordStore)(nil)

// Insert adds a cycle record. Returns ErrDuplicateKey if the cycle exists.
func (s *CycleRecordStore) Insert(_ context.Context, rec *domain.CycleRecord) error {
	if rec == nil || rec.Cycle <= 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[rec.Cycle]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *rec
	s.data[rec.Cycle] = &copy
	return nil
}

// GetByCycle retrieves one cycle record.
func (s *CycleRecordStore) GetByCycle(_ context.Context, cycle int64) (*domain.CycleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[cycle]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copy := *rec
	return &copy, nil
}

// List retrieves all cycle records ordered by cycle number ASC.
func (s *CycleRecordStore) List(_ context.Context) ([]*domain.CycleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.CycleRecord, 0, len(s.data))
	for _, rec := range s.data {
		copy := *rec
		out = append(out, &copy)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Cycle < out[j].Cycle })
	return out, nil
}
