package memory

import (
	"context"
	"sort"
	"sync"

	"solana-airdrop-bot/internal/domain"
	"solana-airdrop-bot/internal/storage"
)

// TransferRecordStore is an in-memory implementation of storage.TransferRecordStore.
type TransferRecordStore struct {
	mu   sync.RWMutex
	data []*domain.TransferRecord
}

// NewTransferRecordStore creates a new in-memory transfer record store.
func NewTransferRecordStore() *TransferRecordStore {
	return &TransferRecordStore{}
}

// Compile-time interface check.
var _ storage.TransferRecordStore = (*TransferRecordStore)(nil)

// InsertBulk adds one cycle's transfer records.
func (s *TransferRecordStore) InsertBulk(_ context.Context, recs []*domain.TransferRecord) error {
	if len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		if rec == nil || rec.Cycle <= 0 || rec.Wallet == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range recs {
		copy := *rec
		s.data = append(s.data, &copy)
	}
	return nil
}

// GetByCycle retrieves a cycle's transfer records ordered by timestamp ASC.
func (s *TransferRecordStore) GetByCycle(_ context.Context, cycle int64) ([]*domain.TransferRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TransferRecord
	for _, rec := range s.data {
		if rec.Cycle == cycle {
			copy := *rec
			out = append(out, &copy)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TimestampMs < out[j].TimestampMs })
	return out, nil
}
