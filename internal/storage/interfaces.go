// Package storage defines the persistence interfaces for cycle history
// and transfer outcomes.
package storage

import (
	"context"

	"solana-airdrop-bot/internal/domain"
)

// CycleRecordStore persists one record per distribution cycle.
type CycleRecordStore interface {
	// Insert adds a cycle record. Returns ErrDuplicateKey if the cycle
	// number exists.
	Insert(ctx context.Context, rec *domain.CycleRecord) error

	// GetByCycle retrieves one cycle record. Returns ErrNotFound when
	// the cycle was never recorded.
	GetByCycle(ctx context.Context, cycle int64) (*domain.CycleRecord, error)

	// List retrieves all cycle records ordered by cycle number ASC.
	List(ctx context.Context) ([]*domain.CycleRecord, error)
}

// TransferRecordStore persists per-recipient transfer outcomes.
type TransferRecordStore interface {
	// InsertBulk adds one cycle's transfer records.
	InsertBulk(ctx context.Context, recs []*domain.TransferRecord) error

	// GetByCycle retrieves a cycle's transfer records ordered by
	// timestamp ASC.
	GetByCycle(ctx context.Context, cycle int64) ([]*domain.TransferRecord, error)
}
