// Package postgres provides pgx-backed store implementations.
package postgres

import (
	"context"
	"fmt"

	"solana-airdrop-bot/internal/domain"
	"solana-airdrop-bot/internal/storage"
)

// CycleRecordStore implements storage.CycleRecordStore using PostgreSQL.
type CycleRecordStore struct {
	pool *Pool
}

// NewCycleRecordStore creates a new CycleRecordStore.
func NewCycleRecordStore(pool *Pool) *CycleRecordStore {
	return &CycleRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CycleRecordStore = (*CycleRecordStore)(nil)

// Insert adds a cycle record. Returns ErrDuplicateKey if the cycle exists.
func (s *CycleRecordStore) Insert(ctx context.Context, rec *domain.CycleRecord) error {
	query := `
		INSERT INTO cycle_records (
			cycle, started_at_ms, duration_ms, status, failure_reason,
			holders_scanned, eligible_holders, successful_sends, failed_sends,
			total_allocated, total_sent
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11
		)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.Cycle, rec.StartedAtMs, rec.DurationMs, rec.Status, rec.FailureReason,
		rec.HoldersScanned, rec.EligibleHolders, rec.SuccessfulSends, rec.FailedSends,
		rec.TotalAllocated, rec.TotalSent,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert cycle record: %w", err)
	}
	return nil
}

// GetByCycle retrieves one cycle record.
func (s *CycleRecordStore) GetByCycle(ctx context.Context, cycle int64) (*domain.CycleRecord, error) {
	query := `
		SELECT cycle, started_at_ms, duration_ms, status, failure_reason,
			holders_scanned, eligible_holders, successful_sends, failed_sends,
			total_allocated, total_sent
		FROM cycle_records
		WHERE cycle = $1
	`

	var rec domain.CycleRecord
	err := s.pool.QueryRow(ctx, query, cycle).Scan(
		&rec.Cycle, &rec.StartedAtMs, &rec.DurationMs, &rec.Status, &rec.FailureReason,
		&rec.HoldersScanned, &rec.EligibleHolders, &rec.SuccessfulSends, &rec.FailedSends,
		&rec.TotalAllocated, &rec.TotalSent,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get cycle record: %w", err)
	}
	return &rec, nil
}

// List retrieves all cycle records ordered by cycle number ASC.
func (s *CycleRecordStore) List(ctx context.Context) ([]*domain.CycleRecord, error) {
	query := `
		SELECT cycle, started_at_ms, duration_ms, status, failure_reason,
			holders_scanned, eligible_holders, successful_sends, failed_sends,
			total_allocated, total_sent
		FROM cycle_records
		ORDER BY cycle ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cycle records: %w", err)
	}
	defer rows.Close()

	var out []*domain.CycleRecord
	for rows.Next() {
		var rec domain.CycleRecord
		if err := rows.Scan(
			&rec.Cycle, &rec.StartedAtMs, &rec.DurationMs, &rec.Status, &rec.FailureReason,
			&rec.HoldersScanned, &rec.EligibleHolders, &rec.SuccessfulSends, &rec.FailedSends,
			&rec.TotalAllocated, &rec.TotalSent,
		); err != nil {
			return nil, fmt.Errorf("scan cycle record: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycle records: %w", err)
	}
	return out, nil
}
