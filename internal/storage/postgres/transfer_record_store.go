package postgres

import (
	"context"
	"fmt"

	"solana-airdrop-bot/internal/domain"
	"solana-airdrop-bot/internal/storage"
)

// TransferRecordStore implements storage.TransferRecordStore using PostgreSQL.
type TransferRecordStore struct {
	pool *Pool
}

// NewTransferRecordStore creates a new TransferRecordStore.
func NewTransferRecordStore(pool *Pool) *TransferRecordStore {
	return &TransferRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransferRecordStore = (*TransferRecordStore)(nil)

// InsertBulk adds one cycle's transfer records atomically.
func (s *TransferRecordStore) InsertBulk(ctx context.Context, recs []*domain.TransferRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO transfer_records (
			cycle, wallet, amount, percentage, status, signature, reason, timestamp_ms
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	for _, rec := range recs {
		_, err := tx.Exec(ctx, query,
			rec.Cycle, rec.Wallet, rec.Amount, rec.Percentage,
			rec.Status, rec.Signature, rec.Reason, rec.TimestampMs,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert transfer record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByCycle retrieves a cycle's transfer records ordered by timestamp ASC.
func (s *TransferRecordStore) GetByCycle(ctx context.Context, cycle int64) ([]*domain.TransferRecord, error) {
	query := `
		SELECT cycle, wallet, amount, percentage, status, signature, reason, timestamp_ms
		FROM transfer_records
		WHERE cycle = $1
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.pool.Query(ctx, query, cycle)
	if err != nil {
		return nil, fmt.Errorf("get transfer records: %w", err)
	}
	defer rows.Close()

	var out []*domain.TransferRecord
	for rows.Next() {
		var rec domain.TransferRecord
		if err := rows.Scan(
			&rec.Cycle, &rec.Wallet, &rec.Amount, &rec.Percentage,
			&rec.Status, &rec.Signature, &rec.Reason, &rec.TimestampMs,
		); err != nil {
			return nil, fmt.Errorf("scan transfer record: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer records: %w", err)
	}
	return out, nil
}
