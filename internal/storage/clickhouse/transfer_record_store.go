package clickhouse

import (
	"context"
	"fmt"

	"solana-airdrop-bot/internal/domain"
	"solana-airdrop-bot/internal/storage"
)

// TransferRecordStore implements storage.TransferRecordStore using
// ClickHouse. Transfer outcomes are an append-only analytics log, which
// suits ClickHouse's batch-insert model.
type TransferRecordStore struct {
	conn *Conn
}

// NewTransferRecordStore creates a new TransferRecordStore.
func NewTransferRecordStore(conn *Conn) *TransferRecordStore {
	return &TransferRecordStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TransferRecordStore = (*TransferRecordStore)(nil)

// InsertBulk adds one cycle's transfer records as a single batch.
func (s *TransferRecordStore) InsertBulk(ctx context.Context, recs []*domain.TransferRecord) error {
	if len(recs) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO transfer_records (
			cycle, wallet, amount, percentage, status, signature, reason, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, rec := range recs {
		err = batch.Append(
			uint64(rec.Cycle), rec.Wallet, rec.Amount, rec.Percentage,
			rec.Status, rec.Signature, rec.Reason, uint64(rec.TimestampMs),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByCycle retrieves a cycle's transfer records ordered by timestamp ASC.
func (s *TransferRecordStore) GetByCycle(ctx context.Context, cycle int64) ([]*domain.TransferRecord, error) {
	query := `
		SELECT cycle, wallet, amount, percentage, status, signature, reason, timestamp_ms
		FROM transfer_records
		WHERE cycle = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, uint64(cycle))
	if err != nil {
		return nil, fmt.Errorf("query transfer records: %w", err)
	}
	defer rows.Close()

	var out []*domain.TransferRecord
	for rows.Next() {
		var rec domain.TransferRecord
		var cycleU, timestampU uint64
		if err := rows.Scan(
			&cycleU, &rec.Wallet, &rec.Amount, &rec.Percentage,
			&rec.Status, &rec.Signature, &rec.Reason, &timestampU,
		); err != nil {
			return nil, fmt.Errorf("scan transfer record: %w", err)
		}
		rec.Cycle = int64(cycleU)
		rec.TimestampMs = int64(timestampU)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer records: %w", err)
	}
	return out, nil
}
