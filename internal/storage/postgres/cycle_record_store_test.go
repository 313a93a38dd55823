package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-airdrop-bot/internal/domain"
	"solana-airdrop-bot/internal/storage"
)

func createTestCycleRecord(cycle int64) *domain.CycleRecord {
	return &domain.CycleRecord{
		Cycle:           cycle,
		StartedAtMs:     1700000000000 + cycle*20000,
		DurationMs:      1500,
		Status:          domain.CycleStatusSuccess,
		HoldersScanned:  3,
		EligibleHolders: 2,
		SuccessfulSends: 2,
		FailedSends:     0,
		TotalAllocated:  0.2,
		TotalSent:       0.2,
	}
}

func TestCycleRecordStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCycleRecordStore(pool)

	rec := createTestCycleRecord(1)
	require.NoError(t, store.Insert(ctx, rec))

	got, err := store.GetByCycle(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, rec.Cycle, got.Cycle)
	assert.Equal(t, rec.StartedAtMs, got.StartedAtMs)
	assert.Equal(t, rec.DurationMs, got.DurationMs)
	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, rec.HoldersScanned, got.HoldersScanned)
	assert.Equal(t, rec.EligibleHolders, got.EligibleHolders)
	assert.Equal(t, rec.SuccessfulSends, got.SuccessfulSends)
	assert.InDelta(t, rec.TotalAllocated, got.TotalAllocated, 1e-9)
	assert.InDelta(t, rec.TotalSent, got.TotalSent, 1e-9)
}

func TestCycleRecordStore_FailedCycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCycleRecordStore(pool)

	rec := &domain.CycleRecord{
		Cycle:         1,
		StartedAtMs:   1700000000000,
		DurationMs:    120,
		Status:        domain.CycleStatusFailed,
		FailureReason: "cycle 1: scan stage: rpc unavailable",
	}
	require.NoError(t, store.Insert(ctx, rec))

	got, err := store.GetByCycle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.CycleStatusFailed, got.Status)
	assert.Equal(t, rec.FailureReason, got.FailureReason)
	assert.Zero(t, got.SuccessfulSends)
}

func TestCycleRecordStore_DuplicateCycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCycleRecordStore(pool)

	require.NoError(t, store.Insert(ctx, createTestCycleRecord(7)))

	err := store.Insert(ctx, createTestCycleRecord(7))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestCycleRecordStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewCycleRecordStore(pool).GetByCycle(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCycleRecordStore_ListOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCycleRecordStore(pool)

	for _, c := range []int64{3, 1, 2} {
		require.NoError(t, store.Insert(ctx, createTestCycleRecord(c)))
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, want := range []int64{1, 2, 3} {
		assert.Equal(t, want, records[i].Cycle)
	}
}
