// Package executor runs the transfer stage of a distribution cycle.
package executor

import (
	"context"
	"log"
	"time"

	"solana-airdrop-bot/internal/domain"
)

// DefaultPacingDelay is the pause between consecutive transfer attempts.
// It paces submissions against RPC rate limits and lets the sender's
// sequencing state settle between sends.
const DefaultPacingDelay = 500 * time.Millisecond

// Sender attempts one asset transfer. Implementations apply their own
// retry and preflight policy; the executor never retries on top.
type Sender interface {
	// Send transfers amount to recipient and returns the transaction
	// signature on success.
	Send(ctx context.Context, recipient string, amount float64) (string, error)
}

// Executor processes a distribution plan strictly in order, one
// transfer at a time. A single recipient's failure is recorded and the
// cycle continues.
type Executor struct {
	sender Sender
	pacing time.Duration
	logger *log.Logger
}

// Options configures an Executor.
type Options struct {
	Sender      Sender
	PacingDelay time.Duration // default DefaultPacingDelay
	Logger      *log.Logger
}

// New creates an Executor.
func New(opts Options) *Executor {
	pacing := opts.PacingDelay
	if pacing == 0 {
		pacing = DefaultPacingDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{
		sender: opts.Sender,
		pacing: pacing,
		logger: logger,
	}
}

// Execute attempts every entry of the plan sequentially and returns the
// cycle's execution accounting. Context cancellation is honored at the
// top of each iteration: the partial result is returned together with
// the context error so an operator's stop does not stall on a long
// holder list.
func (e *Executor) Execute(ctx context.Context, cycle int64, plan []*domain.DistributionEntry) (*domain.CycleResult, error) {
	result := &domain.CycleResult{
		Cycle:           cycle,
		EligibleHolders: len(plan),
	}
	for _, entry := range plan {
		result.TotalAllocated += entry.Allocated
	}

	for i, entry := range plan {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.logger.Printf("Sending to recipient %d/%d: %s (%.6f)", i+1, len(plan), shortWallet(entry.Wallet), entry.Allocated)

		record := &domain.TransferRecord{
			Cycle:       cycle,
			Wallet:      entry.Wallet,
			Amount:      entry.Allocated,
			Percentage:  entry.Percentage,
			TimestampMs: time.Now().UnixMilli(),
		}

		signature, err := e.sender.Send(ctx, entry.Wallet, entry.Allocated)
		if err != nil {
			result.FailedSends++
			record.Status = domain.TransferStatusFailed
			record.Reason = err.Error()
			e.logger.Printf("Transfer to %s failed: %v", shortWallet(entry.Wallet), err)
		} else {
			result.SuccessfulSends++
			result.TotalSent += entry.Allocated
			record.Status = domain.TransferStatusSent
			record.Signature = signature
			e.logger.Printf("Transfer to %s confirmed: %s", shortWallet(entry.Wallet), signature)
		}
		result.Transfers = append(result.Transfers, record)

		if i < len(plan)-1 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(e.pacing):
			}
		}
	}

	return result, nil
}

// shortWallet truncates an address for log lines.
func shortWallet(wallet string) string {
	if len(wallet) <= 16 {
		return wallet
	}
	return wallet[:8] + "..." + wallet[len(wallet)-8:]
}
