// Package scheduler drives repeated distribution cycles at a fixed
// wall-clock interval.
// Each cycle is a straight pipeline: scan → aggregate → filter →
// allocate → execute.
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"solana-airdrop-bot/internal/distribution"
	"solana-airdrop-bot/internal/domain"
	"solana-airdrop-bot/internal/executor"
	"solana-airdrop-bot/internal/holders"
	"solana-airdrop-bot/internal/observability"
	"solana-airdrop-bot/internal/solana"
	"solana-airdrop-bot/internal/storage"
)

// DefaultCycleInterval is the delay between distribution cycles.
const DefaultCycleInterval = 20 * time.Second

// previewEntries is how many top recipients the plan preview logs.
const previewEntries = 10

// AccountScanner fetches the raw token account set for a mint.
type AccountScanner interface {
	GetTokenAccountsByMint(ctx context.Context, mint string) ([]solana.TokenAccount, error)
}

// Stats are the scheduler's cross-cycle totals. Mutated only between
// cycles by the scheduler goroutine itself.
type Stats struct {
	Cycles         int64
	FailedCycles   int64
	CumulativeSent float64
	Runtime        time.Duration
}

// AveragePerCycle returns the mean amount sent per cycle, zero-safe.
func (s Stats) AveragePerCycle() float64 {
	cycles := s.Cycles
	if cycles < 1 {
		cycles = 1
	}
	return s.CumulativeSent / float64(cycles)
}

// Scheduler owns the distribution loop and its cross-cycle state.
type Scheduler struct {
	scanner    AccountScanner
	exec       *executor.Executor
	mint       string
	budget     float64
	minHolding float64
	maxHolding float64
	interval   time.Duration

	cycleStore    storage.CycleRecordStore    // optional
	transferStore storage.TransferRecordStore // optional
	metrics       *observability.Metrics      // optional
	logger        *log.Logger

	stats Stats
}

// Options configures a Scheduler.
type Options struct {
	Scanner       AccountScanner
	Executor      *executor.Executor
	Mint          string
	Budget        float64 // amount distributed per cycle
	MinHolding    float64
	MaxHolding    float64
	CycleInterval time.Duration // default DefaultCycleInterval
	CycleStore    storage.CycleRecordStore
	TransferStore storage.TransferRecordStore
	Metrics       *observability.Metrics
	Logger        *log.Logger
}

// New creates a Scheduler.
func New(opts Options) *Scheduler {
	interval := opts.CycleInterval
	if interval == 0 {
		interval = DefaultCycleInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		scanner:       opts.Scanner,
		exec:          opts.Executor,
		mint:          opts.Mint,
		budget:        opts.Budget,
		minHolding:    opts.MinHolding,
		maxHolding:    opts.MaxHolding,
		interval:      interval,
		cycleStore:    opts.CycleStore,
		transferStore: opts.TransferStore,
		metrics:       opts.Metrics,
		logger:        logger,
	}
}

// Stats returns the cross-cycle totals accumulated so far.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// Run executes distribution cycles until the context is cancelled.
// Cancellation is observed between cycles; an in-flight cycle runs to
// completion apart from the executor's own cooperative check. Always
// returns the context's error.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Printf("Starting distributor: mint=%s budget=%.6f interval=%v holdings=[%.0f, %.0f]",
		s.mint, s.budget, s.interval, s.minHolding, s.maxHolding)

	start := time.Now()

	for {
		if ctx.Err() != nil {
			break
		}

		s.runCycle(ctx)

		select {
		case <-ctx.Done():
		case <-time.After(s.interval):
		}
		if ctx.Err() != nil {
			break
		}
	}

	s.stats.Runtime = time.Since(start)
	s.logger.Printf("Final summary: cycles=%d failed=%d runtime=%.2fs total_sent=%.6f avg_per_cycle=%.6f",
		s.stats.Cycles, s.stats.FailedCycles, s.stats.Runtime.Seconds(),
		s.stats.CumulativeSent, s.stats.AveragePerCycle())

	return ctx.Err()
}

// runCycle executes one full cycle and folds its outcome into the
// scheduler state. Stage failures are recorded and absorbed here;
// nothing a single cycle does stops the loop.
func (s *Scheduler) runCycle(ctx context.Context) {
	cycle := s.stats.Cycles + 1
	started := time.Now()

	s.logger.Printf("=== Cycle #%d ===", cycle)

	rec := &domain.CycleRecord{
		Cycle:       cycle,
		StartedAtMs: started.UnixMilli(),
	}

	result, err := s.executeCycle(ctx, cycle, rec)
	rec.DurationMs = time.Since(started).Milliseconds()

	if result != nil {
		rec.EligibleHolders = result.EligibleHolders
		rec.SuccessfulSends = result.SuccessfulSends
		rec.FailedSends = result.FailedSends
		rec.TotalAllocated = result.TotalAllocated
		rec.TotalSent = result.TotalSent
		result.Duration = time.Since(started)
	}

	switch {
	case err != nil && result == nil:
		// Stage short-circuit: no execution happened.
		rec.Status = domain.CycleStatusFailed
		rec.FailureReason = err.Error()
		s.stats.FailedCycles++
		s.logger.Printf("Cycle #%d failed: %v", cycle, err)
	case err != nil:
		// Cancelled mid-execution. The sends that went through are
		// real, so their totals count, but the record keeps the
		// cancellation reason so truncated cycles stay auditable.
		rec.Status = domain.CycleStatusInterrupted
		rec.FailureReason = err.Error()
		s.stats.CumulativeSent += rec.TotalSent
		s.logger.Printf("Cycle #%d interrupted after %d/%d sends: %v",
			cycle, rec.SuccessfulSends, rec.SuccessfulSends+rec.FailedSends, err)
	default:
		// Reaching the execution stage counts as cycle success even if
		// individual sends failed; both counters are recorded so the
		// stricter policy can be layered on by an operator.
		rec.Status = domain.CycleStatusSuccess
		s.stats.CumulativeSent += rec.TotalSent
		s.logger.Printf("Cycle #%d complete: duration=%.2fs sent=%d/%d total=%.6f",
			cycle, time.Since(started).Seconds(),
			rec.SuccessfulSends, rec.SuccessfulSends+rec.FailedSends, rec.TotalSent)
	}

	s.stats.Cycles = cycle

	s.record(ctx, rec, result)
	s.observe(rec, err)
}

// executeCycle runs the four-stage pipeline. A nil result with a
// non-nil error means a stage short-circuited before execution.
func (s *Scheduler) executeCycle(ctx context.Context, cycle int64, rec *domain.CycleRecord) (*domain.CycleResult, error) {
	// Stage 1: scan and aggregate holders.
	accounts, err := s.scanner.GetTokenAccountsByMint(ctx, s.mint)
	if err != nil {
		return nil, &CycleError{Cycle: cycle, Stage: StageScan, Err: err}
	}
	set, err := holders.Aggregate(accounts)
	if err != nil {
		return nil, &CycleError{Cycle: cycle, Stage: StageScan, Err: err}
	}
	rec.HoldersScanned = set.Len()
	s.logger.Printf("Scanned %d accounts: %d holders, supply %.0f, %d skipped",
		len(accounts), set.Len(), set.Total, set.Skipped)

	// Stage 2: eligibility.
	filtered, err := holders.Filter(set, s.minHolding, s.maxHolding)
	if err != nil {
		return nil, &CycleError{Cycle: cycle, Stage: StageFilter, Err: err}
	}
	s.logger.Printf("Eligible holders: %d (excluded: %d below, %d above)",
		filtered.Eligible.Len(), filtered.ExcludedBelow, filtered.ExcludedAbove)

	// Stage 3: allocation.
	plan, err := distribution.Calculate(filtered.Eligible, s.budget)
	if err != nil {
		return nil, &CycleError{Cycle: cycle, Stage: StageAllocate, Err: err}
	}
	s.logPlanPreview(plan)

	// Stage 4: execution. Per-recipient failures stay inside the
	// executor; only cancellation surfaces as an error here.
	result, err := s.exec.Execute(ctx, cycle, plan)
	if err != nil {
		return result, &CycleError{Cycle: cycle, Stage: StageExecute, Err: err}
	}

	if s.metrics != nil {
		s.metrics.HoldersScanned.Set(float64(set.Len()))
		s.metrics.EligibleHolders.Set(float64(filtered.Eligible.Len()))
		s.metrics.SkippedRecords.Set(float64(set.Skipped))
	}

	return result, nil
}

// logPlanPreview logs the top recipients of the distribution plan.
func (s *Scheduler) logPlanPreview(plan []*domain.DistributionEntry) {
	s.logger.Printf("Distribution plan: %d recipients, budget %.6f", len(plan), s.budget)
	n := len(plan)
	if n > previewEntries {
		n = previewEntries
	}
	for i := 0; i < n; i++ {
		e := plan[i]
		wallet := e.Wallet
		if len(wallet) > 16 {
			wallet = wallet[:8] + "..." + wallet[len(wallet)-8:]
		}
		s.logger.Printf("%2d. %s: %.6f (%.2f%%)", i+1, wallet, e.Allocated, e.Percentage)
	}
}

// record persists the cycle outcome. Store failures are logged, never
// fatal to the loop.
func (s *Scheduler) record(ctx context.Context, rec *domain.CycleRecord, result *domain.CycleResult) {
	if s.cycleStore != nil {
		if err := s.cycleStore.Insert(ctx, rec); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			s.logger.Printf("Error storing cycle record: %v", err)
		}
	}
	if s.transferStore != nil && result != nil && len(result.Transfers) > 0 {
		if err := s.transferStore.InsertBulk(ctx, result.Transfers); err != nil {
			s.logger.Printf("Error storing transfer records: %v", err)
		}
	}
}

// observe updates Prometheus metrics for a finished cycle.
func (s *Scheduler) observe(rec *domain.CycleRecord, err error) {
	if s.metrics == nil {
		return
	}

	s.metrics.CyclesTotal.Inc()
	s.metrics.CycleDuration.Observe(float64(rec.DurationMs) / 1000)
	s.metrics.LastCycleTime.SetToCurrentTime()

	if rec.Status == domain.CycleStatusFailed {
		stage := "unknown"
		var cycleErr *CycleError
		if errors.As(err, &cycleErr) {
			stage = cycleErr.Stage
		}
		s.metrics.CyclesFailed.WithLabelValues(stage).Inc()
		return
	}

	s.metrics.TransfersSent.Add(float64(rec.SuccessfulSends))
	s.metrics.TransfersFailed.Add(float64(rec.FailedSends))
	s.metrics.AmountAllocated.Add(rec.TotalAllocated)
	s.metrics.AmountSent.Add(rec.TotalSent)
}
