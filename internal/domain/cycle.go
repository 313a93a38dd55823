package domain

import "time"

// Cycle status codes. INTERRUPTED marks a cycle cancelled during
// execution: its send counters are real but the plan was truncated.
const (
	CycleStatusSuccess     = "SUCCESS"
	CycleStatusInterrupted = "INTERRUPTED"
	CycleStatusFailed      = "FAILED"
)

// Transfer status codes.
const (
	TransferStatusSent   = "SENT"
	TransferStatusFailed = "FAILED"
)

// TransferRecord is the outcome of one transfer attempt within a cycle.
type TransferRecord struct {
	Cycle       int64
	Wallet      string
	Amount      float64
	Percentage  float64
	Status      string // SENT | FAILED
	Signature   string // transaction signature on success
	Reason      string // failure reason on FAILED
	TimestampMs int64
}

// CycleResult summarizes one completed execution stage. Created at
// cycle end and immutable thereafter; TotalSent <= TotalAllocated, with
// equality only when every send succeeded.
type CycleResult struct {
	Cycle           int64
	EligibleHolders int
	SuccessfulSends int
	FailedSends     int
	TotalAllocated  float64
	TotalSent       float64
	Duration        time.Duration
	Transfers       []*TransferRecord
}

// CycleRecord is the persisted form of a cycle, covering both completed
// cycles and stage failures that never reached execution.
type CycleRecord struct {
	Cycle           int64
	StartedAtMs     int64
	DurationMs      int64
	Status          string // SUCCESS | INTERRUPTED | FAILED
	FailureReason   string // empty on SUCCESS
	HoldersScanned  int
	EligibleHolders int
	SuccessfulSends int
	FailedSends     int
	TotalAllocated  float64
	TotalSent       float64
}
