package scheduler

import "fmt"

// Pipeline stage identifiers used in cycle failure reporting.
const (
	StageScan     = "scan"
	StageFilter   = "filter"
	StageAllocate = "allocate"
	StageExecute  = "execute"
)

// CycleError wraps a pipeline-stage failure. It is fatal only to the
// cycle that produced it; the scheduler proceeds to the next interval.
type CycleError struct {
	Cycle int64
	Stage string
	Err   error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle %d: %s stage: %v", e.Cycle, e.Stage, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}
