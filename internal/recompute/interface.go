package recompute

import "context"

// Recomputer rebuilds all rankings from match history.
type Recomputer interface {
	RecomputeAll(ctx context.Context) error
}

// Metrics defines the instrumentation the runner reports.
type Metrics interface {
	IncRecomputeRuns()
	IncRecomputeFailures()
	ObserveRecomputeDuration(duration float64)
}

// Counters persists run bookkeeping across restarts.
type Counters interface {
	Increment(key string)
	Set(key string, value int64)
}
