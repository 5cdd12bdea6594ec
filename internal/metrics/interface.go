package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRecomputeRuns()
	IncRecomputeFailures()
	ObserveRecomputeDuration(duration float64)
	IncBookingConflicts()
	IncMatchResultsApplied()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists simple counters across restarts.
type MetricsStore interface {
	Increment(key string)
	Set(key string, value int64)
	GetAll() (map[string]int64, error)
}
