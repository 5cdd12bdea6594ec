package metrics

import "github.com/prometheus/client_golang/prometheus"

// Persisted counter keys.
const (
	KeyRankingRecomputes    = "ranking_recomputes"
	KeyRankingLastRecompute = "ranking_last_recompute_ms"
)

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	RecomputeRuns       prometheus.Counter
	RecomputeFailures   prometheus.Counter
	RecomputeDuration   prometheus.Histogram
	BookingConflicts    prometheus.Counter
	MatchResultsApplied prometheus.Counter
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
