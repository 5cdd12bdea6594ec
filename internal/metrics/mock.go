package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	recomputeRuns       int
	recomputeFailures   int
	recomputeDurations  []float64
	bookingConflicts    int
	matchResultsApplied int
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		recomputeDurations: make([]float64, 0),
	}
}

func (m *Mock) IncRecomputeRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeRuns++
}

func (m *Mock) IncRecomputeFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeFailures++
}

func (m *Mock) ObserveRecomputeDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeDurations = append(m.recomputeDurations, duration)
}

func (m *Mock) IncBookingConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingConflicts++
}

func (m *Mock) IncMatchResultsApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchResultsApplied++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RecomputeRuns returns the number of times IncRecomputeRuns was called.
func (m *Mock) RecomputeRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recomputeRuns
}

// RecomputeFailures returns the number of times IncRecomputeFailures was called.
func (m *Mock) RecomputeFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recomputeFailures
}

// BookingConflicts returns the number of times IncBookingConflicts was called.
func (m *Mock) BookingConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookingConflicts
}

// MatchResultsApplied returns the number of times IncMatchResultsApplied was called.
func (m *Mock) MatchResultsApplied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchResultsApplied
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
