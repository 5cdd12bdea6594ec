package notifier

import (
	"sync"

	"github.com/mauv0809/cue-league/internal/league"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchResultFunc func(match *league.Match, dryRun bool) error

	// Call records
	SendMatchScheduledCalls []*league.Match
	SendMatchResultCalls    []*league.Match
	SendLeaderboardCalls    [][]league.Player
	DryRunCalls             int
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchScheduledCalls = nil
	m.SendMatchResultCalls = nil
	m.SendLeaderboardCalls = nil
	m.DryRunCalls = 0
}

func (m *Mock) SendMatchScheduled(match *league.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchScheduledCalls = append(m.SendMatchScheduledCalls, match)
	if dryRun {
		m.DryRunCalls++
	}
	return nil
}

func (m *Mock) SendMatchResult(match *league.Match, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, match)
	if dryRun {
		m.DryRunCalls++
	}
	m.mu.Unlock()
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(match, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(players []league.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, players)
	if dryRun {
		m.DryRunCalls++
	}
	return nil
}

// ResultCalls returns the number of SendMatchResult calls.
func (m *Mock) ResultCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendMatchResultCalls)
}

// LeaderboardCalls returns the number of SendLeaderboard calls.
func (m *Mock) LeaderboardCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendLeaderboardCalls)
}
