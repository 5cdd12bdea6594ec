package ranking

import (
	"context"

	"github.com/mauv0809/cue-league/internal/league"
)

// Store defines the database operations required by the ranking engine.
type Store interface {
	GetMatch(ctx context.Context, id string) (*league.Match, error)
	ApplyStats(ctx context.Context, deltas map[string]league.Stats) error
	RecordResult(ctx context.Context, m *league.Match, deltas map[string]league.Stats) error
	RebuildStats(ctx context.Context, replay func([]league.Match) map[string]league.Stats) error
	GetPlayersByRanking(ctx context.Context) ([]league.Player, error)
}

// Metrics defines the counters the ranking engine reports.
type Metrics interface {
	IncMatchResultsApplied()
}
