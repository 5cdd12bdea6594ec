package booking

import (
	"context"

	"github.com/mauv0809/cue-league/internal/league"
)

// Store defines the database operations required by the booking service.
type Store interface {
	GetPlayer(ctx context.Context, id string) (*league.Player, error)
	CreateMatch(ctx context.Context, m *league.Match) error
	GetMatch(ctx context.Context, id string) (*league.Match, error)
	UpdateMatch(ctx context.Context, m *league.Match) error
	DeleteMatch(ctx context.Context, id string) error
	ListMatches(ctx context.Context, filter league.MatchFilter) ([]league.Match, error)
	GetMatchesForPlayer(ctx context.Context, playerID string) ([]league.Match, error)
}

// Recorder persists a match together with the ranking change of its newly
// set winner.
type Recorder interface {
	RecordResult(ctx context.Context, m *league.Match) error
}

// Metrics defines the counters the booking service reports.
type Metrics interface {
	IncBookingConflicts()
}
