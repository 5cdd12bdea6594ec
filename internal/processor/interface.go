package processor

import (
	"context"

	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetMatch(ctx context.Context, id string) (*league.Match, error)
}

// Ranker is the part of the ranking engine the processor reads.
type Ranker interface {
	GetRankedPlayers(ctx context.Context) ([]league.Player, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
