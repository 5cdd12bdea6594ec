package handlers

import (
	"context"
	"time"

	"github.com/mauv0809/cue-league/internal/booking"
	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/pubsub"
	"github.com/mauv0809/cue-league/internal/recompute"
)

// PlayerStore is the player persistence used by the player endpoints.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, p *league.Player) error
	GetPlayer(ctx context.Context, id string) (*league.Player, error)
	ListPlayers(ctx context.Context) ([]league.Player, error)
	UpdatePlayer(ctx context.Context, p *league.Player) error
	DeletePlayer(ctx context.Context, id string) error
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Booker schedules and edits matches.
type Booker interface {
	CreateMatch(ctx context.Context, req booking.NewMatch) (*league.Match, error)
	UpdateMatch(ctx context.Context, id string, upd booking.MatchUpdate) (*league.Match, bool, error)
	DeleteMatch(ctx context.Context, id string) error
	GetMatch(ctx context.Context, id string) (*league.Match, error)
	ListMatches(ctx context.Context, f booking.Filter) ([]league.Match, error)
	CheckConflict(ctx context.Context, playerID string, start, end time.Time, excludeMatchID string) (bool, error)
}

// Ranker serves and rebuilds the leaderboard.
type Ranker interface {
	GetRankedPlayers(ctx context.Context) ([]league.Player, error)
	RecomputeAll(ctx context.Context) error
}

// RunnerStatus reports on the scheduled recompute.
type RunnerStatus interface {
	Status() recompute.Status
}

// Events reacts to match lifecycle changes made through the API.
type Events interface {
	MatchScheduled(ctx context.Context, match *league.Match, dryRun bool)
	MatchCompleted(ctx context.Context, match *league.Match, dryRun bool)
	RankingRecomputed(ctx context.Context)
	HandleMatchCompleted(ctx context.Context, event pubsub.MatchCompletedEvent) error
	HandleRankingRecomputed(ctx context.Context, event pubsub.RankingRecomputedEvent, dryRun bool) error
}
