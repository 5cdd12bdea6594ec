package league

import "context"

// Store defines the persistence operations for players and matches.
type Store interface {
	CreatePlayer(ctx context.Context, p *Player) error
	GetPlayer(ctx context.Context, id string) (*Player, error)
	ListPlayers(ctx context.Context) ([]Player, error)
	// UpdatePlayer writes profile fields only. Ranking fields are left untouched.
	UpdatePlayer(ctx context.Context, p *Player) error
	DeletePlayer(ctx context.Context, id string) error
	GetPlayersByRanking(ctx context.Context) ([]Player, error)

	CreateMatch(ctx context.Context, m *Match) error
	GetMatch(ctx context.Context, id string) (*Match, error)
	UpdateMatch(ctx context.Context, m *Match) error
	DeleteMatch(ctx context.Context, id string) error
	ListMatches(ctx context.Context, filter MatchFilter) ([]Match, error)
	GetMatchesForPlayer(ctx context.Context, playerID string) ([]Match, error)

	// ApplyStats adds the deltas to each player's stats in one transaction.
	ApplyStats(ctx context.Context, deltas map[string]Stats) error
	// RecordResult writes the match and adds the deltas in one transaction.
	RecordResult(ctx context.Context, m *Match, deltas map[string]Stats) error
	// RebuildStats resets every player's stats and replaces them with the totals
	// returned by replay, which receives every match that has a winner.
	// The whole operation is one transaction.
	RebuildStats(ctx context.Context, replay func([]Match) map[string]Stats) error
	Ping(ctx context.Context) error
}
