package league

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	CreatePlayerFunc        func(ctx context.Context, p *Player) error
	GetPlayerFunc           func(ctx context.Context, id string) (*Player, error)
	ListPlayersFunc         func(ctx context.Context) ([]Player, error)
	UpdatePlayerFunc        func(ctx context.Context, p *Player) error
	DeletePlayerFunc        func(ctx context.Context, id string) error
	GetPlayersByRankingFunc func(ctx context.Context) ([]Player, error)
	CreateMatchFunc         func(ctx context.Context, m *Match) error
	GetMatchFunc            func(ctx context.Context, id string) (*Match, error)
	UpdateMatchFunc         func(ctx context.Context, m *Match) error
	DeleteMatchFunc         func(ctx context.Context, id string) error
	ListMatchesFunc         func(ctx context.Context, filter MatchFilter) ([]Match, error)
	GetMatchesForPlayerFunc func(ctx context.Context, playerID string) ([]Match, error)
	ApplyStatsFunc          func(ctx context.Context, deltas map[string]Stats) error
	RecordResultFunc        func(ctx context.Context, m *Match, deltas map[string]Stats) error
	RebuildStatsFunc        func(ctx context.Context, replay func([]Match) map[string]Stats) error
	PingFunc                func(ctx context.Context) error

	// Call records
	CreateMatchCalls  []*Match
	UpdateMatchCalls  []*Match
	DeleteMatchCalls  []string
	ApplyStatsCalls   []map[string]Stats
	RecordResultCalls []RecordResultCall
	RebuildStatsCalls int
}

// RecordResultCall records the arguments of a RecordResult call.
type RecordResultCall struct {
	Match  *Match
	Deltas map[string]Stats
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = nil
	m.UpdateMatchCalls = nil
	m.DeleteMatchCalls = nil
	m.ApplyStatsCalls = nil
	m.RecordResultCalls = nil
	m.RebuildStatsCalls = 0
}

func (m *MockStore) CreatePlayer(ctx context.Context, p *Player) error {
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(ctx, p)
	}
	return nil
}

func (m *MockStore) GetPlayer(ctx context.Context, id string) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	return &Player{ID: id}, nil
}

func (m *MockStore) ListPlayers(ctx context.Context) ([]Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(ctx)
	}
	return []Player{}, nil
}

func (m *MockStore) UpdatePlayer(ctx context.Context, p *Player) error {
	if m.UpdatePlayerFunc != nil {
		return m.UpdatePlayerFunc(ctx, p)
	}
	return nil
}

func (m *MockStore) DeletePlayer(ctx context.Context, id string) error {
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) GetPlayersByRanking(ctx context.Context) ([]Player, error) {
	if m.GetPlayersByRankingFunc != nil {
		return m.GetPlayersByRankingFunc(ctx)
	}
	return []Player{}, nil
}

func (m *MockStore) CreateMatch(ctx context.Context, match *Match) error {
	m.mu.Lock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, match)
	m.mu.Unlock()
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(ctx, match)
	}
	return nil
}

func (m *MockStore) GetMatch(ctx context.Context, id string) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) UpdateMatch(ctx context.Context, match *Match) error {
	m.mu.Lock()
	m.UpdateMatchCalls = append(m.UpdateMatchCalls, match)
	m.mu.Unlock()
	if m.UpdateMatchFunc != nil {
		return m.UpdateMatchFunc(ctx, match)
	}
	return nil
}

func (m *MockStore) DeleteMatch(ctx context.Context, id string) error {
	m.mu.Lock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, id)
	m.mu.Unlock()
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) ListMatches(ctx context.Context, filter MatchFilter) ([]Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(ctx, filter)
	}
	return []Match{}, nil
}

func (m *MockStore) GetMatchesForPlayer(ctx context.Context, playerID string) ([]Match, error) {
	if m.GetMatchesForPlayerFunc != nil {
		return m.GetMatchesForPlayerFunc(ctx, playerID)
	}
	return []Match{}, nil
}

func (m *MockStore) ApplyStats(ctx context.Context, deltas map[string]Stats) error {
	m.mu.Lock()
	m.ApplyStatsCalls = append(m.ApplyStatsCalls, deltas)
	m.mu.Unlock()
	if m.ApplyStatsFunc != nil {
		return m.ApplyStatsFunc(ctx, deltas)
	}
	return nil
}

func (m *MockStore) RecordResult(ctx context.Context, match *Match, deltas map[string]Stats) error {
	m.mu.Lock()
	m.RecordResultCalls = append(m.RecordResultCalls, RecordResultCall{Match: match, Deltas: deltas})
	m.mu.Unlock()
	if m.RecordResultFunc != nil {
		return m.RecordResultFunc(ctx, match, deltas)
	}
	return nil
}

func (m *MockStore) RebuildStats(ctx context.Context, replay func([]Match) map[string]Stats) error {
	m.mu.Lock()
	m.RebuildStatsCalls++
	m.mu.Unlock()
	if m.RebuildStatsFunc != nil {
		return m.RebuildStatsFunc(ctx, replay)
	}
	return nil
}

func (m *MockStore) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
