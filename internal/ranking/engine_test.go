package ranking_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/mauv0809/cue-league/internal/database"
	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/metrics"
	"github.com/mauv0809/cue-league/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 5, 18, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T, players ...string) (*ranking.Engine, league.Store, *metrics.Mock) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	store := league.New(db)
	for _, id := range players {
		require.NoError(t, store.CreatePlayer(context.Background(), &league.Player{ID: id, Name: id}))
	}
	m := metrics.NewMock()
	return ranking.New(store, m), store, m
}

func completed(t *testing.T, store league.Store, id, p1, p2, winner string, offset time.Duration) {
	t.Helper()
	end := base.Add(offset + 45*time.Minute)
	w := winner
	require.NoError(t, store.CreateMatch(context.Background(), &league.Match{
		ID: id, Player1ID: p1, Player2ID: p2, StartTime: base.Add(offset), EndTime: &end, WinnerID: &w,
	}))
}

func statsOf(t *testing.T, store league.Store, id string) league.Stats {
	t.Helper()
	p, err := store.GetPlayer(context.Background(), id)
	require.NoError(t, err)
	return league.Stats{Wins: p.Wins, Losses: p.Losses, Ranking: p.Ranking}
}

func TestRecomputeAllScenario(t *testing.T) {
	engine, store, _ := setup(t, "A", "B", "C")
	ctx := context.Background()

	completed(t, store, "m1", "A", "B", "A", 0)
	completed(t, store, "m2", "C", "B", "C", time.Hour)
	completed(t, store, "m3", "A", "C", "A", 2*time.Hour)
	// Stale values must be wiped by the recompute.
	require.NoError(t, store.ApplyStats(ctx, map[string]league.Stats{"B": {Wins: 9, Ranking: 9}}))

	require.NoError(t, engine.RecomputeAll(ctx))

	assert.Equal(t, league.Stats{Wins: 2, Losses: 0, Ranking: 2}, statsOf(t, store, "A"))
	assert.Equal(t, league.Stats{Wins: 0, Losses: 2, Ranking: 0}, statsOf(t, store, "B"))
	assert.Equal(t, league.Stats{Wins: 1, Losses: 1, Ranking: 1}, statsOf(t, store, "C"))

	ranked, err := engine.GetRankedPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"A", "C", "B"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestRecomputeAllIgnoresMatchesWithoutWinner(t *testing.T) {
	engine, store, _ := setup(t, "A", "B")
	ctx := context.Background()

	require.NoError(t, store.CreateMatch(ctx, &league.Match{ID: "open", Player1ID: "A", Player2ID: "B", StartTime: base}))
	w := "B"
	require.NoError(t, store.CreateMatch(ctx, &league.Match{ID: "no-end", Player1ID: "A", Player2ID: "B", StartTime: base.Add(2 * time.Hour), WinnerID: &w}))

	require.NoError(t, engine.RecomputeAll(ctx))

	assert.Equal(t, league.Stats{Losses: 1}, statsOf(t, store, "A"))
	assert.Equal(t, league.Stats{Wins: 1, Ranking: 1}, statsOf(t, store, "B"), "a winner without end time still counts")
}

func TestApplyMatchResult(t *testing.T) {
	engine, store, m := setup(t, "W", "L")
	ctx := context.Background()

	completed(t, store, "m1", "L", "W", "W", 0)
	require.NoError(t, engine.ApplyMatchResult(ctx, "m1"))

	assert.Equal(t, league.Stats{Wins: 1, Ranking: 1}, statsOf(t, store, "W"))
	assert.Equal(t, league.Stats{Losses: 1}, statsOf(t, store, "L"), "a loss never changes ranking")
	assert.Equal(t, 1, m.MatchResultsApplied())

	t.Run("not idempotent", func(t *testing.T) {
		require.NoError(t, engine.ApplyMatchResult(ctx, "m1"))
		assert.Equal(t, league.Stats{Wins: 2, Ranking: 2}, statsOf(t, store, "W"))
	})

	t.Run("no winner is a no-op", func(t *testing.T) {
		require.NoError(t, store.CreateMatch(ctx, &league.Match{ID: "open", Player1ID: "W", Player2ID: "L", StartTime: base.Add(3 * time.Hour)}))
		before := statsOf(t, store, "W")
		require.NoError(t, engine.ApplyMatchResult(ctx, "open"))
		assert.Equal(t, before, statsOf(t, store, "W"))
	})

	t.Run("missing match is a no-op", func(t *testing.T) {
		assert.NoError(t, engine.ApplyMatchResult(ctx, "ghost"))
	})
}

func TestIncrementalAndRecomputeConverge(t *testing.T) {
	engine, store, _ := setup(t, "A", "B", "C", "D")
	ctx := context.Background()

	results := []struct{ id, p1, p2, winner string }{
		{"m1", "A", "B", "B"},
		{"m2", "C", "D", "C"},
		{"m3", "A", "C", "A"},
		{"m4", "B", "D", "D"},
		{"m5", "B", "C", "B"},
	}
	for i, r := range results {
		completed(t, store, r.id, r.p1, r.p2, r.winner, time.Duration(i)*time.Hour)
		require.NoError(t, engine.ApplyMatchResult(ctx, r.id))
	}

	incremental := map[string]league.Stats{}
	for _, id := range []string{"A", "B", "C", "D"} {
		incremental[id] = statsOf(t, store, id)
	}

	require.NoError(t, engine.RecomputeAll(ctx))
	for id, want := range incremental {
		assert.Equal(t, want, statsOf(t, store, id), "player %s", id)
	}
}

func TestRankingOrderIndependentOfCreation(t *testing.T) {
	engine, store, _ := setup(t, "p-low", "p-high", "p-mid")
	ctx := context.Background()

	require.NoError(t, store.ApplyStats(ctx, map[string]league.Stats{
		"p-low":  {Ranking: 10},
		"p-high": {Ranking: 100},
		"p-mid":  {Ranking: 50},
	}))

	ranked, err := engine.GetRankedPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, []int{100, 50, 10}, []int{ranked[0].Ranking, ranked[1].Ranking, ranked[2].Ranking})
}

func TestReplayPermutationInvariant(t *testing.T) {
	players := []string{"A", "B", "C", "D", "E"}
	rng := rand.New(rand.NewSource(42))

	var history []league.Match
	for i := 0; i < 40; i++ {
		p1 := players[rng.Intn(len(players))]
		p2 := players[rng.Intn(len(players))]
		for p2 == p1 {
			p2 = players[rng.Intn(len(players))]
		}
		m := league.Match{ID: string(rune('a' + i%26)) + string(rune('0'+i/26)), Player1ID: p1, Player2ID: p2}
		if i%7 != 0 {
			w := p1
			if rng.Intn(2) == 0 {
				w = p2
			}
			m.WinnerID = &w
		}
		if i%5 != 0 {
			end := base.Add(time.Duration(rng.Intn(1000)) * time.Minute)
			m.EndTime = &end
		}
		history = append(history, m)
	}

	want := ranking.Replay(history)
	for i := 0; i < 10; i++ {
		shuffled := append([]league.Match(nil), history...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, ranking.Replay(shuffled))
	}

	var wins, losses int
	for _, s := range want {
		wins += s.Wins
		losses += s.Losses
		assert.Equal(t, s.Wins, s.Ranking)
	}
	assert.Equal(t, wins, losses, "every win has exactly one matching loss")
}

func TestReplaySkipsInvalidWinner(t *testing.T) {
	outsider := "Z"
	got := ranking.Replay([]league.Match{{ID: "m", Player1ID: "A", Player2ID: "B", WinnerID: &outsider}})
	assert.Empty(t, got)
}

func TestEngineStoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")

	t.Run("recompute propagates", func(t *testing.T) {
		store := league.NewMock()
		store.RebuildStatsFunc = func(ctx context.Context, replay func([]league.Match) map[string]league.Stats) error {
			return boom
		}
		engine := ranking.New(store, metrics.NewMock())
		assert.ErrorIs(t, engine.RecomputeAll(ctx), boom)
	})

	t.Run("apply propagates", func(t *testing.T) {
		store := league.NewMock()
		w := "A"
		store.GetMatchFunc = func(ctx context.Context, id string) (*league.Match, error) {
			return &league.Match{ID: id, Player1ID: "A", Player2ID: "B", WinnerID: &w}, nil
		}
		store.ApplyStatsFunc = func(ctx context.Context, deltas map[string]league.Stats) error {
			return boom
		}
		m := metrics.NewMock()
		engine := ranking.New(store, m)
		assert.ErrorIs(t, engine.ApplyMatchResult(ctx, "m1"), boom)
		assert.Equal(t, 0, m.MatchResultsApplied())
		require.Len(t, store.ApplyStatsCalls, 1)
		assert.Equal(t, map[string]league.Stats{"A": {Wins: 1, Ranking: 1}, "B": {Losses: 1}}, store.ApplyStatsCalls[0])
	})

	t.Run("load failure propagates", func(t *testing.T) {
		store := league.NewMock()
		store.GetMatchFunc = func(ctx context.Context, id string) (*league.Match, error) {
			return nil, boom
		}
		engine := ranking.New(store, metrics.NewMock())
		assert.ErrorIs(t, engine.ApplyMatchResult(ctx, "m1"), boom)
		assert.Empty(t, store.ApplyStatsCalls)
	})
}

func TestRecomputeFailureLeavesStatsUntouched(t *testing.T) {
	engine, store, _ := setup(t, "A", "B")
	ctx := context.Background()

	completed(t, store, "m1", "A", "B", "A", 0)
	require.NoError(t, engine.ApplyMatchResult(ctx, "m1"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, engine.RecomputeAll(cancelled))

	assert.Equal(t, league.Stats{Wins: 1, Ranking: 1}, statsOf(t, store, "A"))
}

func TestConcurrentApplyAndRecompute(t *testing.T) {
	engine, store, _ := setup(t, "A", "B")
	ctx := context.Background()

	const n = 20
	for i := 0; i < n; i++ {
		completed(t, store, "m"+string(rune('a'+i)), "A", "B", "A", time.Duration(i)*time.Hour)
	}

	done := make(chan error, n+5)
	for i := 0; i < 5; i++ {
		go func() { done <- engine.RecomputeAll(ctx) }()
	}
	for i := 0; i < n; i++ {
		id := "m" + string(rune('a'+i))
		go func() { done <- engine.ApplyMatchResult(ctx, id) }()
	}
	for i := 0; i < n+5; i++ {
		require.NoError(t, <-done)
	}

	require.NoError(t, engine.RecomputeAll(ctx))
	assert.Equal(t, league.Stats{Wins: n, Ranking: n}, statsOf(t, store, "A"))
	assert.Equal(t, league.Stats{Losses: n}, statsOf(t, store, "B"))
}

func TestRecordResult(t *testing.T) {
	ctx := context.Background()

	t.Run("writes winner and stats together", func(t *testing.T) {
		engine, store, m := setup(t, "A", "B")
		require.NoError(t, store.CreateMatch(ctx, &league.Match{ID: "m1", Player1ID: "A", Player2ID: "B", StartTime: base}))

		match, err := store.GetMatch(ctx, "m1")
		require.NoError(t, err)
		w := "B"
		match.WinnerID = &w
		require.NoError(t, engine.RecordResult(ctx, match))

		assert.Equal(t, league.Stats{Wins: 1, Ranking: 1}, statsOf(t, store, "B"))
		assert.Equal(t, league.Stats{Losses: 1}, statsOf(t, store, "A"))
		assert.Equal(t, 1, m.MatchResultsApplied())

		require.NoError(t, engine.RecomputeAll(ctx))
		assert.Equal(t, league.Stats{Wins: 1, Ranking: 1}, statsOf(t, store, "B"))
	})

	t.Run("rejects a winner outside the match", func(t *testing.T) {
		store := league.NewMock()
		engine := ranking.New(store, metrics.NewMock())
		outsider := "Z"
		err := engine.RecordResult(ctx, &league.Match{ID: "m1", Player1ID: "A", Player2ID: "B", WinnerID: &outsider})
		assert.ErrorIs(t, err, league.ErrInvalidWinner)
		assert.Empty(t, store.RecordResultCalls)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		boom := errors.New("disk on fire")
		store := league.NewMock()
		store.RecordResultFunc = func(ctx context.Context, m *league.Match, deltas map[string]league.Stats) error {
			return boom
		}
		m := metrics.NewMock()
		engine := ranking.New(store, m)
		w := "A"
		assert.ErrorIs(t, engine.RecordResult(ctx, &league.Match{ID: "m1", Player1ID: "A", Player2ID: "B", WinnerID: &w}), boom)
		assert.Equal(t, 0, m.MatchResultsApplied())
		require.Len(t, store.RecordResultCalls, 1)
		assert.Equal(t, map[string]league.Stats{"A": {Wins: 1, Ranking: 1}, "B": {Losses: 1}}, store.RecordResultCalls[0].Deltas)
	})
}
