package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/notifier"
	"github.com/mauv0809/cue-league/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 18, 12, 0, 0, 0, time.UTC)

type fakeRanker struct {
	players []league.Player
}

func (f *fakeRanker) GetRankedPlayers(ctx context.Context) ([]league.Player, error) {
	return f.players, nil
}

func wonMatch(end time.Time) *league.Match {
	w := "p2"
	return &league.Match{ID: "m1", Player1ID: "p1", Player2ID: "p2", StartTime: end.Add(-time.Hour), EndTime: &end, WinnerID: &w}
}

func newTestProcessor(store Store, ranker Ranker, notif Notifier, ps pubsub.PubSubClient) *Processor {
	p := New(store, ranker, notif, ps)
	p.now = func() time.Time { return now }
	return p
}

func TestMatchCompleted(t *testing.T) {
	t.Run("publishes event", func(t *testing.T) {
		ps := pubsub.NewMock()
		p := newTestProcessor(league.NewMock(), &fakeRanker{}, notifier.NewMock(), ps)

		m := wonMatch(now.Add(-time.Minute))
		p.MatchCompleted(context.Background(), m, true)

		calls := ps.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, pubsub.EventMatchCompleted, calls[0].Topic)
		assert.Equal(t, pubsub.MatchCompletedEvent{
			MatchID: "m1", WinnerID: "p2", LoserID: "p1", EndTime: m.EndTime.UnixMilli(), DryRun: true,
		}, calls[0].Data)
	})

	t.Run("no winner does nothing", func(t *testing.T) {
		ps := pubsub.NewMock()
		p := newTestProcessor(league.NewMock(), &fakeRanker{}, notifier.NewMock(), ps)

		p.MatchCompleted(context.Background(), &league.Match{ID: "m1"}, false)
		assert.Empty(t, ps.Calls())
	})

	t.Run("publish failure is swallowed", func(t *testing.T) {
		ps := pubsub.NewMock()
		ps.SendMessageFunc = func(pubsub.EventType, any) error { return errors.New("unavailable") }
		p := newTestProcessor(league.NewMock(), &fakeRanker{}, notifier.NewMock(), ps)

		assert.NotPanics(t, func() { p.MatchCompleted(context.Background(), wonMatch(now), false) })
		assert.Len(t, ps.Calls(), 1)
	})
}

func TestHandleMatchCompleted(t *testing.T) {
	ctx := context.Background()

	t.Run("recent result is announced", func(t *testing.T) {
		store := league.NewMock()
		store.GetMatchFunc = func(ctx context.Context, id string) (*league.Match, error) {
			return wonMatch(now.Add(-time.Hour)), nil
		}
		notif := notifier.NewMock()
		p := newTestProcessor(store, &fakeRanker{}, notif, pubsub.NewMock())

		require.NoError(t, p.HandleMatchCompleted(ctx, pubsub.MatchCompletedEvent{MatchID: "m1", DryRun: true}))
		assert.Equal(t, 1, notif.ResultCalls())
		assert.Equal(t, 1, notif.DryRunCalls)
	})

	t.Run("old result is not announced", func(t *testing.T) {
		store := league.NewMock()
		store.GetMatchFunc = func(ctx context.Context, id string) (*league.Match, error) {
			return wonMatch(now.Add(-48 * time.Hour)), nil
		}
		notif := notifier.NewMock()
		p := newTestProcessor(store, &fakeRanker{}, notif, pubsub.NewMock())

		require.NoError(t, p.HandleMatchCompleted(ctx, pubsub.MatchCompletedEvent{MatchID: "m1"}))
		assert.Equal(t, 0, notif.ResultCalls())
	})

	t.Run("deleted match is ignored", func(t *testing.T) {
		notif := notifier.NewMock()
		p := newTestProcessor(league.NewMock(), &fakeRanker{}, notif, pubsub.NewMock())

		require.NoError(t, p.HandleMatchCompleted(ctx, pubsub.MatchCompletedEvent{MatchID: "ghost"}))
		assert.Equal(t, 0, notif.ResultCalls())
	})

	t.Run("notifier failure propagates", func(t *testing.T) {
		store := league.NewMock()
		store.GetMatchFunc = func(ctx context.Context, id string) (*league.Match, error) {
			return wonMatch(now), nil
		}
		boom := errors.New("slack down")
		notif := notifier.NewMock()
		notif.SendMatchResultFunc = func(*league.Match, bool) error { return boom }
		p := newTestProcessor(store, &fakeRanker{}, notif, pubsub.NewMock())

		assert.ErrorIs(t, p.HandleMatchCompleted(ctx, pubsub.MatchCompletedEvent{MatchID: "m1"}), boom)
	})
}

func TestLocalPipeline(t *testing.T) {
	store := league.NewMock()
	store.GetMatchFunc = func(ctx context.Context, id string) (*league.Match, error) {
		return wonMatch(now.Add(-time.Minute)), nil
	}
	ranker := &fakeRanker{players: []league.Player{{ID: "p2", Ranking: 1}, {ID: "p1"}}}
	notif := notifier.NewMock()
	local := pubsub.NewLocal()
	p := newTestProcessor(store, ranker, notif, local)
	p.Subscribe(local)

	ctx := context.Background()
	p.MatchCompleted(ctx, wonMatch(now.Add(-time.Minute)), false)
	assert.Equal(t, 1, notif.ResultCalls(), "event delivered to the result consumer")

	p.RankingRecomputed(ctx)
	require.Equal(t, 1, notif.LeaderboardCalls())
	assert.Equal(t, ranker.players, notif.SendLeaderboardCalls[0])
}
