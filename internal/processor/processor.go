package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/pubsub"
)

// New creates a new Processor.
func New(store Store, ranker Ranker, notifier Notifier, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:    store,
		ranker:   ranker,
		pubsub:   pubsub,
		notifier: notifier,
		now:      time.Now,
	}
}

// MatchScheduled announces a newly booked match. Notification failures are
// logged and never fail the booking.
func (p *Processor) MatchScheduled(ctx context.Context, match *league.Match, dryRun bool) {
	log.Info("Match is new. Sending booking notification.", "matchID", match.ID)
	if err := p.notifier.SendMatchScheduled(match, dryRun); err != nil {
		log.Error("Failed to send booking notification", "error", err, "matchID", match.ID)
	}
}

// MatchCompleted publishes a match-completed event for a result that has
// already been recorded with its ranking change. A lost event only loses the
// announcement, so publish failures are logged.
func (p *Processor) MatchCompleted(ctx context.Context, match *league.Match, dryRun bool) {
	if match.WinnerID == nil {
		log.Debug("Match has no winner. Nothing to announce.", "matchID", match.ID)
		return
	}

	event := pubsub.MatchCompletedEvent{
		MatchID:  match.ID,
		WinnerID: *match.WinnerID,
		LoserID:  match.Opponent(*match.WinnerID),
		DryRun:   dryRun,
	}
	if match.EndTime != nil {
		event.EndTime = match.EndTime.UnixMilli()
	}
	if err := p.pubsub.SendMessage(ctx, pubsub.EventMatchCompleted, event); err != nil {
		log.Error("Failed to publish match completed event", "error", err, "matchID", match.ID)
	}
}

// HandleMatchCompleted consumes a match-completed event and sends the result notification.
func (p *Processor) HandleMatchCompleted(ctx context.Context, event pubsub.MatchCompletedEvent) error {
	match, err := p.store.GetMatch(ctx, event.MatchID)
	if errors.Is(err, league.ErrNotFound) {
		log.Warn("Match from event no longer exists", "matchID", event.MatchID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load match %s: %w", event.MatchID, err)
	}

	if match.EndTime != nil && p.now().Sub(*match.EndTime) > resultNotifyWindow {
		log.Info("Match ended too long ago. Skipping result notification.", "matchID", match.ID, "ended", match.EndTime)
		return nil
	}

	log.Info("Match result is available. Sending result notification.", "matchID", match.ID)
	if err := p.notifier.SendMatchResult(match, event.DryRun); err != nil {
		return fmt.Errorf("failed to send result notification: %w", err)
	}
	return nil
}

// RankingRecomputed publishes a ranking-recomputed event after a full recompute.
func (p *Processor) RankingRecomputed(ctx context.Context) {
	event := pubsub.RankingRecomputedEvent{CompletedAt: p.now().UnixMilli()}
	if err := p.pubsub.SendMessage(ctx, pubsub.EventRankingRecomputed, event); err != nil {
		log.Error("Failed to publish ranking recomputed event", "error", err)
	}
}

// HandleRankingRecomputed posts the current leaderboard.
func (p *Processor) HandleRankingRecomputed(ctx context.Context, event pubsub.RankingRecomputedEvent, dryRun bool) error {
	players, err := p.ranker.GetRankedPlayers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}
	log.Info("Posting leaderboard", "players", len(players), "recomputedAt", time.UnixMilli(event.CompletedAt).UTC())
	if err := p.notifier.SendLeaderboard(players, dryRun); err != nil {
		return fmt.Errorf("failed to send leaderboard: %w", err)
	}
	return nil
}

// Subscribe registers the processor's consumers on a local pubsub client.
func (p *Processor) Subscribe(local *pubsub.LocalClient) {
	local.Subscribe(pubsub.EventMatchCompleted, func(ctx context.Context, data []byte) error {
		var event pubsub.MatchCompletedEvent
		if err := local.ProcessMessage(data, &event); err != nil {
			return err
		}
		return p.HandleMatchCompleted(ctx, event)
	})
	local.Subscribe(pubsub.EventRankingRecomputed, func(ctx context.Context, data []byte) error {
		var event pubsub.RankingRecomputedEvent
		if err := local.ProcessMessage(data, &event); err != nil {
			return err
		}
		return p.HandleRankingRecomputed(ctx, event, false)
	})
}
