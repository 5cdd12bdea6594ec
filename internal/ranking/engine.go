package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cue-league/internal/league"
)

// New creates a new ranking Engine.
func New(store Store, metrics Metrics) *Engine {
	return &Engine{
		store:   store,
		metrics: metrics,
	}
}

// ApplyMatchResult folds one match's outcome into the participants' stats.
// A missing match or a match without a winner is a no-op. Applying the same
// match twice counts it twice.
func (e *Engine) ApplyMatchResult(ctx context.Context, matchID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.store.GetMatch(ctx, matchID)
	if errors.Is(err, league.ErrNotFound) {
		log.Warn("Match not found, skipping ranking update", "matchID", matchID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load match %s: %w", matchID, err)
	}

	deltas, ok := resultDeltas(*m)
	if !ok {
		log.Debug("Match has no result, skipping ranking update", "matchID", matchID)
		return nil
	}

	if err := e.store.ApplyStats(ctx, deltas); err != nil {
		log.Error("Failed to apply match result", "matchID", matchID, "error", err)
		return fmt.Errorf("failed to apply result of match %s: %w", matchID, err)
	}
	e.metrics.IncMatchResultsApplied()
	log.Info("Applied match result", "matchID", matchID, "winner", *m.WinnerID, "loser", m.Opponent(*m.WinnerID))
	return nil
}

// RecordResult stores a match whose winner was just set and applies its
// result to the participants' stats in the same transaction, so a recompute
// never sees the winner without the matching stats.
func (e *Engine) RecordResult(ctx context.Context, m *league.Match) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	deltas, ok := resultDeltas(*m)
	if !ok {
		return fmt.Errorf("match %s has no valid winner: %w", m.ID, league.ErrInvalidWinner)
	}
	if err := e.store.RecordResult(ctx, m, deltas); err != nil {
		log.Error("Failed to record match result", "matchID", m.ID, "error", err)
		return fmt.Errorf("failed to record result of match %s: %w", m.ID, err)
	}
	e.metrics.IncMatchResultsApplied()
	log.Info("Recorded match result", "matchID", m.ID, "winner", *m.WinnerID, "loser", m.Opponent(*m.WinnerID))
	return nil
}

// RecomputeAll rebuilds every player's stats from the full history of won
// matches in one transaction.
func (e *Engine) RecomputeAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	log.Info("Recomputing rankings from match history")
	var replayed int
	err := e.store.RebuildStats(ctx, func(matches []league.Match) map[string]league.Stats {
		replayed = len(matches)
		return Replay(matches)
	})
	if err != nil {
		log.Error("Ranking recompute failed", "error", err)
		return fmt.Errorf("failed to recompute rankings: %w", err)
	}
	log.Info("Ranking recompute finished", "matches", replayed)
	return nil
}

// GetRankedPlayers returns players by ranking descending, ties by id ascending.
func (e *Engine) GetRankedPlayers(ctx context.Context) ([]league.Player, error) {
	players, err := e.store.GetPlayersByRanking(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranked players: %w", err)
	}
	return players, nil
}

// Replay computes the stats produced by applying each won match in order of
// completion. Matches without an end time come last, and equal keys are
// ordered by id, so the replay order is deterministic.
func Replay(matches []league.Match) map[string]league.Stats {
	ordered := make([]league.Match, 0, len(matches))
	for _, m := range matches {
		if m.WinnerID != nil {
			ordered = append(ordered, m)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		switch {
		case a.EndTime == nil && b.EndTime == nil:
			return a.ID < b.ID
		case a.EndTime == nil:
			return false
		case b.EndTime == nil:
			return true
		case !a.EndTime.Equal(*b.EndTime):
			return a.EndTime.Before(*b.EndTime)
		default:
			return a.ID < b.ID
		}
	})

	totals := make(map[string]league.Stats)
	for _, m := range ordered {
		deltas, ok := resultDeltas(m)
		if !ok {
			continue
		}
		for id, d := range deltas {
			t := totals[id]
			t.Wins += d.Wins
			t.Losses += d.Losses
			t.Ranking += d.Ranking
			totals[id] = t
		}
	}
	return totals
}

// resultDeltas is the effect of one match: the winner gains a win and a
// ranking point, the other participant gains a loss.
func resultDeltas(m league.Match) (map[string]league.Stats, bool) {
	if m.WinnerID == nil {
		return nil, false
	}
	winner := *m.WinnerID
	if !m.HasPlayer(winner) {
		log.Warn("Winner is not a participant, skipping match", "matchID", m.ID, "winner", winner)
		return nil, false
	}
	return map[string]league.Stats{
		winner:             {Wins: 1, Ranking: 1},
		m.Opponent(winner): {Losses: 1},
	}, true
}
