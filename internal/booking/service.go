package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/timeslot"
)

// New creates a new booking Service.
func New(store Store, recorder Recorder, metrics Metrics, opts ...Option) *Service {
	s := &Service{
		store:    store,
		recorder: recorder,
		metrics:  metrics,
		now:      time.Now,
		locks:    newPlayerLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithClock sets the source of the current time used for lifecycle checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// CheckConflict reports whether any of the player's matches, other than
// excludeMatchID, occupies a window overlapping [start, end).
func (s *Service) CheckConflict(ctx context.Context, playerID string, start, end time.Time, excludeMatchID string) (bool, error) {
	matches, err := s.store.GetMatchesForPlayer(ctx, playerID)
	if err != nil {
		return false, fmt.Errorf("failed to load matches for player %s: %w", playerID, err)
	}
	return conflicts(matches, timeslot.New(start, end), excludeMatchID) != nil, nil
}

// conflicts returns the first match overlapping the candidate window.
func conflicts(matches []league.Match, candidate timeslot.Window, excludeMatchID string) *league.Match {
	for i := range matches {
		if excludeMatchID != "" && matches[i].ID == excludeMatchID {
			continue
		}
		if matches[i].Window().Overlaps(candidate) {
			return &matches[i]
		}
	}
	return nil
}

// ensureFree fails with ErrBookingConflict if any of the players is booked
// during the candidate window. Callers must hold the players' locks.
func (s *Service) ensureFree(ctx context.Context, candidate timeslot.Window, excludeMatchID string, playerIDs ...string) error {
	for _, playerID := range playerIDs {
		matches, err := s.store.GetMatchesForPlayer(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to load matches for player %s: %w", playerID, err)
		}
		if clash := conflicts(matches, candidate, excludeMatchID); clash != nil {
			log.Warn("Rejected double booking",
				"playerID", playerID, "conflictingMatchID", clash.ID,
				"start", candidate.Start, "end", candidate.End)
			s.metrics.IncBookingConflicts()
			return fmt.Errorf("player %s overlaps match %s: %w", playerID, clash.ID, league.ErrBookingConflict)
		}
	}
	return nil
}

// CreateMatch schedules a new match if neither player is booked during
// [start, start+1h).
func (s *Service) CreateMatch(ctx context.Context, req NewMatch) (*league.Match, error) {
	if req.Player1ID == "" || req.Player2ID == "" {
		return nil, fmt.Errorf("both players are required: %w", league.ErrValidation)
	}
	if req.Player1ID == req.Player2ID {
		return nil, league.ErrSamePlayer
	}
	if req.StartTime.IsZero() {
		return nil, fmt.Errorf("start time is required: %w", league.ErrValidation)
	}
	for _, id := range []string{req.Player1ID, req.Player2ID} {
		if _, err := s.store.GetPlayer(ctx, id); err != nil {
			return nil, err
		}
	}

	unlock := s.locks.lock(req.Player1ID, req.Player2ID)
	defer unlock()

	candidate := timeslot.Effective(req.StartTime, nil)
	if err := s.ensureFree(ctx, candidate, "", req.Player1ID, req.Player2ID); err != nil {
		return nil, err
	}

	m := &league.Match{
		Player1ID:   req.Player1ID,
		Player2ID:   req.Player2ID,
		StartTime:   req.StartTime.UTC(),
		TableNumber: req.TableNumber,
	}
	if err := s.store.CreateMatch(ctx, m); err != nil {
		return nil, err
	}
	log.Info("Scheduled match", "matchID", m.ID, "player1", m.Player1ID, "player2", m.Player2ID, "start", m.StartTime)
	return s.store.GetMatch(ctx, m.ID)
}

// UpdateMatch applies the update to a match. A changed start time is checked
// for conflicts against both participants' other matches, using the match's
// end after the update. A winner recorded for the first time is written
// together with its ranking change by the recorder. The returned flag reports
// that case.
func (s *Service) UpdateMatch(ctx context.Context, id string, upd MatchUpdate) (*league.Match, bool, error) {
	existing, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return nil, false, err
	}

	unlock := s.locks.lock(existing.Player1ID, existing.Player2ID)
	defer unlock()

	// Reload under the lock so the checks below see the latest state.
	m, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return nil, false, err
	}

	start := m.StartTime
	if upd.StartTime != nil {
		start = upd.StartTime.UTC()
	}
	end := m.EndTime
	if upd.EndTime != nil {
		e := upd.EndTime.UTC()
		end = &e
	}
	window := timeslot.Effective(start, end)
	if !window.Valid() {
		return nil, false, fmt.Errorf("match %s would end before it starts: %w", m.ID, league.ErrInvalidWindow)
	}
	if !start.Equal(m.StartTime) {
		if err := s.ensureFree(ctx, window, m.ID, m.Player1ID, m.Player2ID); err != nil {
			return nil, false, err
		}
	}
	m.StartTime = start
	m.EndTime = end

	newlyWon := false
	if upd.WinnerID != nil {
		winner := *upd.WinnerID
		if !m.HasPlayer(winner) {
			return nil, false, league.ErrInvalidWinner
		}
		switch {
		case m.WinnerID == nil:
			m.WinnerID = &winner
			newlyWon = true
		case *m.WinnerID != winner:
			return nil, false, fmt.Errorf("match %s already won by %s: %w", m.ID, *m.WinnerID, league.ErrInvalidTransition)
		}
	}

	if upd.TableNumber != nil {
		m.TableNumber = upd.TableNumber
	}

	if newlyWon {
		err = s.recorder.RecordResult(ctx, m)
	} else {
		err = s.store.UpdateMatch(ctx, m)
	}
	if err != nil {
		return nil, false, err
	}
	log.Info("Updated match", "matchID", m.ID, "winnerRecorded", newlyWon)

	updated, err := s.store.GetMatch(ctx, m.ID)
	if err != nil {
		return nil, false, err
	}
	return updated, newlyWon, nil
}

// DeleteMatch removes a match that has not started yet.
func (s *Service) DeleteMatch(ctx context.Context, id string) error {
	existing, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(existing.Player1ID, existing.Player2ID)
	defer unlock()

	m, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return err
	}
	now := s.now()
	if status := m.Status(now); status != league.StatusUpcoming {
		return fmt.Errorf("match %s is %s: %w", id, status, league.ErrInvalidTransition)
	}

	if err := s.store.DeleteMatch(ctx, id); err != nil {
		return err
	}
	log.Info("Deleted match", "matchID", id)
	return nil
}

// GetMatch returns a single match.
func (s *Service) GetMatch(ctx context.Context, id string) (*league.Match, error) {
	return s.store.GetMatch(ctx, id)
}

// ListMatches returns matches starting on the filter's UTC day and in the
// filter's derived status.
func (s *Service) ListMatches(ctx context.Context, f Filter) ([]league.Match, error) {
	var sf league.MatchFilter
	if f.Date != nil {
		d := f.Date.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		sf.StartFrom = day
		sf.StartBefore = day.AddDate(0, 0, 1)
	}

	matches, err := s.store.ListMatches(ctx, sf)
	if err != nil {
		return nil, err
	}
	if f.Status == "" {
		return matches, nil
	}

	now := s.now()
	filtered := make([]league.Match, 0, len(matches))
	for _, m := range matches {
		if m.Status(now) == f.Status {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}
