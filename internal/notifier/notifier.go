package notifier

import "github.com/mauv0809/cue-league/internal/league"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For newly booked matches
	SendMatchScheduled(match *league.Match, dryRun bool) error
	// For matches that just got a winner
	SendMatchResult(match *league.Match, dryRun bool) error
	// After a ranking recompute
	SendLeaderboard(players []league.Player, dryRun bool) error
}

// Noop discards every notification. It is used when Slack is not configured.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) SendMatchScheduled(*league.Match, bool) error { return nil }
func (Noop) SendMatchResult(*league.Match, bool) error    { return nil }
func (Noop) SendLeaderboard([]league.Player, bool) error  { return nil }
