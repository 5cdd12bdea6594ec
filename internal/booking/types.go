package booking

import (
	"time"

	"github.com/mauv0809/cue-league/internal/league"
)

// Service validates and writes matches, keeping every player free of
// overlapping bookings.
type Service struct {
	store    Store
	recorder Recorder
	metrics  Metrics
	now      func() time.Time
	locks    *playerLocks
}

// Option configures a Service.
type Option func(*Service)

// NewMatch is a request to schedule a match.
type NewMatch struct {
	Player1ID   string
	Player2ID   string
	StartTime   time.Time
	TableNumber *int
}

// MatchUpdate carries the fields to change on a match. Nil fields are left as is.
type MatchUpdate struct {
	StartTime   *time.Time
	EndTime     *time.Time
	WinnerID    *string
	TableNumber *int
}

// Filter narrows ListMatches. A nil Date or empty Status is not applied.
type Filter struct {
	Date   *time.Time
	Status league.MatchStatus
}
