package league

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/cue-league/internal/timeslot"
)

// store handles all database operations for players and matches.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Player is a league member. Ranking, Wins and Losses are owned by the ranking engine.
type Player struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Ranking           int       `json:"ranking"`
	Wins              int       `json:"wins"`
	Losses            int       `json:"losses"`
	PreferredCue      *string   `json:"preferredCue,omitempty"`
	ProfilePictureURL string    `json:"profilePictureUrl"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Match is a game between two players on a table.
type Match struct {
	ID          string     `json:"id"`
	Player1ID   string     `json:"player1Id"`
	Player2ID   string     `json:"player2Id"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	WinnerID    *string    `json:"winnerId,omitempty"`
	TableNumber *int       `json:"tableNumber,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	// Populated on reads.
	Player1Name string  `json:"player1Name,omitempty"`
	Player2Name string  `json:"player2Name,omitempty"`
	WinnerName  *string `json:"winnerName,omitempty"`
}

// MatchStatus is derived from a match's timestamps. It is never stored.
type MatchStatus string

const (
	StatusUpcoming  MatchStatus = "upcoming"
	StatusOngoing   MatchStatus = "ongoing"
	StatusCompleted MatchStatus = "completed"
)

// ParseMatchStatus returns the status named by s and whether it is known.
func ParseMatchStatus(s string) (MatchStatus, bool) {
	switch MatchStatus(s) {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return MatchStatus(s), true
	}
	return "", false
}

// Status derives the match state at the given instant.
func (m Match) Status(now time.Time) MatchStatus {
	switch {
	case m.EndTime != nil:
		return StatusCompleted
	case m.StartTime.After(now):
		return StatusUpcoming
	default:
		return StatusOngoing
	}
}

// Window is the span the match occupies for conflict detection.
func (m Match) Window() timeslot.Window {
	return timeslot.Effective(m.StartTime, m.EndTime)
}

// HasPlayer reports whether playerID is one of the two participants.
func (m Match) HasPlayer(playerID string) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

// Opponent returns the other participant.
func (m Match) Opponent(playerID string) string {
	if m.Player1ID == playerID {
		return m.Player2ID
	}
	return m.Player1ID
}

// Stats are the ranking fields of a player.
type Stats struct {
	Wins    int `json:"wins"`
	Losses  int `json:"losses"`
	Ranking int `json:"ranking"`
}

// MatchFilter narrows ListMatches. Zero values are unbounded.
type MatchFilter struct {
	StartFrom   time.Time
	StartBefore time.Time
}
