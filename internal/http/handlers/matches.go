package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mauv0809/cue-league/internal/booking"
	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/timeslot"
)

const dateLayout = "2006-01-02"

type createMatchRequest struct {
	Player1ID   string    `json:"player1Id"`
	Player2ID   string    `json:"player2Id"`
	StartTime   time.Time `json:"startTime"`
	TableNumber *int      `json:"tableNumber"`
}

type updateMatchRequest struct {
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	WinnerID    *string    `json:"winnerId"`
	TableNumber *int       `json:"tableNumber"`
}

// matchResponse adds the derived status to a match.
type matchResponse struct {
	league.Match
	Status league.MatchStatus `json:"status"`
}

func toResponse(m league.Match, now time.Time) matchResponse {
	return matchResponse{Match: m, Status: m.Status(now)}
}

func ListMatchesHandler(booker Booker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f booking.Filter
		q := r.URL.Query()
		if v := q.Get("date"); v != "" {
			d, err := time.Parse(dateLayout, v)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			f.Date = &d
		}
		if v := q.Get("status"); v != "" {
			status, ok := league.ParseMatchStatus(v)
			if !ok {
				http.Error(w, "status must be one of upcoming, ongoing, completed", http.StatusBadRequest)
				return
			}
			f.Status = status
		}

		matches, err := booker.ListMatches(r.Context(), f)
		if err != nil {
			writeError(w, err)
			return
		}
		now := time.Now()
		resp := make([]matchResponse, 0, len(matches))
		for _, m := range matches {
			resp = append(resp, toResponse(m, now))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func GetMatchHandler(booker Booker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := booker.GetMatch(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(*match, time.Now()))
	}
}

func CreateMatchHandler(booker Booker, events Events) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMatchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		match, err := booker.CreateMatch(r.Context(), booking.NewMatch{
			Player1ID:   req.Player1ID,
			Player2ID:   req.Player2ID,
			StartTime:   req.StartTime,
			TableNumber: req.TableNumber,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		events.MatchScheduled(r.Context(), match, IsDryRunFromContext(r))

		w.Header().Set("Location", "/api/matches/"+match.ID)
		writeJSON(w, http.StatusCreated, toResponse(*match, time.Now()))
	}
}

func UpdateMatchHandler(booker Booker, events Events) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateMatchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		match, newlyWon, err := booker.UpdateMatch(r.Context(), r.PathValue("id"), booking.MatchUpdate{
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			WinnerID:    req.WinnerID,
			TableNumber: req.TableNumber,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		if newlyWon {
			events.MatchCompleted(r.Context(), match, IsDryRunFromContext(r))
		}
		writeJSON(w, http.StatusOK, toResponse(*match, time.Now()))
	}
}

func DeleteMatchHandler(booker Booker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := booker.DeleteMatch(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ConflictCheckHandler answers whether a player is booked during [start, end).
// A missing end defaults to one hour after start.
func ConflictCheckHandler(booker Booker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		playerID := q.Get("playerId")
		if playerID == "" {
			writeError(w, fmt.Errorf("playerId is required: %w", league.ErrValidation))
			return
		}
		start, err := parseTime("start", q.Get("start"))
		if err != nil {
			writeError(w, err)
			return
		}
		end := start.Add(timeslot.DefaultDuration)
		if v := q.Get("end"); v != "" {
			if end, err = parseTime("end", v); err != nil {
				writeError(w, err)
				return
			}
		}
		if !end.After(start) {
			writeError(w, league.ErrInvalidWindow)
			return
		}

		conflict, err := booker.CheckConflict(r.Context(), playerID, start, end, q.Get("excludeMatchId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"conflict": conflict})
	}
}
