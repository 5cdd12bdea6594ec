package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/media"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, league.ErrValidation)
	}
	return nil
}

// writeError maps domain errors to status codes. Unexpected errors are logged
// and answered with a generic message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, league.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, league.ErrBookingConflict),
		errors.Is(err, league.ErrInvalidTransition),
		errors.Is(err, league.ErrPlayerInUse):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, league.ErrValidation),
		errors.Is(err, league.ErrSamePlayer),
		errors.Is(err, league.ErrInvalidWinner),
		errors.Is(err, league.ErrInvalidWindow),
		errors.Is(err, media.ErrMissingParameter):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error("Request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func parseTime(name, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp: %w", name, league.ErrValidation)
	}
	return t, nil
}
