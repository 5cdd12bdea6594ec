package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cue-league/internal/league"
)

// playerRequest is the body of player create and update requests. Ranking
// fields are not accepted; they are owned by the ranking engine.
type playerRequest struct {
	Name              string  `json:"name"`
	PreferredCue      *string `json:"preferredCue"`
	ProfilePictureURL string  `json:"profilePictureUrl"`
}

func (req playerRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required: %w", league.ErrValidation)
	}
	return nil
}

func ListPlayersHandler(store PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.ListPlayers(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if players == nil {
			players = []league.Player{}
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func GetPlayerHandler(store PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := store.GetPlayer(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func CreatePlayerHandler(store PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, err)
			return
		}

		player := &league.Player{
			Name:              strings.TrimSpace(req.Name),
			PreferredCue:      req.PreferredCue,
			ProfilePictureURL: req.ProfilePictureURL,
		}
		if err := store.CreatePlayer(r.Context(), player); err != nil {
			writeError(w, err)
			return
		}
		log.Info("Created player", "playerID", player.ID, "name", player.Name)
		w.Header().Set("Location", "/api/players/"+player.ID)
		writeJSON(w, http.StatusCreated, player)
	}
}

func UpdatePlayerHandler(store PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, err)
			return
		}

		id := r.PathValue("id")
		err := store.UpdatePlayer(r.Context(), &league.Player{
			ID:                id,
			Name:              strings.TrimSpace(req.Name),
			PreferredCue:      req.PreferredCue,
			ProfilePictureURL: req.ProfilePictureURL,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		player, err := store.GetPlayer(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func DeletePlayerHandler(store PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := store.DeletePlayer(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		log.Info("Deleted player", "playerID", id)
		w.WriteHeader(http.StatusNoContent)
	}
}
