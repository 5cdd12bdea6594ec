package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	slacknotifier "github.com/mauv0809/cue-league/internal/notifier/slack"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler answers the /leaderboard slash command.
func LeaderboardCommandHandler(ranker Ranker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := ranker.GetRankedPlayers(r.Context())
		if err != nil {
			http.Error(w, "Failed to get ranking", http.StatusInternalServerError)
			log.Error("Failed to get ranking from store", "error", err)
			return
		}
		respondWithSlackMsg(w, slacknotifier.LeaderboardMessage(players))
	}
}

// PlayerStatsCommandHandler answers /player-stats <name>. Names match case-insensitively.
func PlayerStatsCommandHandler(ranker Ranker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		playerName := strings.Join(strings.Fields(cmd.Text), " ")
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName, "user", cmd.UserName)
		players, err := ranker.GetRankedPlayers(r.Context())
		if err != nil {
			http.Error(w, "Failed to get ranking", http.StatusInternalServerError)
			log.Error("Failed to get ranking from store", "error", err)
			return
		}

		for i, p := range players {
			if strings.EqualFold(p.Name, playerName) {
				respondWithSlackMsg(w, slacknotifier.PlayerStatsMessage(p, i+1))
				return
			}
		}
		log.Warn("Could not find player stats", "player", playerName)
		respondWithSlackMsg(w, slacknotifier.PlayerNotFoundMessage(playerName))
	}
}
