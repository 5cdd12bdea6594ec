package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cue-league/internal/league"
)

func RankingHandler(ranker Ranker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := ranker.GetRankedPlayers(r.Context())
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

// RecalculateRankingHandler runs a full recompute synchronously.
func RecalculateRankingHandler(ranker Ranker, events Events) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Manual ranking recompute requested")
		if err := ranker.RecomputeAll(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		if !IsDryRunFromContext(r) {
			events.RankingRecomputed(r.Context())
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Rankings recalculated successfully"})
	}
}

func RankingStatusHandler(status RunnerStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, status.Status())
	}
}
