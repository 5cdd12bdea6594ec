package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

func HealthCheckHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		resp := healthResponse{Status: "ok", Database: "ok", Timestamp: time.Now().UTC()}
		if err := db.Ping(r.Context()); err != nil {
			log.Error("Health check database ping failed", "error", err)
			resp.Status, resp.Database = "degraded", "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
