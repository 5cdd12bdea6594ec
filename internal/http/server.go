package http

import (
	"net/http"

	"github.com/mauv0809/cue-league/internal/http/handlers"
)

func NewServer(deps Dependencies) *Server {
	server := &Server{
		deps:   deps,
		Router: http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	d := s.deps
	s.handle("GET /metrics", d.MetricsHandler)
	s.handle("GET /health", Chain(handlers.HealthCheckHandler(d.Store), paramsMiddleware))

	s.handle("GET /api/players", Chain(handlers.ListPlayersHandler(d.Store), paramsMiddleware))
	s.handle("POST /api/players", Chain(handlers.CreatePlayerHandler(d.Store), paramsMiddleware))
	s.handle("GET /api/players/{id}", Chain(handlers.GetPlayerHandler(d.Store), paramsMiddleware))
	s.handle("PUT /api/players/{id}", Chain(handlers.UpdatePlayerHandler(d.Store), paramsMiddleware))
	s.handle("DELETE /api/players/{id}", Chain(handlers.DeletePlayerHandler(d.Store), paramsMiddleware))

	s.handle("GET /api/matches", Chain(handlers.ListMatchesHandler(d.Booking), paramsMiddleware))
	s.handle("POST /api/matches", Chain(handlers.CreateMatchHandler(d.Booking, d.Events), paramsMiddleware))
	s.handle("GET /api/matches/conflicts", Chain(handlers.ConflictCheckHandler(d.Booking), paramsMiddleware))
	s.handle("GET /api/matches/{id}", Chain(handlers.GetMatchHandler(d.Booking), paramsMiddleware))
	s.handle("PUT /api/matches/{id}", Chain(handlers.UpdateMatchHandler(d.Booking, d.Events), paramsMiddleware))
	s.handle("DELETE /api/matches/{id}", Chain(handlers.DeleteMatchHandler(d.Booking), paramsMiddleware))

	s.handle("GET /api/ranking", Chain(handlers.RankingHandler(d.Ranking), paramsMiddleware))
	s.handle("POST /api/ranking/recalculate", Chain(handlers.RecalculateRankingHandler(d.Ranking, d.Events), paramsMiddleware))
	s.handle("GET /api/ranking/status", Chain(handlers.RankingStatusHandler(d.Runner), paramsMiddleware))

	s.handle("GET /api/s3/presigned-url", Chain(handlers.PresignedURLHandler(d.Uploader), paramsMiddleware))

	if secret := d.Cfg.Slack.SigningSecret; secret != "" {
		s.handle("POST /slack/command/leaderboard", Chain(handlers.LeaderboardCommandHandler(d.Ranking), paramsMiddleware, slackVerifier(secret)))
		s.handle("POST /slack/command/player-stats", Chain(handlers.PlayerStatsCommandHandler(d.Ranking), paramsMiddleware, slackVerifier(secret)))
	}

	s.handle("POST /pubsub/match-completed", Chain(handlers.MatchCompletedPushHandler(d.Events, d.PubSub), paramsMiddleware))
	s.handle("POST /pubsub/ranking-recomputed", Chain(handlers.RankingRecomputedPushHandler(d.Events, d.PubSub), paramsMiddleware))
}

func (s *Server) handle(pattern string, h http.Handler) {
	if h == nil {
		return
	}
	s.Router.Handle(pattern, h)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
