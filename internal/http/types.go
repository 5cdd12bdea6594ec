package http

import (
	"net/http"

	"github.com/mauv0809/cue-league/internal/config"
	"github.com/mauv0809/cue-league/internal/http/handlers"
	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/media"
	"github.com/mauv0809/cue-league/internal/pubsub"
)

// Dependencies holds everything the routes are built from.
type Dependencies struct {
	Store          league.Store
	Booking        handlers.Booker
	Ranking        handlers.Ranker
	Runner         handlers.RunnerStatus
	Events         handlers.Events
	Uploader       media.Uploader
	PubSub         pubsub.PubSubClient
	MetricsHandler http.Handler
	Cfg            config.Config
}

type Server struct {
	deps   Dependencies
	Router *http.ServeMux
}
