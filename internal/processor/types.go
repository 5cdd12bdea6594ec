package processor

import (
	"time"

	"github.com/mauv0809/cue-league/internal/pubsub"
)

// resultNotifyWindow is how long after a match ends its result is still announced.
// Older results, e.g. from backfilled history, only update the ranking.
const resultNotifyWindow = 24 * time.Hour

// Processor reacts to match lifecycle events: it feeds results into the ranking
// and fans notifications out through pubsub.
type Processor struct {
	store    Store
	ranker   Ranker
	pubsub   pubsub.PubSubClient
	notifier Notifier
	now      func() time.Time
}
