package pubsub

import (
	"sync"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client *pubsub.Client
}

// LocalClient delivers messages to in-process subscribers. It is used when no
// Google Cloud project is configured.
type LocalClient struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Subscriber
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchCompleted    EventType = "match-completed"
	EventRankingRecomputed EventType = "ranking-recomputed"
)

// MatchCompletedEvent is published when a match has its winner recorded.
type MatchCompletedEvent struct {
	MatchID  string `msgpack:"match_id"`
	WinnerID string `msgpack:"winner_id"`
	LoserID  string `msgpack:"loser_id"`
	// Unix milliseconds. Zero when the match has no end time.
	EndTime int64 `msgpack:"end_time"`
	DryRun  bool  `msgpack:"dry_run"`
}

// RankingRecomputedEvent is published after a successful full recompute.
type RankingRecomputedEvent struct {
	CompletedAt int64 `msgpack:"completed_at"`
}
