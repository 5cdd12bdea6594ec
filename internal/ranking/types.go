package ranking

import "sync"

// Engine owns the ranking fields of every player. All writes to wins, losses
// and ranking go through it.
type Engine struct {
	store   Store
	metrics Metrics
	// mu serializes incremental updates against full recomputes.
	mu sync.Mutex
}
