package recompute

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = 24 * time.Hour

var (
	ErrAlreadyStarted = errors.New("recompute runner already started")
	ErrStopped        = errors.New("recompute runner already stopped")
)

// Runner periodically invokes a full ranking recompute.
type Runner struct {
	recomputer  Recomputer
	interval    time.Duration
	metrics     Metrics
	counters    Counters
	afterRun    func(ctx context.Context)
	stopTimeout time.Duration
	now         func() time.Time

	mu        sync.Mutex
	started   bool
	ctx       context.Context
	cancel    context.CancelFunc
	scheduler gocron.Scheduler
	stopOnce  sync.Once
	stopErr   error
	done      chan struct{}
	status    Status
}

// Option configures a Runner.
type Option func(*Runner)

// Status describes the runner and its most recent iteration.
type Status struct {
	Interval  string     `json:"interval"`
	Running   bool       `json:"running"`
	Runs      int        `json:"runs"`
	Failures  int        `json:"failures"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}
