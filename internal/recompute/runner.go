package recompute

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/mauv0809/cue-league/internal/metrics"
)

const jobName = "ranking-recompute"

// New creates a Runner that recomputes every interval. A non-positive
// interval falls back to DefaultInterval.
func New(recomputer Recomputer, interval time.Duration, m Metrics, opts ...Option) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Runner{
		recomputer:  recomputer,
		interval:    interval,
		metrics:     m,
		stopTimeout: time.Minute,
		now:         time.Now,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithCounters persists the run count and last successful run time.
func WithCounters(c Counters) Option {
	return func(r *Runner) {
		r.counters = c
	}
}

// WithAfterRun registers a hook invoked after every successful recompute.
func WithAfterRun(fn func(ctx context.Context)) Option {
	return func(r *Runner) {
		r.afterRun = fn
	}
}

// WithStopTimeout bounds how long Stop waits for an in-flight recompute.
func WithStopTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.stopTimeout = d
	}
}

// Start schedules the first recompute immediately and then one every
// interval. Cancelling ctx stops the runner as if Stop had been called.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrAlreadyStarted
	}
	select {
	case <-r.done:
		return ErrStopped
	default:
	}

	s, err := gocron.NewScheduler(gocron.WithStopTimeout(r.stopTimeout))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	r.ctx, r.cancel = context.WithCancel(ctx)
	_, err = s.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(r.runOnce),
		gocron.WithName(jobName),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		// An iteration that outlasts the interval delays the next one.
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		r.cancel()
		_ = s.Shutdown()
		return fmt.Errorf("failed to schedule recompute job: %w", err)
	}

	r.scheduler = s
	r.started = true
	r.status.Running = true
	s.Start()

	go func() {
		<-r.ctx.Done()
		r.Stop()
	}()

	log.Info("Ranking recompute runner started", "interval", r.interval)
	return nil
}

// Stop prevents further iterations and waits for one in flight to finish.
// It is safe to call more than once.
func (r *Runner) Stop() error {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		s, cancel := r.scheduler, r.cancel
		r.status.Running = false
		r.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if s != nil {
			if err := s.Shutdown(); err != nil {
				r.stopErr = fmt.Errorf("failed to shut down scheduler: %w", err)
			}
		}
		close(r.done)
		log.Info("Ranking recompute runner stopped")
	})
	return r.stopErr
}

// Done is closed once the runner has stopped.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Status returns a snapshot of the runner state.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.status
	st.Interval = r.interval.String()
	if st.LastRun != nil {
		t := *st.LastRun
		st.LastRun = &t
	}
	return st
}

func (r *Runner) runOnce() {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()

	if ctx.Err() != nil {
		log.Debug("Runner stopping, skipping recompute")
		return
	}
	// Cancellation is only observed between iterations.
	runCtx := context.WithoutCancel(ctx)

	start := r.now()
	r.metrics.IncRecomputeRuns()
	err := r.recomputer.RecomputeAll(runCtx)
	elapsed := r.now().Sub(start)
	r.metrics.ObserveRecomputeDuration(elapsed.Seconds())

	r.mu.Lock()
	r.status.Runs++
	r.status.LastRun = &start
	if err != nil {
		r.status.Failures++
		r.status.LastError = err.Error()
	} else {
		r.status.LastError = ""
	}
	r.mu.Unlock()

	if err != nil {
		r.metrics.IncRecomputeFailures()
		log.Error("Scheduled ranking recompute failed, will retry next interval", "error", err, "next", r.interval)
		return
	}

	log.Info("Scheduled ranking recompute completed", "duration", elapsed, "next", r.interval)
	if r.counters != nil {
		r.counters.Increment(metrics.KeyRankingRecomputes)
		r.counters.Set(metrics.KeyRankingLastRecompute, start.UnixMilli())
	}
	if r.afterRun != nil {
		r.afterRun(runCtx)
	}
}
