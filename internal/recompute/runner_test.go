package recompute

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	internalmetrics "github.com/mauv0809/cue-league/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecomputer struct {
	calls   atomic.Int32
	fail    atomic.Bool
	block   chan struct{}
	started chan struct{}
	ctxErrs []error
	mu      sync.Mutex
}

func (f *fakeRecomputer) RecomputeAll(ctx context.Context) error {
	n := f.calls.Add(1)
	if f.started != nil && n == 1 {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()
	if f.fail.Load() {
		return errors.New("store unavailable")
	}
	return nil
}

type fakeCounters struct {
	mu   sync.Mutex
	incs map[string]int
	sets map[string]int64
}

func (c *fakeCounters) Increment(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.incs[key]++
}

func (c *fakeCounters) Set(key string, value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets[key] = value
}

func (c *fakeCounters) get(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.incs[key]
}

func TestRunnerRunsImmediatelyAndRepeats(t *testing.T) {
	rec := &fakeRecomputer{}
	m := internalmetrics.NewMock()
	counters := &fakeCounters{incs: map[string]int{}, sets: map[string]int64{}}
	var hooks atomic.Int32

	r := New(rec, 20*time.Millisecond, m,
		WithCounters(counters),
		WithAfterRun(func(ctx context.Context) { hooks.Add(1) }),
	)
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.Eventually(t, func() bool { return rec.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return counters.get(internalmetrics.KeyRankingRecomputes) >= 3 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return hooks.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, m.RecomputeRuns(), 3)
	assert.Zero(t, m.RecomputeFailures())

	st := r.Status()
	assert.True(t, st.Running)
	assert.Equal(t, "20ms", st.Interval)
	assert.NotNil(t, st.LastRun)
}

func TestRunnerContinuesAfterFailure(t *testing.T) {
	rec := &fakeRecomputer{}
	rec.fail.Store(true)
	m := internalmetrics.NewMock()
	var hooks atomic.Int32

	r := New(rec, 20*time.Millisecond, m, WithAfterRun(func(ctx context.Context) { hooks.Add(1) }))
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.Eventually(t, func() bool { return rec.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, m.RecomputeFailures(), 2)
	assert.Zero(t, hooks.Load(), "hook only runs after success")
	assert.Equal(t, "store unavailable", r.Status().LastError)

	rec.fail.Store(false)
	require.Eventually(t, func() bool { return r.Status().LastError == "" }, 2*time.Second, 5*time.Millisecond)
}

func TestRunnerStopHaltsIterations(t *testing.T) {
	rec := &fakeRecomputer{}
	r := New(rec, 20*time.Millisecond, internalmetrics.NewMock())
	require.NoError(t, r.Start(context.Background()))

	require.Eventually(t, func() bool { return rec.calls.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, r.Stop())

	select {
	case <-r.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}

	after := rec.calls.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, after, rec.calls.Load(), "no iterations after stop")
	assert.False(t, r.Status().Running)

	assert.NoError(t, r.Stop(), "stop is idempotent")
	assert.ErrorIs(t, r.Start(context.Background()), ErrStopped)
}

func TestRunnerStopWaitsForInFlightRun(t *testing.T) {
	rec := &fakeRecomputer{block: make(chan struct{}), started: make(chan struct{})}
	r := New(rec, time.Hour, internalmetrics.NewMock())
	require.NoError(t, r.Start(context.Background()))

	select {
	case <-rec.started:
	case <-time.After(2 * time.Second):
		t.Fatal("recompute never started")
	}

	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a recompute was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(rec.block)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the recompute finished")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.ctxErrs, 1)
	assert.NoError(t, rec.ctxErrs[0], "in-flight recompute must not see cancellation")
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	rec := &fakeRecomputer{}
	r := New(rec, 20*time.Millisecond, internalmetrics.NewMock())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, r.Start(ctx))
	cancel()

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after context cancellation")
	}
}

func TestRunnerRejectsSecondStart(t *testing.T) {
	r := New(&fakeRecomputer{}, time.Hour, internalmetrics.NewMock())
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.ErrorIs(t, r.Start(context.Background()), ErrAlreadyStarted)
}

func TestNewDefaultsInterval(t *testing.T) {
	r := New(&fakeRecomputer{}, 0, internalmetrics.NewMock())
	assert.Equal(t, DefaultInterval, r.interval)

	r = New(&fakeRecomputer{}, -time.Minute, internalmetrics.NewMock())
	assert.Equal(t, DefaultInterval, r.interval)
}
