package control

import (
	"IntervalTimers/timer"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

type tickerFactory struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (f *tickerFactory) New() Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time, 8)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *tickerFactory) Last() *manualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

func (f *tickerFactory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

type countingCue struct {
	mu    sync.Mutex
	steps []int
}

func (c *countingCue) PlayCue(step int, _ bool) error {
	c.mu.Lock()
	c.steps = append(c.steps, step)
	c.mu.Unlock()
	return nil
}

func (c *countingCue) Steps() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.steps...)
}

func startLoop(t *testing.T, cue timer.Cue) (*Loop, *tickerFactory, chan timer.Snapshot) {
	t.Helper()
	f := &tickerFactory{}
	l := NewLoop(cue, WithTicker(f.New))
	snaps := make(chan timer.Snapshot, 64)
	l.Subscribe(func(s timer.Snapshot) { snaps <- s })

	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l, f, snaps
}

func next(t *testing.T, snaps chan timer.Snapshot) timer.Snapshot {
	t.Helper()
	select {
	case s := <-snaps:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return timer.Snapshot{}
	}
}

func TestLoop_RunToFinish(t *testing.T) {
	cue := &countingCue{}
	l, f, snaps := startLoop(t, cue)

	require.NoError(t, l.Start([]int{2, 1}))
	s := next(t, snaps)
	assert.Equal(t, timer.StateRunning, s.State)
	assert.Equal(t, 2, s.Remaining)

	tk := f.Last()
	type pair struct{ index, remaining int }
	var got []pair
	for i := 0; i < 5; i++ {
		tk.ch <- time.Now()
		s = next(t, snaps)
		if s.State == timer.StateRunning {
			got = append(got, pair{s.Index, s.Remaining})
		}
	}

	assert.Equal(t, []pair{{0, 1}, {0, 0}, {1, 1}, {1, 0}}, got)
	assert.Equal(t, timer.StateFinished, s.State)
	assert.Equal(t, []int{0, 1}, cue.Steps())
	assert.True(t, tk.stopped.Load(), "ticker released on finish")
}

func TestLoop_StartEmptyStaysIdle(t *testing.T) {
	l, f, _ := startLoop(t, &countingCue{})

	assert.ErrorIs(t, l.Start(nil), timer.ErrEmptySequence)
	assert.Equal(t, timer.StateIdle, l.Snapshot().State)
	assert.Equal(t, 0, f.Count(), "no ticker for a rejected start")
}

func TestLoop_StopDiscardsPendingTicks(t *testing.T) {
	cue := &countingCue{}
	l, f, snaps := startLoop(t, cue)

	require.NoError(t, l.Start([]int{1, 1, 1}))
	next(t, snaps)
	tk := f.Last()

	require.NoError(t, l.Stop())
	stopped := next(t, snaps)
	assert.Equal(t, timer.StateIdle, stopped.State)
	assert.True(t, tk.stopped.Load())

	for i := 0; i < 3; i++ {
		tk.ch <- time.Now()
	}
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, stopped, l.Snapshot())
	assert.Empty(t, cue.Steps())
	assert.Len(t, snaps, 0, "no state change after stop")
}

func TestLoop_StopWhenIdle(t *testing.T) {
	l, _, _ := startLoop(t, &countingCue{})
	assert.ErrorIs(t, l.Stop(), timer.ErrNotRunning)
}

func TestLoop_Patch(t *testing.T) {
	l, f, snaps := startLoop(t, &countingCue{})

	assert.ErrorIs(t, l.Patch(10), timer.ErrNotRunning)

	require.NoError(t, l.Start([]int{5, 5}))
	next(t, snaps)
	f.Last().ch <- time.Now()
	next(t, snaps)

	require.NoError(t, l.Patch(30))
	s := next(t, snaps)
	assert.Equal(t, 30, s.Remaining)
	assert.Equal(t, []int{30, 5}, s.Sequence)
}

func TestLoop_RestartReplacesTicker(t *testing.T) {
	l, f, snaps := startLoop(t, &countingCue{})

	require.NoError(t, l.Start([]int{0}))
	next(t, snaps)
	first := f.Last()
	first.ch <- time.Now()
	assert.Equal(t, timer.StateFinished, next(t, snaps).State)

	require.NoError(t, l.Start([]int{3}))
	next(t, snaps)
	assert.Equal(t, 2, f.Count())
	assert.NotSame(t, first, f.Last())
}

func TestLoop_CancelStopsRun(t *testing.T) {
	f := &tickerFactory{}
	l := NewLoop(&countingCue{}, WithTicker(f.New))
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)

	require.NoError(t, l.Start([]int{10}))
	cancel()
	<-l.Done()

	assert.Equal(t, timer.StateIdle, l.Snapshot().State)
	assert.True(t, f.Last().stopped.Load())
	assert.ErrorIs(t, l.Start([]int{1}), ErrClosed)
}

func TestLoop_RepliesBeforeObserversRun(t *testing.T) {
	f := &tickerFactory{}
	l := NewLoop(&countingCue{}, WithTicker(f.New))
	release := make(chan struct{})
	var calls atomic.Int32
	l.Subscribe(func(timer.Snapshot) {
		calls.Add(1)
		<-release
	})

	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})

	errCh := make(chan error, 1)
	go func() { errCh <- l.Start([]int{5}) }()
	select {
	case err := <-errCh:
		close(release)
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("Start blocked until its observer returned")
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
}
