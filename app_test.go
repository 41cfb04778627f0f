package main

import (
	"IntervalTimers/config"
	"IntervalTimers/timer"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *AppManager {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "timers.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := NewAppManager(context.Background(), cfg, content, logger, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAppManager_LoadsPresets(t *testing.T) {
	a := newTestApp(t)

	require.NotEmpty(t, a.Presets())
	p, ok := a.FindPreset("TABATA")
	require.True(t, ok)
	assert.Equal(t, "Tabata", p.Name)
	assert.Len(t, timer.Expand(p.Instructions), 16)
}

func TestAppManager_ResolveSteps(t *testing.T) {
	a := newTestApp(t)
	saved, err := a.Session().Save(context.Background(), "Short", []timer.Instruction{timer.Wait(5)})
	require.NoError(t, err)

	tests := []struct {
		name  string
		args  []string
		title string
		seq   []int
	}{
		{name: "saved by id", args: []string{"1"}, title: "Short", seq: []int{5}},
		{name: "saved by name", args: []string{"short"}, title: "Short", seq: []int{5}},
		{name: "preset", args: []string{"emom 10"}, title: "EMOM 10", seq: []int{60, 60, 60, 60, 60, 60, 60, 60, 60, 60}},
		{name: "inline", args: []string{"2", "x1"}, title: "00:02 x1", seq: []int{2, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			instructions, title, err := a.ResolveSteps(tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.title, title)
			assert.Equal(t, tc.seq, timer.Expand(instructions))
		})
	}
	assert.Equal(t, 1, saved.ID)
}

func TestAppManager_ResolveStepsErrors(t *testing.T) {
	a := newTestApp(t)

	_, _, err := a.ResolveSteps([]string{"Unknown"})
	assert.ErrorIs(t, err, ErrUnknownTimer)

	_, _, err = a.ResolveSteps([]string{"x2", "10"})
	assert.ErrorIs(t, err, timer.ErrNoWait)
}

func TestAppManager_RunThroughLoop(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-a.Loop().Done()
	})

	seen := make(chan timer.Snapshot, 8)
	a.Subscribe(func(s timer.Snapshot) {
		select {
		case seen <- s:
		default:
		}
	})
	require.NotNil(t, a.Logger())

	assert.ErrorIs(t, a.StartRun(nil), timer.ErrEmptySequence)
	require.NoError(t, a.StartRun([]int{30}))
	require.NoError(t, a.PatchRun(45))
	assert.Equal(t, 45, a.Loop().Snapshot().Remaining)
	require.NoError(t, a.StopRun())
	assert.Equal(t, timer.StateIdle, a.Loop().Snapshot().State)

	require.Eventually(t, func() bool { return len(seen) >= 3 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, timer.StateRunning, (<-seen).State)
}
