// Package main wires the session, the run loop, the audio cue and the
// front ends (fyne window, terminal view, plain CLI) together.
//
// Maintenance notes:
//   - The run loop (control.Loop) is the only goroutine that mutates the
//     countdown. Everything here talks to it through Start/Stop/Patch, which
//     block for at most the loop's enqueue timeout.
//   - Observers registered with Subscribe run on the loop goroutine. The
//     window hops back onto the fyne thread with fyne.Do.
//   - The session and its SQLite store are opened once per process and
//     closed by AppManager.Close.
package main

import (
	"IntervalTimers/audio"
	"IntervalTimers/config"
	"IntervalTimers/control"
	"IntervalTimers/store"
	"IntervalTimers/timer"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrUnknownTimer is returned when a reference matches no saved timer or preset.
var ErrUnknownTimer = errors.New("no saved timer or preset with that name or id")

// AppManager holds the state shared by every front end.
type AppManager struct {
	store   store.Store
	session *store.Session
	loop    *control.Loop
	player  *audio.Player
	presets []timer.Preset
	logger  *slog.Logger
}

// NewAppManager opens the saved timer database and prepares the run loop.
// With mute set no speaker is opened.
func NewAppManager(ctx context.Context, cfg *config.Config, content timer.AppContentReader, logger *slog.Logger, mute bool) (*AppManager, error) {
	st, err := store.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	session, err := store.Open(ctx, st, logger)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to load saved timers: %w", err)
	}

	a := &AppManager{store: st, session: session, logger: logger}

	if content != nil {
		presets, err := timer.LoadPresets(content)
		if err != nil {
			logger.Warn("presets unavailable", "error", err)
		}
		a.presets = presets
		logger.Debug("presets loaded", "count", len(a.presets))
	}

	var cue timer.Cue = audio.Silent{}
	if !mute {
		a.player = audio.NewPlayer(cfg.Audio, logger)
		if a.player.Enabled() {
			cue = a.player
		}
	}
	a.loop = control.NewLoop(cue, control.WithLogger(logger))
	return a, nil
}

// Run processes run commands until ctx is cancelled.
func (a *AppManager) Run(ctx context.Context) {
	a.loop.Run(ctx)
}

// Close releases the speaker and the database.
func (a *AppManager) Close() error {
	if a.player != nil {
		a.player.Close()
	}
	return a.store.Close()
}

// Session returns the working list and saved timer library.
func (a *AppManager) Session() *store.Session {
	return a.session
}

// Presets returns the built-in timers.
func (a *AppManager) Presets() []timer.Preset {
	return a.presets
}

// Loop returns the run loop.
func (a *AppManager) Loop() *control.Loop {
	return a.loop
}

// Logger returns the application logger.
func (a *AppManager) Logger() *slog.Logger {
	return a.logger
}

// StartRun starts counting down seq.
func (a *AppManager) StartRun(seq []int) error {
	a.logger.Info("run starting", "steps", len(seq), "total", timer.TotalSeconds(seq))
	return a.loop.Start(seq)
}

// StopRun stops the current run.
func (a *AppManager) StopRun() error {
	return a.loop.Stop()
}

// PatchRun sets the seconds left in the current step.
func (a *AppManager) PatchRun(seconds int) error {
	return a.loop.Patch(seconds)
}

// Subscribe registers fn to receive a snapshot after every change.
func (a *AppManager) Subscribe(fn func(timer.Snapshot)) {
	a.loop.Subscribe(fn)
}

// FindPreset looks up a preset by case-insensitive name.
func (a *AppManager) FindPreset(name string) (timer.Preset, bool) {
	for _, p := range a.presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return timer.Preset{}, false
}

// ResolveSteps turns run arguments into instructions and a title. A single
// argument naming a saved timer (by id or name) or a preset wins over
// parsing it as a step.
func (a *AppManager) ResolveSteps(args []string) ([]timer.Instruction, string, error) {
	if len(args) == 1 {
		if t, ok := a.session.Resolve(args[0]); ok {
			return t.Instructions, t.Name, nil
		}
		if p, ok := a.FindPreset(args[0]); ok {
			return p.Instructions, p.Name, nil
		}
	}
	l, err := timer.ParseSteps(args)
	if err != nil {
		if len(args) == 1 {
			return nil, "", fmt.Errorf("%q: %w", args[0], ErrUnknownTimer)
		}
		return nil, "", err
	}
	instructions := l.Instructions()
	return instructions, timer.Describe(instructions), nil
}
