// Package tui renders a running countdown in the terminal using bubbletea.
package tui

import (
	"IntervalTimers/timer"
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the part of control.Loop the view drives.
type Controller interface {
	Stop() error
	Patch(seconds int) error
	Subscribe(fn func(timer.Snapshot))
	Snapshot() timer.Snapshot
}

const (
	// patchStep is how much + and - change the current step.
	patchStep = 10
	// updateBuffer holds snapshots the view has not drawn yet.
	updateBuffer = 16
)

// Run shows the countdown for an already started run and blocks until the
// run finishes or the user quits. Quitting stops the run.
func Run(ctx context.Context, c Controller, title string) error {
	return run(ctx, c, title)
}

func run(ctx context.Context, c Controller, title string, opts ...tea.ProgramOption) error {
	updates := make(chan timer.Snapshot, updateBuffer)
	done := make(chan struct{})
	defer close(done)
	c.Subscribe(func(s timer.Snapshot) { offer(updates, s) })

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(newModel(c, title, updates, done), opts...)

	_, err := p.Run()
	if c.Snapshot().State == timer.StateRunning {
		_ = c.Stop()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// offer never blocks the loop goroutine. When the view falls behind the
// oldest snapshot is dropped; each one carries the full state.
func offer(ch chan timer.Snapshot, s timer.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// waitForSnapshot creates a command that waits for the next snapshot.
func waitForSnapshot(ch <-chan timer.Snapshot, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-ch:
			return snapshotMsg(s)
		case <-done:
			return nil
		}
	}
}

func stopCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		return actionResultMsg{err: c.Stop()}
	}
}

func stopAndQuitCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		_ = c.Stop()
		return tea.Quit()
	}
}

func patchCmd(c Controller, seconds int) tea.Cmd {
	return func() tea.Msg {
		return actionResultMsg{err: c.Patch(seconds)}
	}
}
