package tui

import (
	"IntervalTimers/timer"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

type snapshotMsg timer.Snapshot

// actionResultMsg carries the outcome of a Stop or Patch issued from a key.
type actionResultMsg struct {
	err error
}

type model struct {
	ctrl    Controller
	title   string
	snap    timer.Snapshot
	err     error
	width   int
	help    help.Model
	updates <-chan timer.Snapshot
	done    <-chan struct{}
}

func newModel(c Controller, title string, updates <-chan timer.Snapshot, done <-chan struct{}) model {
	return model{
		ctrl:    c,
		title:   title,
		snap:    c.Snapshot(),
		help:    help.New(),
		updates: updates,
		done:    done,
	}
}

// listen waits for the next snapshot, or does nothing without a feed.
func (m model) listen() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return waitForSnapshot(m.updates, m.done)
}
