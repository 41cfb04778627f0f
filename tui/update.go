package tui

import (
	"IntervalTimers/timer"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.listen()
}

// Update implements tea.Model. Stop and Patch run as commands so Update
// never waits on the run loop.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.snap = timer.Snapshot(msg)
		if m.snap.State == timer.StateFinished {
			return m, tea.Quit
		}
		return m, m.listen()

	case actionResultMsg:
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.snap.State == timer.StateRunning {
			return m, stopAndQuitCmd(m.ctrl)
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Stop):
		if m.snap.State == timer.StateRunning {
			return m, stopCmd(m.ctrl)
		}
		return m, nil

	case key.Matches(msg, keys.Plus):
		return m, patchCmd(m.ctrl, m.snap.Remaining+patchStep)

	case key.Matches(msg, keys.Minus):
		next := m.snap.Remaining - patchStep
		if next < 1 {
			next = 1
		}
		return m, patchCmd(m.ctrl, next)
	}
	return m, nil
}
