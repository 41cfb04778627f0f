package tui

import (
	"IntervalTimers/i18n"
	"IntervalTimers/timer"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(m.title))
	b.WriteString("\n\n")

	switch m.snap.State {
	case timer.StateRunning:
		b.WriteString(styles.Clock.Render(timer.FormatClock(m.snap.Remaining)))
		b.WriteString("\n")
		b.WriteString(styles.Step.Render(fmt.Sprintf(i18n.T("Step %d of %d"), m.snap.Current(), m.snap.Total)))
		b.WriteString("\n")
		b.WriteString(progressBar(m.snap))
		b.WriteString("  ")
		b.WriteString(styles.Step.Render(timer.FormatClock(m.snap.RemainingTotal())))
	case timer.StateFinished:
		b.WriteString(styles.Finished.Render(i18n.T("Finished")))
	default:
		b.WriteString(styles.Stopped.Render(i18n.T("Stopped")))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.Error.Render(m.err.Error()))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(keys))

	return lipgloss.NewStyle().Width(m.width).Render(styles.Container.Render(b.String()))
}

// progressBar shows how much of the whole sequence has elapsed.
func progressBar(s timer.Snapshot) string {
	total := timer.TotalSeconds(s.Sequence)
	if total == 0 {
		return ""
	}
	done := total - s.RemainingTotal()
	filled := done * barWidth / total
	if filled > barWidth {
		filled = barWidth
	}
	return styles.Bar.Render(strings.Repeat("█", filled)) +
		styles.BarEmpty.Render(strings.Repeat("░", barWidth-filled))
}
