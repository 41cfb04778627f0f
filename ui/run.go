package ui

import (
	"IntervalTimers/i18n"
	"IntervalTimers/timer"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// RunPanel shows the countdown of the active run.
type RunPanel struct {
	mw      *MainWindow
	clock   *canvas.Text
	step    *widget.Label
	total   *widget.Label
	start   *widget.Button
	stop    *widget.Button
	patch   *widget.Button
	snap    timer.Snapshot
	content fyne.CanvasObject
}

func NewRunPanel(mw *MainWindow) *RunPanel {
	r := &RunPanel{mw: mw}

	r.clock = canvas.NewText(timer.FormatClock(0), theme.Color(theme.ColorNameForeground))
	r.clock.TextSize = ClockSize
	r.clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	r.clock.Alignment = fyne.TextAlignCenter

	r.step = widget.NewLabelWithStyle(i18n.T("Ready"), fyne.TextAlignCenter, fyne.TextStyle{})
	r.total = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})

	r.start = widget.NewButtonWithIcon(i18n.T("Start"), theme.MediaPlayIcon(), r.Start)
	r.stop = widget.NewButtonWithIcon(i18n.T("Stop"), theme.MediaStopIcon(), r.Stop)
	r.patch = widget.NewButtonWithIcon(i18n.T("Set current"), theme.DocumentCreateIcon(), r.setCurrent)

	mw.app.Subscribe(func(s timer.Snapshot) {
		fyne.Do(func() { r.show(s) })
	})

	r.content = container.NewVBox(
		container.NewCenter(r.clock),
		r.step,
		r.total,
		container.NewGridWithColumns(3, r.start, r.stop, r.patch),
	)
	r.show(timer.Snapshot{})
	return r
}

// Content returns the panel's canvas object.
func (r *RunPanel) Content() fyne.CanvasObject {
	return r.content
}

// Refresh redraws the last received snapshot.
func (r *RunPanel) Refresh() {
	r.show(r.snap)
}

// Start runs the working list from its first step.
func (r *RunPanel) Start() {
	seq := r.mw.app.Session().Builder().Sequence()
	if err := r.mw.app.StartRun(seq); err != nil {
		r.mw.logger().Warn("start failed", "error", err)
		return
	}
	r.mw.ShowRun()
}

// Stop ends the active run.
func (r *RunPanel) Stop() {
	if err := r.mw.app.StopRun(); err != nil {
		r.mw.logger().Debug("stop ignored", "error", err)
	}
}

// Toggle stops a running timer or starts a new run.
func (r *RunPanel) Toggle() {
	if r.snap.State == timer.StateRunning {
		r.Stop()
		return
	}
	r.Start()
}

func (r *RunPanel) setCurrent() {
	entry := widget.NewEntry()
	entry.SetText(timer.FormatTime(r.snap.Remaining))
	items := []*widget.FormItem{widget.NewFormItem(i18n.T("Value"), entry)}
	dialog.ShowForm(i18n.T("Set current"), i18n.T("OK"), i18n.T("Cancel"), items, func(ok bool) {
		if !ok {
			return
		}
		seconds, err := timer.ParseTimeInput(entry.Text)
		if err != nil || seconds <= 0 {
			r.mw.logger().Debug("patch rejected", "input", entry.Text, "error", err)
			return
		}
		if err := r.mw.app.PatchRun(seconds); err != nil {
			r.mw.logger().Debug("patch ignored", "error", err)
		}
	}, r.mw.window)
}

func (r *RunPanel) show(s timer.Snapshot) {
	r.snap = s
	switch s.State {
	case timer.StateRunning:
		r.clock.Text = timer.FormatClock(s.Remaining)
		r.clock.Color = RunningColor
		r.step.SetText(fmt.Sprintf(i18n.T("Step %d of %d"), s.Current(), s.Total))
		r.total.SetText(timer.FormatTime(s.RemainingTotal()))
		r.start.Disable()
		r.stop.Enable()
		r.patch.Enable()
	case timer.StateFinished:
		r.clock.Text = timer.FormatClock(0)
		r.clock.Color = theme.Color(theme.ColorNameForeground)
		r.step.SetText(i18n.T("Finished"))
		r.total.SetText("")
		r.start.Enable()
		r.stop.Disable()
		r.patch.Disable()
	default:
		r.clock.Text = timer.FormatClock(0)
		r.clock.Color = theme.Color(theme.ColorNameForeground)
		r.step.SetText(i18n.T("Ready"))
		r.total.SetText("")
		r.start.Enable()
		r.stop.Disable()
		r.patch.Disable()
	}
	r.clock.Refresh()
}
