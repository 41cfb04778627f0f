package ui

import (
	"IntervalTimers/i18n"
	"IntervalTimers/timer"
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// BuilderPanel edits the session's working instruction list.
type BuilderPanel struct {
	mw      *MainWindow
	entry   *widget.Entry
	list    *widget.List
	total   *widget.Label
	items   []timer.Instruction
	content fyne.CanvasObject
}

func NewBuilderPanel(mw *MainWindow) *BuilderPanel {
	b := &BuilderPanel{mw: mw}

	b.entry = widget.NewEntry()
	b.entry.SetPlaceHolder(i18n.T("ss, mm:ss or hh:mm:ss"))
	b.entry.OnSubmitted = func(string) { b.addWait() }

	addWait := widget.NewButtonWithIcon(i18n.T("Add wait"), theme.ContentAddIcon(), b.addWait)
	addRepeat := widget.NewButtonWithIcon(i18n.T("Add repeat"), theme.ViewRefreshIcon(), b.addRepeat)

	b.list = widget.NewList(
		func() int { return len(b.items) },
		b.createRow,
		b.updateRow,
	)

	b.total = widget.NewLabel("")

	clearBtn := widget.NewButtonWithIcon(i18n.T("Clear"), theme.ContentClearIcon(), func() {
		b.builder().Clear()
		b.mw.Refresh()
	})
	save := widget.NewButtonWithIcon(i18n.T("Save as…"), theme.DocumentSaveIcon(), b.saveAs)
	start := widget.NewButtonWithIcon(i18n.T("Start"), theme.MediaPlayIcon(), func() {
		b.mw.run.Start()
	})

	top := container.NewVBox(
		b.entry,
		container.NewGridWithColumns(2, addWait, addRepeat),
	)
	bottom := container.NewVBox(
		b.total,
		container.NewHBox(clearBtn, layout.NewSpacer(), save, start),
	)
	b.content = container.NewBorder(top, bottom, nil, nil, b.list)
	return b
}

// Content returns the panel's canvas object.
func (b *BuilderPanel) Content() fyne.CanvasObject {
	return b.content
}

func (b *BuilderPanel) builder() *timer.InstructionList {
	return b.mw.app.Session().Builder()
}

// Refresh reloads the list from the session.
func (b *BuilderPanel) Refresh() {
	b.items = b.builder().Instructions()
	seq := timer.Expand(b.items)
	b.total.SetText(fmt.Sprintf(i18n.T("Total %s in %d steps"), timer.FormatTime(timer.TotalSeconds(seq)), len(seq)))
	b.list.Refresh()
}

func (b *BuilderPanel) addWait() {
	if _, err := b.builder().AddWait(b.entry.Text); err != nil {
		b.mw.logger().Debug("wait rejected", "input", b.entry.Text, "error", err)
		return
	}
	b.entry.SetText("")
	b.mw.Refresh()
}

func (b *BuilderPanel) addRepeat() {
	if _, err := b.builder().AddRepeat(b.entry.Text); err != nil {
		b.mw.logger().Debug("repeat rejected", "input", b.entry.Text, "error", err)
		return
	}
	b.entry.SetText("")
	b.mw.Refresh()
}

func (b *BuilderPanel) createRow() fyne.CanvasObject {
	label := widget.NewLabel("")
	del := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
	return NewTappableContainer(container.NewBorder(nil, nil, nil, del, label), nil, nil)
}

func (b *BuilderPanel) updateRow(id widget.ListItemID, o fyne.CanvasObject) {
	if id >= len(b.items) {
		return
	}
	in := b.items[id]
	row := o.(*TappableContainer)
	objs := row.Content.(*fyne.Container).Objects
	objs[0].(*widget.Label).SetText(describe(in))

	instructionID := in.ID
	row.OnTappedPrimary = func() { b.edit(instructionID) }
	row.OnTappedSecondary = func(*fyne.PointEvent) { b.delete(instructionID) }
	objs[1].(*widget.Button).OnTapped = func() { b.delete(instructionID) }
}

func describe(in timer.Instruction) string {
	if in.Kind == timer.KindRepeat {
		return fmt.Sprintf(i18n.T("Repeat %d×"), in.Times)
	}
	return fmt.Sprintf(i18n.T("Wait %s"), timer.FormatClock(in.Seconds))
}

// edit asks for a new value through the list's single edit slot; a second
// tap while the form is open is ignored.
func (b *BuilderPanel) edit(id int) {
	current, err := b.builder().ProposeEdit(id)
	if err != nil {
		b.mw.logger().Debug("edit not started", "id", id, "error", err)
		return
	}

	entry := widget.NewEntry()
	entry.SetText(current)
	items := []*widget.FormItem{widget.NewFormItem(i18n.T("Value"), entry)}
	dialog.ShowForm(i18n.T("Edit"), i18n.T("OK"), i18n.T("Cancel"), items, func(ok bool) {
		if !ok {
			b.builder().CancelEdit()
			return
		}
		if err := b.builder().ApplyEdit(id, entry.Text); err != nil {
			b.mw.logger().Debug("edit rejected", "id", id, "input", entry.Text, "error", err)
		}
		b.mw.Refresh()
	}, b.mw.window)
}

func (b *BuilderPanel) delete(id int) {
	b.builder().Delete(id)
	b.mw.Refresh()
}

func (b *BuilderPanel) saveAs() {
	name := widget.NewEntry()
	items := []*widget.FormItem{widget.NewFormItem(i18n.T("Name"), name)}
	dialog.ShowForm(i18n.T("Save as…"), i18n.T("OK"), i18n.T("Cancel"), items, func(ok bool) {
		if !ok {
			return
		}
		if _, err := b.mw.app.Session().SaveCurrent(context.Background(), name.Text); err != nil {
			b.mw.logger().Warn("save failed", "name", name.Text, "error", err)
			dialog.ShowError(err, b.mw.window)
			return
		}
		b.mw.Refresh()
	}, b.mw.window)
}
