package ui

import (
	"IntervalTimers/i18n"
	"IntervalTimers/store"
	"IntervalTimers/timer"
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// LibraryPanel lists saved timers and the bundled presets.
type LibraryPanel struct {
	mw       *MainWindow
	list     *widget.List
	presets  *widget.Select
	timers   []store.SavedTimer
	selected int // saved timer id, 0 when nothing is selected
	actions  []*widget.Button
	content  fyne.CanvasObject
}

func NewLibraryPanel(mw *MainWindow) *LibraryPanel {
	l := &LibraryPanel{mw: mw}

	l.list = widget.NewList(
		func() int { return len(l.timers) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil, widget.NewLabel(""), widget.NewLabel(""))
		},
		l.updateRow,
	)
	l.list.OnSelected = func(id widget.ListItemID) {
		if id < len(l.timers) {
			l.selected = l.timers[id].ID
		}
		l.refreshActions()
	}
	l.list.OnUnselected = func(widget.ListItemID) {
		l.selected = 0
		l.refreshActions()
	}

	names := make([]string, 0, len(mw.app.Presets()))
	for _, p := range mw.app.Presets() {
		names = append(names, p.Name)
	}
	l.presets = widget.NewSelect(names, l.loadPreset)
	l.presets.PlaceHolder = i18n.T("Presets")

	load := widget.NewButtonWithIcon(i18n.T("Load"), theme.FolderOpenIcon(), l.load)
	update := widget.NewButtonWithIcon(i18n.T("Update"), theme.DocumentSaveIcon(), l.update)
	rename := widget.NewButtonWithIcon(i18n.T("Rename"), theme.DocumentCreateIcon(), l.rename)
	del := widget.NewButtonWithIcon(i18n.T("Delete"), theme.DeleteIcon(), l.delete)
	l.actions = []*widget.Button{load, update, rename, del}

	top := container.NewVBox(
		widget.NewLabelWithStyle(i18n.T("Presets"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		l.presets,
		widget.NewLabelWithStyle(i18n.T("Saved timers"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	bottom := container.NewGridWithColumns(4, load, update, rename, del)
	l.content = container.NewBorder(top, bottom, nil, nil, l.list)
	return l
}

// Content returns the panel's canvas object.
func (l *LibraryPanel) Content() fyne.CanvasObject {
	return l.content
}

// Refresh reloads the saved timers, sorted by name.
func (l *LibraryPanel) Refresh() {
	l.timers = store.SortedByName(l.mw.app.Session().SavedTimers())
	if _, ok := l.mw.app.Session().Find(l.selected); !ok {
		l.selected = 0
		l.list.UnselectAll()
	}
	l.list.Refresh()
	l.refreshActions()
}

func (l *LibraryPanel) refreshActions() {
	for _, b := range l.actions {
		if l.selected == 0 {
			b.Disable()
		} else {
			b.Enable()
		}
	}
}

func (l *LibraryPanel) updateRow(id widget.ListItemID, o fyne.CanvasObject) {
	if id >= len(l.timers) {
		return
	}
	t := l.timers[id]
	objs := o.(*fyne.Container).Objects
	objs[0].(*widget.Label).SetText(t.Name)
	total := timer.TotalSeconds(timer.Expand(t.Instructions))
	objs[1].(*widget.Label).SetText(timer.FormatClock(total))
}

func (l *LibraryPanel) loadPreset(name string) {
	for _, p := range l.mw.app.Presets() {
		if p.Name != name {
			continue
		}
		l.mw.app.Session().Builder().Replace(p.Instructions)
		l.mw.logger().Info("preset loaded", "name", name)
		l.presets.ClearSelected()
		l.mw.Refresh()
		l.mw.ShowBuilder()
		return
	}
}

func (l *LibraryPanel) load() {
	if err := l.mw.app.Session().LoadIntoBuilder(l.selected); err != nil {
		dialog.ShowError(err, l.mw.window)
		return
	}
	l.mw.Refresh()
	l.mw.ShowBuilder()
}

func (l *LibraryPanel) update() {
	if err := l.mw.app.Session().UpdateFromCurrent(context.Background(), l.selected); err != nil {
		l.mw.logger().Warn("update failed", "id", l.selected, "error", err)
		dialog.ShowError(err, l.mw.window)
		return
	}
	l.mw.Refresh()
}

func (l *LibraryPanel) rename() {
	t, ok := l.mw.app.Session().Find(l.selected)
	if !ok {
		return
	}
	name := widget.NewEntry()
	name.SetText(t.Name)
	items := []*widget.FormItem{widget.NewFormItem(i18n.T("Name"), name)}
	dialog.ShowForm(i18n.T("Rename"), i18n.T("OK"), i18n.T("Cancel"), items, func(ok bool) {
		if !ok {
			return
		}
		if err := l.mw.app.Session().Rename(context.Background(), t.ID, name.Text); err != nil {
			dialog.ShowError(err, l.mw.window)
			return
		}
		l.mw.Refresh()
	}, l.mw.window)
}

func (l *LibraryPanel) delete() {
	t, ok := l.mw.app.Session().Find(l.selected)
	if !ok {
		return
	}
	msg := fmt.Sprintf(i18n.T("Delete %q?"), t.Name)
	dialog.ShowConfirm(i18n.T("Delete"), msg, func(ok bool) {
		if !ok {
			return
		}
		if err := l.mw.app.Session().Delete(context.Background(), t.ID); err != nil {
			dialog.ShowError(err, l.mw.window)
			return
		}
		l.mw.Refresh()
	}, l.mw.window)
}
