package ui

import (
	"IntervalTimers/i18n"
	"IntervalTimers/store"
	"IntervalTimers/timer"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Window dimensions.
const (
	WindowWidth  = 420
	WindowHeight = 560
	ClockSize    = 64
)

// App is what the window needs from the application.
type App interface {
	Session() *store.Session
	Presets() []timer.Preset
	StartRun(seq []int) error
	StopRun() error
	PatchRun(seconds int) error
	Subscribe(fn func(timer.Snapshot))
	Logger() *slog.Logger
}

// MainWindow ties the builder, library and run panels together.
type MainWindow struct {
	app     App
	window  fyne.Window
	tabs    *container.AppTabs
	builder *BuilderPanel
	library *LibraryPanel
	run     *RunPanel
}

// CreateMainWindow builds the window. Call ShowAndRun on the result's Window.
func CreateMainWindow(a App, fyneApp fyne.App) *MainWindow {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "IntervalTimers"
	}
	w := fyneApp.NewWindow(title)

	mw := &MainWindow{app: a, window: w}
	mw.builder = NewBuilderPanel(mw)
	mw.library = NewLibraryPanel(mw)
	mw.run = NewRunPanel(mw)

	builderTab := container.NewTabItem(i18n.T("Builder"), mw.builder.Content())
	libraryTab := container.NewTabItem(i18n.T("Library"), mw.library.Content())
	runTab := container.NewTabItem(i18n.T("Run"), mw.run.Content())
	mw.tabs = container.NewAppTabs(builderTab, libraryTab, runTab)
	mw.tabs.OnSelected = func(*container.TabItem) { mw.Refresh() }

	w.Canvas().SetOnTypedRune(mw.HandleKeyRune)

	w.SetContent(mw.tabs)
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	mw.Refresh()
	return mw
}

// Window returns the underlying fyne window.
func (mw *MainWindow) Window() fyne.Window {
	return mw.window
}

// Refresh redraws everything that depends on the session.
func (mw *MainWindow) Refresh() {
	mw.builder.Refresh()
	mw.library.Refresh()
	mw.run.Refresh()
}

// ShowRun switches to the run tab.
func (mw *MainWindow) ShowRun() {
	mw.tabs.SelectIndex(2)
}

// ShowBuilder switches to the builder tab.
func (mw *MainWindow) ShowBuilder() {
	mw.tabs.SelectIndex(0)
}

// HandleKeyRune handles shortcuts while no entry has focus: space starts or
// stops the run.
func (mw *MainWindow) HandleKeyRune(r rune) {
	switch r {
	case ' ':
		mw.run.Toggle()
	}
}

func (mw *MainWindow) logger() *slog.Logger {
	return mw.app.Logger()
}

// TappableContainer is a row that reacts to primary and secondary taps.
type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.Content)
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}
