//go:build !nogui

package gui

import (
	"sync"
	"time"

	"textdrop/internal/config"
	"textdrop/internal/drop"
	"textdrop/internal/errors"
	"textdrop/internal/log"
	"textdrop/internal/payload"
	"textdrop/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const dropHint = "Drop text files here"

// App is the GUI application: one window holding a drop target and the text
// of the last drop.
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	machine    *drop.Machine
	acceptor   *drop.Acceptor

	target *DropTarget
	output *widget.Entry
	status *widget.Label

	mu        sync.Mutex
	lastText  string
	lastItems int
	exitTimer *time.Timer
}

// NewApp creates the GUI application
func NewApp(cfg *config.Config, opts ...drop.Option) (*App, error) {
	return NewAppWith(app.NewWithID("io.github.textdrop"), cfg, opts...)
}

// NewAppWith creates the GUI on an existing fyne app
func NewAppWith(fyneApp fyne.App, cfg *config.Config, opts ...drop.Option) (*App, error) {
	acceptor, err := drop.NewAcceptor(cfg.Accept.Types...)
	if err != nil {
		return nil, err
	}

	a := &App{
		fyneApp:  fyneApp,
		cfg:      cfg,
		acceptor: acceptor,
		target:   NewDropTarget(dropHint),
		status:   widget.NewLabel("Waiting for a drop"),
	}

	a.output = widget.NewMultiLineEntry()
	a.output.Wrapping = fyne.TextWrapWord
	a.output.SetPlaceHolder("The text of dropped files appears here")

	opts = append([]drop.Option{
		drop.WithConcurrency(cfg.Read.Concurrency),
		drop.WithTimeout(cfg.ReadTimeout()),
	}, opts...)
	a.machine = drop.NewMachine(URIReader{MaxBytes: cfg.Read.MaxBytes}, drop.ListenerFuncs{
		OnPhase:   a.target.SetHovering,
		OnContent: a.showContent,
		OnFailure: a.showFailure,
	}, opts...)

	a.mainWindow = fyneApp.NewWindow("textdrop")
	a.mainWindow.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		a.HandleDrop(uris)
	})
	a.mainWindow.SetOnClosed(a.machine.Close)
	a.setupMainWindow()

	return a, nil
}

// Run shows the window and blocks until the app quits
func (a *App) Run() {
	a.mainWindow.Show()
	a.target.StartAmbient()
	a.fyneApp.Run()
	a.machine.Close()
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Target returns the drop target widget
func (a *App) Target() *DropTarget {
	return a.target
}

// Machine returns the drop state machine behind the window
func (a *App) Machine() *drop.Machine {
	return a.machine
}

// Text returns what the output area currently shows
func (a *App) Text() string {
	return a.output.Text
}

// Status returns the status line
func (a *App) Status() string {
	return a.status.Text
}

// HandleDrop runs one gesture for the URIs the window received. Fyne reports
// a drop only once it has happened, so enter, drop and exit are issued
// together; the exit is delayed by the highlight period so the hover state
// is visible.
func (a *App) HandleDrop(uris []fyne.URI) {
	if len(uris) == 0 {
		return
	}
	logger := log.LogWithFields(log.F("items", len(uris)))

	if !a.acceptor.IsAcceptable([]string{types.FileReferenceType}) {
		logger.Debug("drop ignored, files not accepted")
		return
	}
	if err := a.machine.Enter(); err != nil {
		logger.WithError(err).Debug("drop rejected")
		a.status.SetText("A drop is already in progress")
		return
	}

	items := make([]drop.Item, len(uris))
	for i, u := range uris {
		items[i] = resolveURI(u)
	}
	if err := a.machine.Drop(items...); err != nil {
		logger.WithError(err).Warn("drop failed")
		a.machine.Exit()
		return
	}

	a.mu.Lock()
	a.lastItems = len(uris)
	a.mu.Unlock()
	logger.With(log.F("addresses", urisToAddresses(uris))).Debug("files dropped on window")

	a.scheduleExit()
}

func (a *App) scheduleExit() {
	delay := a.cfg.HighlightPeriod()
	if delay <= 0 {
		a.machine.Exit()
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.exitTimer != nil {
		a.exitTimer.Stop()
	}
	a.exitTimer = time.AfterFunc(delay, a.machine.Exit)
}

// resolveURI checks in the background that u can be read before handing its
// address to the read.
func resolveURI(u fyne.URI) drop.Item {
	return drop.Go(func() (types.Address, error) {
		ok, err := storage.CanRead(u)
		if err != nil {
			return "", errors.NewFileError("cannot access dropped item", u.String(), errors.FileNotFound, err)
		}
		if !ok {
			return "", errors.NewFileError("dropped item is not readable", u.String(), errors.FileAccessDenied, nil)
		}
		return types.Address(u.String()), nil
	})
}

func (a *App) showContent(text string) {
	a.mu.Lock()
	a.lastText = text
	items := a.lastItems
	a.mu.Unlock()

	rendered, err := payload.Render(text, a.cfg.Output.Decode)
	if err != nil {
		a.output.SetText(text)
		a.status.SetText("Cannot decode drop as " + a.cfg.Output.Decode)
		return
	}
	a.output.SetText(rendered)
	a.status.SetText(describeDrop(text, items))
}

func (a *App) showFailure(err error) {
	log.LogWithError(err).Warn("Drop failed")
	a.status.SetText(describeFailure(err))
	dialog.ShowError(err, a.mainWindow)
}

func (a *App) clear() {
	a.mu.Lock()
	a.lastText = ""
	a.mu.Unlock()
	a.output.SetText("")
	a.status.SetText("Cleared")
}

func (a *App) saveContent() {
	a.mu.Lock()
	text := a.lastText
	a.mu.Unlock()
	if text == "" {
		a.ShowInfo("Nothing has been dropped yet.")
		return
	}

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.ShowError("Save failed", err)
			return
		}
		if writer == nil {
			return
		}
		if err := exportContent(writer, text, a.cfg.Output.Decode); err != nil {
			a.ShowError("Save failed", err)
		}
	}, a.mainWindow)
	save.SetFileName(exportFileName(a.cfg.Output.Decode))
	save.Show()
}

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(640, 560))

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.saveContent),
		widget.NewToolbarAction(theme.ContentClearIcon(), a.clear),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.HelpIcon(), func() {
			dialog.ShowInformation("About textdrop",
				"Drop one or more text files onto the window.\n"+
					"Their contents are joined with newlines in drop order.",
				a.mainWindow)
		}),
	)

	content := container.NewBorder(
		toolbar,
		container.NewHBox(a.status, layout.NewSpacer()),
		nil,
		nil,
		container.NewVSplit(container.NewPadded(a.target), a.output),
	)

	a.mainWindow.SetContent(content)
}

// ShowError displays an error dialog
func (a *App) ShowError(title string, err error) {
	if err == nil {
		return
	}
	log.LogWithError(err).Error(title)
	dialog.ShowError(err, a.mainWindow)
}

// ShowInfo displays an information dialog
func (a *App) ShowInfo(message string) {
	dialog.ShowInformation("Information", message, a.mainWindow)
}
