// Package tui is a terminal drop target. Terminals deliver files dragged onto
// them as a bracketed paste of their paths; the model turns each paste into
// one drop gesture on a drop.Machine and shows the combined text.
package tui

import (
	"fmt"
	"strings"
	"time"

	"textdrop/internal/config"
	"textdrop/internal/drop"
	"textdrop/internal/errors"
	"textdrop/internal/log"
	"textdrop/internal/payload"
	"textdrop/internal/tui/common"
	"textdrop/internal/tui/components"
	"textdrop/internal/tui/messages"
	"textdrop/internal/tui/styles"
	"textdrop/internal/tui/views"
	"textdrop/pkg/types"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// Target is the drop target the model drives
type Target interface {
	Enter() error
	DropAddresses(addrs ...types.Address) error
	Exit()
}

// NewListener forwards machine notifications to the program as messages
func NewListener(events chan<- tea.Msg) drop.Listener {
	return drop.ListenerFuncs{
		OnPhase:   func(hovering bool) { events <- messages.PhaseMsg{Hovering: hovering} },
		OnContent: func(text string) { events <- messages.ContentReadyMsg{Text: text} },
		OnFailure: func(err error) { events <- messages.ReadFailedMsg{Err: err} },
	}
}

type Model struct {
	target    Target
	acceptor  *drop.Acceptor
	events    <-chan tea.Msg
	decode    string
	highlight time.Duration

	// Core state
	mode          common.Mode
	showHelp      bool
	commandBuffer string
	hovering      bool
	pasting       bool
	gesture       int
	drops         int
	lastErr       error

	// Components
	ambient   spinner.Model
	dropZone  *components.DropZone
	fileList  *components.FileList
	statusBar *components.StatusBar
}

// New creates a model driving target. events must receive the messages
// produced by the listener returned from NewListener.
func New(cfg *config.Config, target Target, events <-chan tea.Msg) (*Model, error) {
	acceptor, err := drop.NewAcceptor(cfg.Accept.Types...)
	if err != nil {
		return nil, err
	}
	styles.UseTheme(cfg.UI.Theme)

	ambient := spinner.New()
	ambient.Spinner = spinner.Globe
	ambient.Style = styles.Theme.Title.UnsetMarginBottom()

	m := &Model{
		target:    target,
		acceptor:  acceptor,
		events:    events,
		decode:    cfg.Output.Decode,
		highlight: cfg.HighlightPeriod(),
		mode:      common.Normal,
		ambient:   ambient,
		dropZone:  components.NewDropZone(),
		fileList:  components.NewFileList(),
		statusBar: components.NewStatusBar(),
	}
	m.statusBar.SetText("Waiting for a drop")
	return m, nil
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.ambient.Tick, waitForEvent(m.events))
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		newModel := m.copy()
		newModel.dropZone.SetSize(msg.Width-4, msg.Height-12)
		return newModel, nil

	case spinner.TickMsg:
		newModel := m.copy()
		var cmd tea.Cmd
		newModel.ambient, cmd = newModel.ambient.Update(msg)
		return newModel, tea.Batch(cmd, newModel.statusBar.Update(msg))

	case messages.PhaseMsg:
		newModel := m.copy()
		newModel.hovering = msg.Hovering
		newModel.dropZone.SetHovering(msg.Hovering)
		return newModel, waitForEvent(m.events)

	case messages.ContentReadyMsg:
		return m.handleContent(msg.Text)

	case messages.ReadFailedMsg:
		newModel := m.copy()
		newModel.statusBar.SetLoading(false)
		newModel.lastErr = msg.Err
		newModel.statusBar.SetError(describeFailure(msg.Err))
		return newModel, waitForEvent(m.events)

	case messages.ExitMsg:
		if !m.pasting || msg.Gesture != m.gesture {
			return m, nil
		}
		newModel := m.copy()
		newModel.pasting = false
		newModel.target.Exit()
		newModel.statusBar.SetText("Reading dropped files")
		return newModel, newModel.statusBar.SetLoading(true)

	case messages.ErrorMsg:
		newModel := m.copy()
		newModel.lastErr = msg.Err
		newModel.statusBar.SetError(msg.Err.Error())
		return newModel, nil
	}
	return m, nil
}

func (m *Model) handleContent(text string) (tea.Model, tea.Cmd) {
	newModel := m.copy()
	newModel.statusBar.SetLoading(false)
	newModel.drops++

	rendered, err := payload.Render(text, newModel.decode)
	if err != nil {
		newModel.lastErr = err
		newModel.statusBar.SetError("Cannot decode drop as " + newModel.decode + ": " + err.Error())
		newModel.dropZone.SetContent(text)
		return newModel, waitForEvent(m.events)
	}

	newModel.lastErr = nil
	newModel.dropZone.SetContent(rendered)
	newModel.statusBar.SetText(fmt.Sprintf("Received %s in %d line(s)",
		humanize.Bytes(uint64(len(text))), strings.Count(text, "\n")+1))
	return newModel, waitForEvent(m.events)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	newModel := m.copy()

	if msg.Paste {
		return newModel, newModel.dropPaths(ParsePaths(string(msg.Runes)))
	}

	switch newModel.mode {
	case common.Command:
		return newModel.handleCommandMode(msg)
	default:
		return newModel.handleNormalKeys(msg)
	}
}

func (m *Model) copy() *Model {
	newModel := *m
	newModel.dropZone = m.dropZone.Copy()
	newModel.statusBar = m.statusBar.Copy()
	newModel.fileList = components.NewFileList()
	newModel.fileList.SetFiles(m.fileList.Files())
	return &newModel
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case ":":
		m.mode = common.Command
		m.commandBuffer = ":"
		return m, nil
	case "c":
		m.clear()
	case "?":
		m.showHelp = !m.showHelp
	default:
		// scrolling keys go to the viewport
		return m, m.dropZone.Update(msg)
	}
	return m, nil
}

func (m *Model) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = common.Normal
		m.commandBuffer = ""
		return m, nil
	case "enter":
		cmd := strings.TrimPrefix(m.commandBuffer, ":")
		m.mode = common.Normal
		m.commandBuffer = ""
		return m, m.executeCommand(cmd)
	case "backspace":
		if len(m.commandBuffer) > 1 {
			m.commandBuffer = m.commandBuffer[:len(m.commandBuffer)-1]
		}
	case " ":
		m.commandBuffer += " "
	default:
		if msg.Type == tea.KeyRunes {
			m.commandBuffer += string(msg.Runes)
		}
	}
	return m, nil
}

func (m *Model) executeCommand(cmd string) tea.Cmd {
	name, args, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	switch name {
	case "q", "quit":
		return tea.Quit
	case "drop", "d":
		return m.dropPaths(ParsePaths(args))
	case "clear":
		m.clear()
	case "theme":
		styles.UseTheme(strings.TrimSpace(args))
		m.statusBar.SetText("Theme: " + strings.TrimSpace(args))
	case "decode":
		format := strings.TrimSpace(args)
		if format == "raw" {
			format = payload.FormatRaw
		}
		if _, err := payload.Decode("", format); err != nil {
			m.statusBar.SetError(err.Error())
			return nil
		}
		m.decode = format
		m.statusBar.SetText("Decoding drops as " + args)
	default:
		m.statusBar.SetError("Unknown command: " + name)
	}
	return nil
}

// dropPaths runs one gesture: enter, drop addrs, and exit once the highlight
// has been visible for the configured period.
func (m *Model) dropPaths(addrs []types.Address) tea.Cmd {
	if len(addrs) == 0 {
		m.statusBar.SetText("Nothing to drop")
		return nil
	}
	if !m.acceptor.IsAcceptable([]string{types.FileReferenceType}) {
		m.statusBar.SetError("This target does not accept files")
		return nil
	}

	if err := m.target.Enter(); err != nil {
		log.LogWithError(err).Debug("paste rejected")
		m.statusBar.SetError("A drop is already in progress")
		return nil
	}
	if err := m.target.DropAddresses(addrs...); err != nil {
		m.target.Exit()
		m.statusBar.SetError(err.Error())
		return nil
	}

	entries := make([]common.FileEntry, len(addrs))
	for i, a := range addrs {
		entries[i] = common.FileEntry{Name: a.Name(), Address: a}
	}
	m.fileList.SetFiles(entries)

	m.gesture++
	m.pasting = true
	gesture := m.gesture
	return tea.Tick(m.highlight, func(time.Time) tea.Msg {
		return messages.ExitMsg{Gesture: gesture}
	})
}

func (m *Model) clear() {
	m.dropZone.SetContent("")
	m.fileList.SetFiles(nil)
	m.lastErr = nil
	m.statusBar.SetText("Cleared")
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func describeFailure(err error) string {
	if !errors.IsReadFailure(err) {
		return "Drop failed: " + err.Error()
	}
	var readErr *errors.ReadError
	if errors.As(err, &readErr) {
		name := readErr.Address()
		if name == "" {
			name = fmt.Sprintf("item %d", readErr.Index()+1)
		}
		if cause := errors.Unwrap(readErr); cause != nil {
			return fmt.Sprintf("Drop failed on %s: %v", name, cause)
		}
		return "Drop failed on " + name
	}
	return "Drop failed: " + err.Error()
}

// Getters

func (m *Model) Hovering() bool {
	return m.hovering
}

// Reading reports whether a drop is being read
func (m *Model) Reading() bool {
	return m.statusBar.Loading()
}

func (m *Model) Content() string {
	return m.dropZone.Content()
}

func (m *Model) Dropped() []common.FileEntry {
	return m.fileList.Files()
}

func (m *Model) Status() string {
	return m.statusBar.Text()
}

func (m *Model) LastError() error {
	return m.lastErr
}

// Drops counts the drops whose content arrived
func (m *Model) Drops() int {
	return m.drops
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) Mode() common.Mode {
	return m.mode
}

func (m *Model) CommandBuffer() string {
	return m.commandBuffer
}

func (m *Model) Ambient() string {
	return m.ambient.View()
}

func (m *Model) DropZoneView() string {
	return m.dropZone.View()
}

func (m *Model) FileListView() string {
	return m.fileList.View()
}

func (m *Model) StatusView() string {
	return m.statusBar.View()
}
