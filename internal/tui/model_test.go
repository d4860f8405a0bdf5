package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"textdrop/internal/config"
	"textdrop/internal/drop"
	"textdrop/internal/errors"
	"textdrop/internal/source"
	"textdrop/internal/tui/common"
	"textdrop/internal/tui/messages"
	"textdrop/pkg/testutils"
	"textdrop/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	mu       sync.Mutex
	calls    []string
	dropped  []types.Address
	enterErr error
}

func (f *fakeTarget) Enter() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "enter")
	return f.enterErr
}

func (f *fakeTarget) DropAddresses(addrs ...types.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "drop")
	f.dropped = append(f.dropped, addrs...)
	return nil
}

func (f *fakeTarget) Exit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "exit")
}

func newTestModel(t *testing.T, target Target) *Model {
	t.Helper()
	m, err := New(config.NewTestConfig(), target, nil)
	require.NoError(t, err)
	return m
}

func paste(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true}
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func TestModelInitialization(t *testing.T) {
	m := newTestModel(t, &fakeTarget{})
	assert.Equal(t, common.Normal, m.Mode())
	assert.False(t, m.Hovering())
	assert.Empty(t, m.Content())
	assert.Equal(t, "Waiting for a drop", m.Status())
	assert.NotNil(t, m.Init())
}

func TestModelPasteStartsGesture(t *testing.T) {
	target := &fakeTarget{}
	m := newTestModel(t, target)

	model, cmd := m.Update(paste("/tmp/a.txt '/tmp/b c.txt'"))
	require.NotNil(t, cmd, "paste should schedule the exit")
	updated := model.(*Model)

	assert.Equal(t, []string{"enter", "drop"}, target.calls)
	assert.Equal(t, []types.Address{"/tmp/a.txt", "/tmp/b c.txt"}, target.dropped)
	require.Len(t, updated.Dropped(), 2)
	assert.Equal(t, "b c.txt", updated.Dropped()[1].Name)

	// the scheduled exit ends the gesture
	exit, ok := cmd().(messages.ExitMsg)
	require.True(t, ok)
	model, cmd = updated.Update(exit)
	updated = model.(*Model)
	assert.Equal(t, []string{"enter", "drop", "exit"}, target.calls)
	assert.True(t, updated.Reading())
	assert.NotNil(t, cmd)

	// a repeated exit for the same gesture is ignored
	updated.Update(exit)
	assert.Len(t, target.calls, 3)
}

func TestModelStaleExitIgnored(t *testing.T) {
	target := &fakeTarget{}
	m := newTestModel(t, target)

	model, _ := m.Update(paste("/tmp/a.txt"))
	model, _ = model.Update(messages.ExitMsg{Gesture: 0})

	assert.Equal(t, []string{"enter", "drop"}, target.calls)
	assert.False(t, model.(*Model).Reading())
}

func TestModelPasteRejected(t *testing.T) {
	t.Run("gesture in progress", func(t *testing.T) {
		target := &fakeTarget{enterErr: errors.ErrGestureInProgress}
		m := newTestModel(t, target)

		model, cmd := m.Update(paste("/tmp/a.txt"))
		assert.Nil(t, cmd)
		assert.Equal(t, []string{"enter"}, target.calls)
		assert.Equal(t, "A drop is already in progress", model.(*Model).Status())
	})

	t.Run("nothing pasted", func(t *testing.T) {
		target := &fakeTarget{}
		m := newTestModel(t, target)

		model, cmd := m.Update(paste("   "))
		assert.Nil(t, cmd)
		assert.Empty(t, target.calls)
		assert.Equal(t, "Nothing to drop", model.(*Model).Status())
	})

	t.Run("files not accepted", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.Accept.Types = []string{"text/plain"}
		target := &fakeTarget{}
		m, err := New(cfg, target, nil)
		require.NoError(t, err)

		model, _ := m.Update(paste("/tmp/a.txt"))
		assert.Empty(t, target.calls)
		assert.Equal(t, "This target does not accept files", model.(*Model).Status())
	})
}

func TestModelContent(t *testing.T) {
	m := newTestModel(t, &fakeTarget{})

	model, _ := m.Update(messages.PhaseMsg{Hovering: true})
	assert.True(t, model.(*Model).Hovering())
	assert.Contains(t, testutils.StripANSI(model.View()), "drop in progress")

	model, _ = model.Update(messages.PhaseMsg{Hovering: false})
	model, _ = model.Update(messages.ContentReadyMsg{Text: "hello\nworld"})
	updated := model.(*Model)

	assert.False(t, updated.Hovering())
	assert.Equal(t, "hello\nworld", updated.Content())
	assert.Equal(t, "Received 11 B in 2 line(s)", updated.Status())
	assert.Equal(t, 1, updated.Drops())
	assert.NoError(t, updated.LastError())
	assert.Contains(t, testutils.StripANSI(updated.View()), "hello")
}

func TestModelDecodesContent(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Output.Decode = "json"
	m, err := New(cfg, &fakeTarget{}, nil)
	require.NoError(t, err)

	model, _ := m.Update(messages.ContentReadyMsg{Text: `{"a":1}`})
	assert.Equal(t, "{\n  \"a\": 1\n}\n", model.(*Model).Content())

	model, _ = model.Update(messages.ContentReadyMsg{Text: `{"a":`})
	updated := model.(*Model)
	assert.Error(t, updated.LastError())
	assert.Equal(t, `{"a":`, updated.Content())
	assert.True(t, strings.HasPrefix(updated.Status(), "Cannot decode drop as json"))
}

func TestModelReadFailed(t *testing.T) {
	m := newTestModel(t, &fakeTarget{})
	cause := errors.New("permission denied")
	readErr := errors.NewReadError("cannot read dropped item", "/x/b.txt", 1, errors.ReadFailed, cause)

	model, _ := m.Update(messages.ReadFailedMsg{Err: readErr})
	updated := model.(*Model)

	assert.Equal(t, "Drop failed on /x/b.txt: permission denied", updated.Status())
	assert.ErrorIs(t, updated.LastError(), readErr)

	unresolved := errors.NewReadError("cannot resolve dropped item", "", 0, errors.AddressUnresolved, nil)
	model, _ = updated.Update(messages.ReadFailedMsg{Err: unresolved})
	assert.Equal(t, "Drop failed on item 1", model.(*Model).Status())
}

func TestModelCommands(t *testing.T) {
	target := &fakeTarget{}
	m := newTestModel(t, target)

	var model tea.Model = m
	model, _ = model.Update(runes(":"))
	assert.Equal(t, common.Command, model.(*Model).Mode())

	model, _ = model.Update(runes("drop"))
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	model, _ = model.Update(runes("a.txt"))
	assert.Equal(t, ":drop a.txt", model.(*Model).CommandBuffer())

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.Equal(t, common.Normal, model.(*Model).Mode())
	assert.Equal(t, []types.Address{"a.txt"}, target.dropped)

	updated := model.(*Model)
	assert.Nil(t, updated.executeCommand("decode yaml"))
	assert.Equal(t, "yaml", updated.decode)
	assert.Equal(t, "Decoding drops as yaml", updated.Status())

	updated.executeCommand("decode toml")
	assert.Equal(t, "yaml", updated.decode)
	assert.Contains(t, updated.Status(), "unsupported payload format: toml")

	updated.executeCommand("bogus")
	assert.Equal(t, "Unknown command: bogus", updated.Status())

	assert.Equal(t, tea.QuitMsg{}, updated.executeCommand("q")())
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t, &fakeTarget{})

	model, _ := m.Update(runes("?"))
	assert.True(t, model.(*Model).ShowHelp())

	model, _ = model.Update(messages.ContentReadyMsg{Text: "x"})
	model, _ = model.Update(runes("c"))
	assert.Empty(t, model.(*Model).Content())
	assert.Equal(t, "Cleared", model.(*Model).Status())

	_, cmd := model.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

// TestModelWithMachine drives a real drop machine through the model, feeding
// listener events back the way the program loop does.
func TestModelWithMachine(t *testing.T) {
	dir := t.TempDir()
	addrs := testutils.CreateDropFiles(t, dir, "hello", "world")

	events := make(chan tea.Msg, 16)
	machine := drop.NewMachine(source.NewFileReader(0), NewListener(events))
	defer machine.Close()

	m, err := New(config.NewTestConfig(), machine, events)
	require.NoError(t, err)

	var model tea.Model = m
	model, cmd := model.Update(paste(addrs[0].String() + " " + addrs[1].String()))
	require.NotNil(t, cmd)

	model = feed(t, model, events) // entered
	assert.True(t, model.(*Model).Hovering())

	model, _ = model.Update(cmd())
	model = feed(t, model, events) // exited
	assert.False(t, model.(*Model).Hovering())

	model = feed(t, model, events) // content
	assert.Equal(t, "hello\nworld", model.(*Model).Content())
	assert.False(t, model.(*Model).Reading())
}

func feed(t *testing.T, model tea.Model, events <-chan tea.Msg) tea.Model {
	t.Helper()
	select {
	case msg := <-events:
		model, _ = model.Update(msg)
		return model
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for drop event")
		return nil
	}
}
