package watch_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"textdrop/internal/config"
	"textdrop/internal/drop"
	"textdrop/internal/errors"
	"textdrop/internal/watch"
	"textdrop/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTarget records the gesture calls it receives
type fakeTarget struct {
	mu       sync.Mutex
	calls    []string
	dropped  []types.Address
	enterErr error
	exits    chan struct{}
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{exits: make(chan struct{}, 4)}
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
	f.calls = append(f.calls, "exit")
	f.mu.Unlock()
	f.exits <- struct{}{}
}

func (f *fakeTarget) snapshot() ([]string, []types.Address) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...), append([]types.Address(nil), f.dropped...)
}

func newDaemon(t *testing.T, target watch.Target) (*watch.Daemon, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewTestConfig()
	cfg.Watch.Directories = []string{dir}

	d, err := watch.NewDaemon(cfg, target, drop.MustAcceptor(types.FileReferenceType))
	require.NoError(t, err)
	require.NoError(t, d.Start())
	t.Cleanup(d.Stop)

	// let fsnotify settle its watches
	time.Sleep(100 * time.Millisecond)
	return d, dir
}

func waitExit(t *testing.T, f *fakeTarget) {
	t.Helper()
	select {
	case <-f.exits:
	case <-time.After(3 * time.Second):
		t.Fatal("folder drop never settled")
	}
}

func TestDaemon_FolderDrop(t *testing.T) {
	target := newFakeTarget()
	d, dir := newDaemon(t, target)

	var callbackPaths []string
	var cbMu sync.Mutex
	d.SetCallback(func(path string) {
		cbMu.Lock()
		callbackPaths = append(callbackPaths, path)
		cbMu.Unlock()
	})

	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("hello"), 0644))
	// a second write to the same file must not drop it twice
	require.NoError(t, os.WriteFile(a, []byte("hello again"), 0644))

	waitExit(t, target)

	calls, dropped := target.snapshot()
	assert.Equal(t, []string{"enter", "drop", "exit"}, calls)
	assert.Equal(t, []types.Address{types.Address(a)}, dropped)

	status := d.Status()
	assert.True(t, status.Running)
	assert.False(t, status.Hovering)
	assert.Equal(t, 1, status.Gestures)
	assert.Equal(t, 1, status.FilesDropped)
	assert.Equal(t, []string{dir}, status.WatchDirectories)

	cbMu.Lock()
	assert.Equal(t, []string{a}, callbackPaths)
	cbMu.Unlock()
}

func TestDaemon_IgnoredFiles(t *testing.T) {
	target := newFakeTarget()
	_, dir := newDaemon(t, target)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "download.part"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)

	calls, _ := target.snapshot()
	assert.Empty(t, calls)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0644))
	waitExit(t, target)

	_, dropped := target.snapshot()
	assert.Equal(t, []types.Address{types.Address(filepath.Join(dir, "b.txt"))}, dropped)
}

func TestDaemon_SeparateGestures(t *testing.T) {
	target := newFakeTarget()
	d, dir := newDaemon(t, target)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.txt"), []byte("1"), 0644))
	waitExit(t, target)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.txt"), []byte("2"), 0644))
	waitExit(t, target)

	calls, _ := target.snapshot()
	assert.Equal(t, []string{"enter", "drop", "exit", "enter", "drop", "exit"}, calls)
	assert.Equal(t, 2, d.Status().Gestures)
}

func TestDaemon_BusyTarget(t *testing.T) {
	target := newFakeTarget()
	target.enterErr = errors.ErrGestureInProgress
	d, dir := newDaemon(t, target)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)

	calls, dropped := target.snapshot()
	assert.NotEmpty(t, calls)
	for _, c := range calls {
		assert.Equal(t, "enter", c)
	}
	assert.Empty(t, dropped)
	assert.Equal(t, 0, d.Status().Gestures)
}

func TestDaemon_StopEndsGesture(t *testing.T) {
	target := newFakeTarget()
	dir := t.TempDir()
	cfg := config.NewTestConfig()
	cfg.Watch.Directories = []string{dir}
	cfg.Watch.SettleMS = 60_000

	d, err := watch.NewDaemon(cfg, target, nil)
	require.NoError(t, err)
	require.NoError(t, d.Start())
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644))
	require.Eventually(t, func() bool { return d.Status().Hovering }, 3*time.Second, 10*time.Millisecond)

	d.Stop()

	calls, _ := target.snapshot()
	assert.Equal(t, []string{"enter", "drop", "exit"}, calls)
	assert.False(t, d.Status().Running)
}

func TestDaemon_StartErrors(t *testing.T) {
	cfg := config.NewTestConfig()
	d, err := watch.NewDaemon(cfg, newFakeTarget(), nil)
	require.NoError(t, err)
	err = d.Start()
	require.Error(t, err)
	assert.Equal(t, errors.InvalidConfig, errors.KindOf(err), "no directories")

	cfg.Watch.Directories = []string{t.TempDir()}
	d, err = watch.NewDaemon(cfg, newFakeTarget(), drop.MustAcceptor("text/plain"))
	require.NoError(t, err)
	err = d.Start()
	require.Error(t, err)
	assert.Equal(t, errors.InvalidConfig, errors.KindOf(err), "file references not accepted")

	cfg.Watch.Ignore = []string{""}
	cfg.Watch.Directories = []string{filepath.Join(t.TempDir(), "missing")}
	d, err = watch.NewDaemon(cfg, newFakeTarget(), nil)
	require.NoError(t, err)
	assert.True(t, errors.IsFileNotFound(d.Start()))
}
