package watch

import (
	"path/filepath"
	"sync"
	"time"

	"textdrop/internal/config"
	"textdrop/internal/errors"
	"textdrop/internal/log"
	"textdrop/pkg/types"

	"github.com/gobwas/glob"
)

// Target is the drop target a Daemon drives
type Target interface {
	Enter() error
	DropAddresses(addrs ...types.Address) error
	Exit()
}

// Acceptor decides whether the target takes file references at all
type Acceptor interface {
	IsAcceptable(candidateTypes []string) bool
}

// DaemonStatus represents the current status of the daemon
type DaemonStatus struct {
	Running          bool      // Whether the daemon is currently active
	WatchDirectories []string  // Directories being watched
	LastActivity     time.Time // Time of last file activity
	Hovering         bool      // Whether a folder drop is being collected
	Gestures         int       // Folder drops completed
	FilesDropped     int       // Total files handed to the target
}

// Daemon turns files landing in watched directories into drop gestures.
// The first new file enters the target, every new file is dropped onto it,
// and a quiet period of settle ends the gesture.
type Daemon struct {
	config   *config.Config
	watcher  *Watcher
	target   Target
	acceptor Acceptor
	ignore   []glob.Glob
	settle   time.Duration

	// Statistics
	gestures     int
	dropped      int
	lastActivity time.Time
	hovering     bool

	// Called with each file handed to the target
	callback func(path string)

	// Lock for modifications
	mutex sync.RWMutex

	running bool
	done    chan struct{}
}

// NewDaemon creates a drop-folder daemon feeding target
func NewDaemon(cfg *config.Config, target Target, acceptor Acceptor) (*Daemon, error) {
	watcher, err := NewWatcher()
	if err != nil {
		return nil, err
	}

	ignore := make([]glob.Glob, 0, len(cfg.Watch.Ignore))
	for _, p := range cfg.Watch.Ignore {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.NewConfigError("invalid ignore pattern", p, errors.InvalidConfig, err)
		}
		ignore = append(ignore, g)
	}

	return &Daemon{
		config:       cfg,
		watcher:      watcher,
		target:       target,
		acceptor:     acceptor,
		ignore:       ignore,
		settle:       cfg.SettlePeriod(),
		lastActivity: time.Now(),
	}, nil
}

// Start watches the configured directories and begins turning files into drops
func (d *Daemon) Start() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.running {
		return errors.New("daemon is already running")
	}
	if d.acceptor != nil && !d.acceptor.IsAcceptable([]string{types.FileReferenceType}) {
		return errors.NewKind("drop target does not accept file references", errors.InvalidConfig, nil)
	}

	for _, dir := range d.config.Watch.Directories {
		if err := d.watcher.AddDirectory(dir); err != nil {
			return errors.Wrapf(err, "error adding watch directory %s", dir)
		}
	}

	if len(d.watcher.Directories()) == 0 {
		return errors.NewKind("no directories to watch", errors.InvalidConfig, nil)
	}

	if err := d.watcher.Start(); err != nil {
		return errors.Wrap(err, "error starting watcher")
	}

	d.running = true
	d.done = make(chan struct{})
	go d.processEvents(d.done)

	return nil
}

// Stop halts the daemon. A folder drop still being collected is ended so its
// files are read.
func (d *Daemon) Stop() {
	d.mutex.RLock()
	running, done := d.running, d.done
	d.mutex.RUnlock()
	if !running {
		return
	}

	d.watcher.Stop()
	<-done

	d.mutex.Lock()
	d.running = false
	d.mutex.Unlock()
}

// AddWatchDirectory adds a directory to be watched
func (d *Daemon) AddWatchDirectory(dir string) error {
	return d.watcher.AddDirectory(dir)
}

// SetCallback sets a function to be called for each dropped file
func (d *Daemon) SetCallback(cb func(path string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Status returns the current status of the daemon
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return DaemonStatus{
		Running:          d.running,
		WatchDirectories: d.watcher.Directories(),
		LastActivity:     d.lastActivity,
		Hovering:         d.hovering,
		Gestures:         d.gestures,
		FilesDropped:     d.dropped,
	}
}

// processEvents owns the gesture: only this goroutine touches seen and the
// settle timer.
func (d *Daemon) processEvents(done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(d.settle)
	timer.Stop()
	seen := make(map[string]bool)

	for {
		select {
		case ev, ok := <-d.watcher.Events():
			if !ok {
				timer.Stop()
				d.endGesture(seen)
				return
			}
			if d.ignored(ev.Path) {
				continue
			}

			d.mutex.Lock()
			d.lastActivity = ev.Timestamp
			hovering := d.hovering
			d.mutex.Unlock()

			if !hovering && !d.beginGesture() {
				continue
			}
			timer.Reset(d.settle)

			// writes to a file already dropped only extend the gesture
			if seen[ev.Path] {
				continue
			}
			seen[ev.Path] = true
			d.dropFile(ev.Path)

		case <-timer.C:
			d.endGesture(seen)
			clear(seen)
		}
	}
}

func (d *Daemon) beginGesture() bool {
	if err := d.target.Enter(); err != nil {
		log.LogWithError(err).Warn("Drop target busy, ignoring folder activity")
		return false
	}
	d.mutex.Lock()
	d.hovering = true
	d.mutex.Unlock()
	log.Debug("Folder drop started")
	return true
}

func (d *Daemon) dropFile(path string) {
	if err := d.target.DropAddresses(types.Address(path)); err != nil {
		log.LogWithFields(log.F("file", path)).WithError(err).Warn("Failed to drop file")
		return
	}

	d.mutex.Lock()
	d.dropped++
	cb := d.callback
	d.mutex.Unlock()

	log.LogWithFields(log.F("file", path)).Debug("File dropped")
	if cb != nil {
		cb(path)
	}
}

func (d *Daemon) endGesture(seen map[string]bool) {
	d.mutex.Lock()
	if !d.hovering {
		d.mutex.Unlock()
		return
	}
	d.hovering = false
	d.gestures++
	d.mutex.Unlock()

	d.target.Exit()
	log.LogWithFields(log.F("files", len(seen))).Debug("Folder drop settled")
}

func (d *Daemon) ignored(path string) bool {
	name := filepath.Base(path)
	for _, g := range d.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}
