package watch

import (
	"os"
	"sync"
	"time"

	"textdrop/internal/errors"
	"textdrop/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileEvent is a file that appeared or changed in a watched directory
type FileEvent struct {
	Path      string
	Info      os.FileInfo
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors directories for new or written files using fsnotify
type Watcher struct {
	// Directories being watched
	directories []string

	// Channel to receive file events
	events chan FileEvent

	// Channel to signal stop
	stopChan chan struct{}

	// Closed when the event loop has returned
	done chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	mutex sync.RWMutex

	running bool
}

// NewWatcher creates a new directory watcher using fsnotify
func NewWatcher() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	return &Watcher{
		directories: []string{},
		events:      make(chan FileEvent, 64),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewFileError("watch directory not found", dir, errors.FileNotFound, err)
		}
		return errors.NewFileError("error accessing directory", dir, errors.Unknown, err)
	}

	if !info.IsDir() {
		return errors.NewFileError("not a directory", dir, errors.InvalidPath, nil)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to add directory %s to watcher", dir)
	}

	w.mutex.Lock()
	found := false
	for _, existingDir := range w.directories {
		if existingDir == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Events returns the channel that delivers file events. It is closed by Stop.
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Start begins the event loop
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop(w.stopChan, w.done)

	log.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}

			// the file may already be gone again
			info, err := os.Stat(event.Name)
			if err != nil {
				if !os.IsNotExist(err) {
					log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Error("Error stating file")
				}
				continue
			}
			if info.IsDir() {
				continue
			}

			ev := FileEvent{
				Path:      event.Name,
				Info:      info,
				Timestamp: time.Now(),
				Op:        event.Op,
			}
			select {
			case w.events <- ev:
			case <-stop:
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// Stop halts the watcher and closes the event channel
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	<-w.done

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}

	w.running = false
	close(w.events)

	log.Debug("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the list of directories being watched
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirsCopy := make([]string, len(w.directories))
	copy(dirsCopy, w.directories)
	return dirsCopy
}
