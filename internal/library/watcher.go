package library

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of file events (copies, imports)
const DefaultDebounce = 500 * time.Millisecond

// Change reports that library content changed. Path is the last file seen in
// the burst.
type Change struct {
	Path string
	Op   fsnotify.Op
	At   time.Time
}

// Watcher monitors a library root for file changes using fsnotify
type Watcher struct {
	lib      *Library
	debounce time.Duration
	logger   *slog.Logger

	fsWatcher *fsnotify.Watcher
	changes   chan Change
	stopChan  chan struct{}
	done      chan struct{}

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for lib. A non-positive debounce uses
// DefaultDebounce.
func NewWatcher(lib *Library, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		lib:       lib,
		debounce:  debounce,
		logger:    logger,
		fsWatcher: fsWatcher,
		changes:   make(chan Change, 1),
	}, nil
}

// Changes delivers debounced change notifications
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start watches the root and, for recursive libraries, every subdirectory
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}

	if err := w.addTree(w.lib.Root()); err != nil {
		return err
	}

	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop(w.stopChan, w.done)

	w.logger.Info("watching library", "root", w.lib.Root())
	return nil
}

// Stop ends the event loop and releases the fsnotify watcher
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopChan)
	done := w.done
	w.mu.Unlock()

	<-done
	return w.fsWatcher.Close()
}

func (w *Watcher) addTree(dir string) error {
	if !w.lib.opts.Recursive {
		return w.fsWatcher.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.lib.Root() && !w.lib.opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var (
		pending *Change
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-stop:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			pending = &Change{Path: event.Name, Op: event.Op, At: time.Now()}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if pending == nil {
				continue
			}
			// Non-blocking: an undelivered change already means "reload"
			select {
			case w.changes <- *pending:
			default:
			}
			pending = nil

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// relevant filters events down to matched files and new directories
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) && !event.Op.Has(fsnotify.Write) {
		return false
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.lib.opts.Recursive {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return true
		}
	}
	return w.lib.Matches(filepath.Base(event.Name))
}
