package shader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-display/common"
	"github.com/fsnotify/fsnotify"
)

// ReloadEvent reports that a watched shader file changed on disk.
type ReloadEvent struct {
	Path string
}

// Watcher reports edits to shader files so pipelines can be rebuilt while the application runs.
type Watcher interface {
	// Events returns the channel reload events are delivered on. Bursts of writes to the same
	// file are coalesced into one event.
	//
	// Returns:
	//   - <-chan ReloadEvent: the event channel, closed by Close
	Events() <-chan ReloadEvent

	// Add starts watching another file.
	//
	// Parameters:
	//   - path: the file to watch
	//
	// Returns:
	//   - error: an error if the file's directory cannot be watched
	Add(path string) error

	// Close stops watching and closes the event channel.
	//
	// Returns:
	//   - error: the error from closing the underlying watcher
	Close() error
}

type watcher struct {
	logger   *slog.Logger
	debounce time.Duration

	fs     *fsnotify.Watcher
	events chan ReloadEvent
	done   chan struct{}

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}

	closeOnce sync.Once
}

var _ Watcher = &watcher{}

// NewWatcher watches the given shader files. Directories are watched rather than the files
// themselves so editors that replace files on save keep reporting changes.
//
// Parameters:
//   - paths: the shader files to watch
//
// Returns:
//   - Watcher: the running watcher
//   - error: an error if the file system watcher cannot be created or a path cannot be watched
func NewWatcher(paths ...string) (Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader: failed to create watcher: %w", err)
	}
	w := &watcher{
		logger:   common.Logger(),
		debounce: 50 * time.Millisecond,
		fs:       fs,
		events:   make(chan ReloadEvent, 16),
		done:     make(chan struct{}),
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			fs.Close()
			return nil, err
		}
	}
	go w.run()
	return w, nil
}

func (w *watcher) Events() <-chan ReloadEvent {
	return w.events
}

func (w *watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("shader: failed to resolve %q: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[abs] = struct{}{}
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		delete(w.files, abs)
		return fmt.Errorf("shader: failed to watch %q: %w", dir, err)
	}
	w.dirs[dir] = struct{}{}
	return nil
}

func (w *watcher) watched(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return abs, ok
}

func (w *watcher) run() {
	defer close(w.events)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path, ok := w.watched(event.Name)
			if !ok {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("shader watcher error", slog.String("error", err.Error()))
		case <-timer.C:
			for path := range pending {
				select {
				case w.events <- ReloadEvent{Path: path}:
					w.logger.Info("shader changed", slog.String("path", path))
				case <-w.done:
					return
				}
			}
			clear(pending)
		}
	}
}

func (w *watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}
