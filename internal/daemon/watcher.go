package daemon

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches individual files for changes and calls a handler
// with the changed path. It watches parent directories, which survives
// editors that replace files via rename.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu       sync.Mutex
	handlers map[string]func(path string)
	done     chan struct{}
	stopped  chan struct{}
	running  bool
}

// NewFileWatcher creates an idle watcher.
func NewFileWatcher(logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger,
		handlers: make(map[string]func(string)),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Watch registers handler for path, replacing any previous handler. It may
// be called before or after Start.
func (fw *FileWatcher) Watch(path string, handler func(path string)) error {
	if path == "" {
		return errors.New("empty watch path")
	}
	path = filepath.Clean(path)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	dir := filepath.Dir(path)
	if !fw.watchingDir(dir) {
		if err := fw.watcher.Add(dir); err != nil {
			return err
		}
	}
	fw.handlers[path] = handler
	return nil
}

// Unwatch drops the handler for path and stops watching its directory
// once no other watched file lives there.
func (fw *FileWatcher) Unwatch(path string) error {
	path = filepath.Clean(path)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, ok := fw.handlers[path]; !ok {
		return nil
	}
	delete(fw.handlers, path)

	dir := filepath.Dir(path)
	if fw.watchingDir(dir) {
		return nil
	}
	if err := fw.watcher.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
		return err
	}
	return nil
}

func (fw *FileWatcher) watchingDir(dir string) bool {
	for p := range fw.handlers {
		if filepath.Dir(p) == dir {
			return true
		}
	}
	return false
}

// Start begins delivering change events.
func (fw *FileWatcher) Start() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running {
		return
	}
	fw.running = true
	go fw.watch()
}

// watch is the main event loop.
func (fw *FileWatcher) watch() {
	defer close(fw.stopped)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			fw.mu.Lock()
			handler := fw.handlers[filepath.Clean(event.Name)]
			fw.mu.Unlock()

			if handler != nil {
				fw.logger.Debug("watched file changed", "file", event.Name, "op", event.Op.String())
				handler(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", "error", err)

		case <-fw.done:
			return
		}
	}
}

// Stop stops the watcher and waits for the event loop to exit.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return fw.watcher.Close()
	}
	fw.running = false
	close(fw.done)
	fw.mu.Unlock()

	<-fw.stopped
	return fw.watcher.Close()
}
