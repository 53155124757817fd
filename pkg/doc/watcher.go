package doc

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"doctor/pkg/logger"
)

const reloadDebounce = 250 * time.Millisecond

// Watcher reloads an Index when its files change on disk.
type Watcher struct {
	log      *logger.Logger
	index    *Index
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	done     chan struct{}
	timer    *time.Timer
	watched  map[string]struct{}
	mu       sync.Mutex
	stopOnce sync.Once
}

// NewWatcher creates an index file watcher.
func NewWatcher(log *logger.Logger, index *Index) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		log:     log,
		index:   index,
		watcher: fsw,
		watched: make(map[string]struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Start watches the index paths that exist.
func (w *Watcher) Start() error {
	if err := w.Sync(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.processEvents(ctx)

	w.mu.Lock()
	dirs := len(w.watched)
	w.mu.Unlock()
	w.log.Info("Index watcher started", zap.Int("dirs", dirs))
	return nil
}

// Sync makes the watched directories match the index's current paths.
// Files are watched through their directory so editors that replace files
// are picked up.
func (w *Watcher) Sync() error {
	want := make(map[string]struct{})
	for _, path := range w.index.Paths() {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		dir := path
		if !info.IsDir() {
			dir = filepath.Dir(path)
		}
		want[dir] = struct{}{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range w.watched {
		if _, ok := want[dir]; ok {
			continue
		}
		if err := w.watcher.Remove(dir); err != nil {
			w.log.Debug("Failed to unwatch index dir", zap.String("dir", dir), zap.Error(err))
		}
		delete(w.watched, dir)
	}
	for dir := range want {
		if _, ok := w.watched[dir]; ok {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.watched[dir] = struct{}{}
	}
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.done
		}
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isIndexFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("Index file changed",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Index watcher error", zap.Error(err))
		}
	}
}

// scheduleReload coalesces bursts of events into one reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, func() {
		if err := w.index.Load(); err != nil {
			w.log.Error("Failed to reload index", zap.Error(err))
		}
	})
}
