package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	fsadapter "go.trai.ch/recomp/internal/adapters/fs"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/recomp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify. Directories matching one
// of the ignore patterns, relative to the watched root, are never watched.
type Watcher struct {
	logger    ports.Logger
	ignore    []string
	fsWatcher *fsnotify.Watcher
	root      string
	events    chan ports.WatchEvent
	stopOnce  sync.Once
}

// NewWatcher creates a watcher. When ignore is empty the default ignore
// patterns are used.
func NewWatcher(logger ports.Logger, ignore []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	if len(ignore) == 0 {
		ignore = domain.DefaultIgnorePatterns()
	}
	return &Watcher{
		logger:    logger,
		ignore:    ignore,
		fsWatcher: fsw,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start begins watching root recursively. Events stop when ctx is canceled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "root", root)
	}
	w.root = abs

	for dir := range w.directories(abs) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "dir", dir)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsWatcher.Close()
	})
	return err
}

// Events returns an iterator of file system events. It ends once the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// directories yields start and every directory below it that is not ignored.
func (w *Watcher) directories(start string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if w.ignored(path) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// ignored reports whether the directory at path matches an ignore pattern.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	return fsadapter.MatchAny(w.ignore, rel) || fsadapter.MatchAny(w.ignore, rel+"/")
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			if watchEvent.Operation == ports.OpCreate {
				w.watchNewDirectory(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(fmt.Sprintf("watcher: file system error: %v", err))
		}
	}
}

// watchNewDirectory adds a freshly created directory tree to the watch list.
func (w *Watcher) watchNewDirectory(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	for dir := range w.directories(path) {
		if err := w.fsWatcher.Add(dir); err != nil {
			w.logger.Debug(fmt.Sprintf("watcher: cannot watch %s: %v", dir, err))
		}
	}
}

// convertEvent maps an fsnotify event to a ports.WatchEvent. Chmod-only events are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
