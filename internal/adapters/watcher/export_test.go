package watcher

import (
	"iter"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/recomp/internal/core/ports"
)

// Directories exposes the watched directory walk for testing.
func (w *Watcher) Directories(root string) iter.Seq[string] {
	w.root = root
	return w.directories(root)
}

// ConvertEvent exposes convertEvent for testing.
func ConvertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	return convertEvent(event)
}
