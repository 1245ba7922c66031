// Package watcher turns file system notifications into debounced batches of
// changed unit paths.
package watcher

import (
	"sync"
	"time"

	"go.trai.ch/recomp/internal/core/domain"
)

// Debouncer coalesces rapid file system events into one batch per quiet window.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[domain.UnitID]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a debouncer that calls callback with the changed paths
// once no new path was added for window.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[domain.UnitID]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records a changed path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[domain.NewUnitID(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// Pending returns the number of paths waiting for the window to close.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// takeLocked drains the pending set into a sorted slice.
// Must be called with d.mu held.
func (d *Debouncer) takeLocked() []string {
	ids := make([]domain.UnitID, 0, len(d.pending))
	for id := range d.pending {
		ids = append(ids, id)
	}
	d.pending = make(map[domain.UnitID]struct{})
	domain.SortUnits(ids)
	return domain.UnitPaths(ids)
}

func (d *Debouncer) fire() {
	d.mu.Lock()

	// Flush may have drained the set already.
	if len(d.pending) == 0 {
		d.timer = nil
		d.mu.Unlock()
		return
	}

	paths := d.takeLocked()
	d.timer = nil
	d.mu.Unlock()

	if d.callback != nil {
		go d.callback(paths)
	}
}

// Flush runs the callback with all pending paths and blocks until it returns.
// When the timer already fired, the running batch owns the paths and Flush is a no-op.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}

	paths := d.takeLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}
