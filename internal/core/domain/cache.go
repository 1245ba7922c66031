package domain

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxEntries is the cache capacity used when none is configured.
const DefaultMaxEntries = 100

// CacheEntry is the most recent successful compilation of one unit.
// Entries are immutable once inserted; a recompile replaces the whole entry.
type CacheEntry struct {
	// Artifact is the compiled component tree.
	Artifact *ComponentTree
	// Fingerprint is the unit's freshness signal at compile time.
	Fingerprint Fingerprint
	// Dependencies lists the units this unit referenced, in first-encounter order.
	Dependencies []string
	// Exports lists the symbols the unit defined.
	Exports []string
	// SourceDigest is the xxhash digest of the compiled source bytes.
	SourceDigest uint64
	// Sequence orders entries by insertion; the smallest is evicted first.
	Sequence uint64
	// CompiledAt is the wall-clock time of insertion.
	CompiledAt time.Time
}

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Entries    int    `json:"entries"`
	MaxEntries int    `json:"max_entries"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Evictions  uint64 `json:"evictions"`
}

// UnitCache is a bounded, thread-safe map from unit path to its last compiled entry.
// When an insertion pushes it over capacity, the oldest entries by Sequence are evicted.
type UnitCache struct {
	mu         sync.RWMutex
	entries    map[UnitID]*CacheEntry
	maxEntries int
	seq        uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewUnitCache creates a cache holding at most maxEntries units.
// A non-positive maxEntries disables eviction.
func NewUnitCache(maxEntries int) *UnitCache {
	return &UnitCache{
		entries:    make(map[UnitID]*CacheEntry),
		maxEntries: maxEntries,
	}
}

// Lookup returns the entry for path if one exists and its fingerprint equals current.
func (c *UnitCache) Lookup(path string, current Fingerprint) (CacheEntry, bool) {
	id := NewUnitID(path)

	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if !ok || entry.Fingerprint != current {
		c.misses.Add(1)
		return CacheEntry{}, false
	}
	c.hits.Add(1)
	return *entry, true
}

// Get returns the stored entry for path regardless of freshness.
func (c *UnitCache) Get(path string) (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[NewUnitID(path)]
	if !ok {
		return CacheEntry{}, false
	}
	return *entry, true
}

// Insert stores entry for path, overwriting any previous entry, and returns the
// paths evicted to stay within capacity.
func (c *UnitCache) Insert(path string, entry CacheEntry) []string {
	id := NewUnitID(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	entry.Sequence = c.seq
	if entry.CompiledAt.IsZero() {
		entry.CompiledAt = time.Now()
	}
	c.entries[id] = &entry

	if c.maxEntries <= 0 {
		return nil
	}

	var evicted []string
	for len(c.entries) > c.maxEntries {
		oldest, ok := c.oldestLocked()
		if !ok {
			break
		}
		delete(c.entries, oldest)
		c.evictions.Add(1)
		evicted = append(evicted, oldest.String())
	}
	return evicted
}

// oldestLocked finds the entry with the smallest sequence.
// Must be called with c.mu held.
func (c *UnitCache) oldestLocked() (UnitID, bool) {
	var (
		oldest UnitID
		minSeq uint64
		found  bool
	)
	for id, entry := range c.entries {
		if !found || entry.Sequence < minSeq {
			oldest, minSeq, found = id, entry.Sequence, true
		}
	}
	return oldest, found
}

// Remove purges path from the cache. It reports whether an entry was present.
func (c *UnitCache) Remove(path string) bool {
	id := NewUnitID(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok {
		return false
	}
	delete(c.entries, id)
	return true
}

// RemoveMany purges every path and returns the ones that were actually cached.
func (c *UnitCache) RemoveMany(paths []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []string
	for _, p := range paths {
		id := NewUnitID(p)
		if _, ok := c.entries[id]; ok {
			delete(c.entries, id)
			removed = append(removed, id.String())
		}
	}
	return removed
}

// Contains reports whether path has an entry, fresh or not.
func (c *UnitCache) Contains(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[NewUnitID(path)]
	return ok
}

// Len returns the number of cached units.
func (c *UnitCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry. Counters are kept.
func (c *UnitCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[UnitID]*CacheEntry)
}

// Stats returns a snapshot of the cache counters.
func (c *UnitCache) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Entries:    n,
		MaxEntries: c.maxEntries,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Evictions:  c.evictions.Load(),
	}
}
