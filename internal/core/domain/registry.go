package domain

import "sync"

// ComponentRegistry maps an exported symbol to the unit that defines it.
// A symbol has at most one owner; registering it again from another unit
// silently replaces the previous owner.
type ComponentRegistry struct {
	mu      sync.RWMutex
	symbols map[string]UnitID
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{symbols: make(map[string]UnitID)}
}

// Register records unit as the owner of symbol. When a different unit owned the
// symbol before, it is returned with replaced set to true.
func (r *ComponentRegistry) Register(symbol, unit string) (previous string, replaced bool) {
	id := NewUnitID(unit)

	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.symbols[symbol]
	r.symbols[symbol] = id
	if ok && old != id {
		return old.String(), true
	}
	return "", false
}

// Resolve returns the unit defining symbol.
func (r *ComponentRegistry) Resolve(symbol string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.symbols[symbol]
	if !ok {
		return "", false
	}
	return id.String(), true
}

// ResolveAll resolves every known symbol under a single read lock.
// Unknown symbols are absent from the result.
func (r *ComponentRegistry) ResolveAll(symbols []string) map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resolved := make(map[string]string, len(symbols))
	for _, s := range symbols {
		if id, ok := r.symbols[s]; ok {
			resolved[s] = id.String()
		}
	}
	return resolved
}

// Len returns the number of registered symbols.
func (r *ComponentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.symbols)
}

// Clear forgets every symbol.
func (r *ComponentRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.symbols = make(map[string]UnitID)
}
