// Package domain contains the core types of the incremental compiler: the unit
// cache, the dependency graph between units and the component registry.
package domain

import (
	"slices"
	"sync"
)

// DependencyGraph records which units each unit depends on and the inverse
// relation. Both directions are updated together under one lock so that for
// every u and every d in dependsOn[u], u is in dependedOnBy[d].
type DependencyGraph struct {
	mu           sync.RWMutex
	dependsOn    map[UnitID][]UnitID
	dependedOnBy map[UnitID]map[UnitID]struct{}
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependsOn:    make(map[UnitID][]UnitID),
		dependedOnBy: make(map[UnitID]map[UnitID]struct{}),
	}
}

// SetDependencies replaces the dependency list of unit.
// Reverse edges from dependencies that are no longer referenced are pruned.
// Duplicates and self references in deps are ignored.
func (g *DependencyGraph) SetDependencies(unit string, deps []string) {
	u := NewUnitID(unit)

	next := make([]UnitID, 0, len(deps))
	nextSet := make(map[UnitID]struct{}, len(deps))
	for _, d := range deps {
		id := NewUnitID(d)
		if id == u {
			continue
		}
		if _, dup := nextSet[id]; dup {
			continue
		}
		nextSet[id] = struct{}{}
		next = append(next, id)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, old := range g.dependsOn[u] {
		if _, keep := nextSet[old]; !keep {
			g.unlinkLocked(old, u)
		}
	}

	for _, d := range next {
		dependents, ok := g.dependedOnBy[d]
		if !ok {
			dependents = make(map[UnitID]struct{})
			g.dependedOnBy[d] = dependents
		}
		dependents[u] = struct{}{}
	}

	g.dependsOn[u] = next
}

// unlinkLocked removes dependent from the reverse edges of dep.
// Must be called with g.mu held.
func (g *DependencyGraph) unlinkLocked(dep, dependent UnitID) {
	dependents, ok := g.dependedOnBy[dep]
	if !ok {
		return
	}
	delete(dependents, dependent)
	if len(dependents) == 0 {
		delete(g.dependedOnBy, dep)
	}
}

// DependenciesOf returns the units unit depends on, in recorded order.
func (g *DependencyGraph) DependenciesOf(unit string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return UnitPaths(g.dependsOn[NewUnitID(unit)])
}

// DependentsOf returns the units that directly depend on unit, sorted by path.
func (g *DependencyGraph) DependentsOf(unit string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return UnitPaths(g.sortedDependentsLocked(NewUnitID(unit)))
}

// sortedDependentsLocked returns the direct dependents of u in path order.
// Must be called with g.mu held.
func (g *DependencyGraph) sortedDependentsLocked(u UnitID) []UnitID {
	set := g.dependedOnBy[u]
	if len(set) == 0 {
		return nil
	}
	ids := make([]UnitID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	SortUnits(ids)
	return ids
}

// TransitiveDependents returns unit followed by every unit that depends on it
// directly or indirectly, in breadth-first order. Each unit appears once, so
// cycles terminate.
func (g *DependencyGraph) TransitiveDependents(unit string) []string {
	start := NewUnitID(unit)

	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := map[UnitID]struct{}{start: {}}
	order := []UnitID{start}
	queue := []UnitID{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dependent := range g.sortedDependentsLocked(current) {
			if _, seen := visited[dependent]; seen {
				continue
			}
			visited[dependent] = struct{}{}
			order = append(order, dependent)
			queue = append(queue, dependent)
		}
	}

	return UnitPaths(order)
}

// Order sorts units so that every unit comes after the units it depends on.
// Only edges between members of units are considered. The result is
// deterministic for a given graph. A cycle among the units yields an
// ErrDependencyCycle CompileError carrying the cycle path.
func (g *DependencyGraph) Order(units []string) ([]string, error) {
	ids := NewUnitIDs(units)
	SortUnits(ids)
	ids = slices.Compact(ids)

	members := make(map[UnitID]struct{}, len(ids))
	for _, id := range ids {
		members[id] = struct{}{}
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[UnitID]int, len(ids))
	order := make([]UnitID, 0, len(ids))
	var path []UnitID

	var visit func(u UnitID) error
	visit = func(u UnitID) error {
		state[u] = visiting
		path = append(path, u)

		for _, dep := range g.dependsOn[u] {
			if _, ok := members[dep]; !ok {
				continue
			}
			switch state[dep] {
			case visiting:
				return buildCycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[u] = done
		path = path[:len(path)-1]
		order = append(order, u)
		return nil
	}

	for _, id := range ids {
		if state[id] == unvisited {
			if err := visit(id); err != nil {
				return nil, err
			}
		}
	}

	return UnitPaths(order), nil
}

// buildCycleError constructs a cycle error from the current DFS path.
func buildCycleError(path []UnitID, dep UnitID) error {
	start := slices.Index(path, dep)
	cycle := UnitPaths(path[start:])
	cycle = append(cycle, dep.String())
	return NewCycleError(cycle)
}

// Units returns the number of units with recorded dependency facts.
func (g *DependencyGraph) Units() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.dependsOn)
}

// Edges returns a copy of the forward adjacency, keyed by path.
func (g *DependencyGraph) Edges() map[string][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make(map[string][]string, len(g.dependsOn))
	for u, deps := range g.dependsOn {
		edges[u.String()] = UnitPaths(deps)
	}
	return edges
}

// Clear drops every edge.
func (g *DependencyGraph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dependsOn = make(map[UnitID][]UnitID)
	g.dependedOnBy = make(map[UnitID]map[UnitID]struct{})
}
