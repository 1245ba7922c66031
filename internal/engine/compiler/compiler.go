// Package compiler implements the incremental compiler facade used by hot reload.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/recomp/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

// UnitStatus represents the compile state of a unit.
type UnitStatus string

const (
	// StatusUncompiled indicates the unit has never compiled successfully.
	StatusUncompiled UnitStatus = "Uncompiled"
	// StatusCompiled indicates the unit has a cached artifact.
	StatusCompiled UnitStatus = "Compiled"
	// StatusStale indicates the unit compiled before but its artifact was
	// invalidated or evicted.
	StatusStale UnitStatus = "Stale"
)

// Options configures a Compiler.
type Options struct {
	// MaxEntries bounds the unit cache. Zero or less means unbounded.
	MaxEntries int
	// TrackDependencies records dependency edges on every compile.
	TrackDependencies bool
	// DedupeInFlight collapses concurrent compiles of the same path into one.
	DedupeInFlight bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxEntries:        domain.DefaultMaxEntries,
		TrackDependencies: true,
	}
}

// OptionsFromConfig derives compiler options from the project configuration.
func OptionsFromConfig(cfg *domain.Config) Options {
	return Options{
		MaxEntries:        cfg.Cache.MaxEntries,
		TrackDependencies: cfg.Compiler.TrackDependencies,
		DedupeInFlight:    cfg.Compiler.DedupeInFlight,
	}
}

// Compiler owns the unit cache, the dependency graph and the component registry
// and keeps them consistent across compiles and invalidations.
type Compiler struct {
	src           ports.SourceFS
	fingerprinter ports.Fingerprinter
	translator    ports.Translator
	logger        ports.Logger
	tracer        ports.Tracer
	opts          Options

	cache    *domain.UnitCache
	graph    *domain.DependencyGraph
	registry *domain.ComponentRegistry

	inflight singleflight.Group

	mu     sync.RWMutex
	status map[domain.UnitID]UnitStatus
}

// New creates a Compiler with empty state.
func New(
	src ports.SourceFS,
	fingerprinter ports.Fingerprinter,
	translator ports.Translator,
	logger ports.Logger,
	tracer ports.Tracer,
	opts Options,
) *Compiler {
	return &Compiler{
		src:           src,
		fingerprinter: fingerprinter,
		translator:    translator,
		logger:        logger,
		tracer:        tracer,
		opts:          opts,
		cache:         domain.NewUnitCache(opts.MaxEntries),
		graph:         domain.NewDependencyGraph(),
		registry:      domain.NewComponentRegistry(),
		status:        make(map[domain.UnitID]UnitStatus),
	}
}

// Compile returns the compiled artifact for path, reusing the cached entry when
// the unit's fingerprint has not changed.
func (c *Compiler) Compile(ctx context.Context, path string) (*domain.CompileResult, error) {
	path = filepath.Clean(path)

	if !c.opts.DedupeInFlight {
		return c.compileTraced(ctx, path)
	}

	v, err, shared := c.inflight.Do(path, func() (any, error) {
		return c.compileTraced(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	res, _ := v.(*domain.CompileResult)
	if shared {
		return cloneResult(res), nil
	}
	return res, nil
}

func (c *Compiler) compileTraced(ctx context.Context, path string) (*domain.CompileResult, error) {
	ctx, span := c.tracer.Start(ctx, "compile", ports.WithAttribute("unit.path", path))
	defer span.End()

	res, err := c.compile(ctx, path)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("unit.cached", res.Cached)
	span.SetAttribute("unit.dependencies", res.Dependencies)
	return res, nil
}

func (c *Compiler) compile(_ context.Context, path string) (*domain.CompileResult, error) {
	info, err := c.src.Stat(path)
	if err != nil {
		return nil, statError(path, err)
	}

	fingerprint, err := c.fingerprinter.Fingerprint(path, info)
	if err != nil {
		return nil, domain.NewReadError(path, err)
	}

	if entry, ok := c.cache.Lookup(path, fingerprint); ok {
		return &domain.CompileResult{
			Path:            path,
			Artifact:        entry.Artifact.Clone(),
			Cached:          true,
			Dependencies:    slices.Clone(entry.Dependencies),
			ExportedSymbols: slices.Clone(entry.Exports),
			Fingerprint:     fingerprint,
		}, nil
	}

	start := time.Now()

	source, err := c.src.ReadFile(path)
	if err != nil {
		return nil, statError(path, err)
	}

	tree, err := c.translate(path, source)
	if err != nil {
		return nil, err
	}

	deps := c.resolveDependencies(path, tree)
	exports := tree.Exports()

	for _, symbol := range exports {
		if previous, replaced := c.registry.Register(symbol, path); replaced {
			c.logger.Debug(fmt.Sprintf("component %s now defined by %s (was %s)", symbol, path, previous))
		}
	}

	evicted := c.cache.Insert(path, domain.CacheEntry{
		Artifact:     tree,
		Fingerprint:  fingerprint,
		Dependencies: deps,
		Exports:      exports,
		SourceDigest: xxhash.Sum64(source),
	})

	if c.opts.TrackDependencies {
		c.graph.SetDependencies(path, deps)
	}

	c.mu.Lock()
	c.status[domain.NewUnitID(path)] = StatusCompiled
	for _, e := range evicted {
		c.status[domain.NewUnitID(e)] = StatusStale
	}
	c.mu.Unlock()

	for _, e := range evicted {
		c.logger.Debug("evicted " + e)
	}

	duration := time.Since(start)
	c.logger.Debug(fmt.Sprintf("compiled %s in %v (%d dependencies)", path, duration, len(deps)))

	return &domain.CompileResult{
		Path:            path,
		Artifact:        tree.Clone(),
		Duration:        duration,
		Dependencies:    slices.Clone(deps),
		ExportedSymbols: slices.Clone(exports),
		Fingerprint:     fingerprint,
	}, nil
}

// statError maps a failed stat or read to the matching compile error.
func statError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewFileNotFoundError(path)
	}
	return domain.NewReadError(path, err)
}

// translate runs the translator and classifies its failures.
func (c *Compiler) translate(path string, source []byte) (*domain.ComponentTree, error) {
	tree, err := c.translator.Translate(source)
	if err != nil {
		var (
			terr *domain.TranslationError
			cerr *domain.CompileError
		)
		switch {
		case errors.As(err, &terr):
			return nil, domain.NewCompilationFailedError(path, terr.Line, terr.Column, terr.Message)
		case errors.As(err, &cerr) && cerr.Kind == domain.ErrInvalidComponent:
			return nil, domain.NewInvalidComponentError(path, cerr.Message)
		case errors.Is(err, domain.ErrInvalidComponent):
			return nil, domain.NewInvalidComponentError(path, err.Error())
		default:
			return nil, domain.NewCompilationFailedError(path, 0, 0, err.Error())
		}
	}

	if err := tree.Validate(); err != nil {
		msg := err.Error()
		if at := domain.MalformedNode(err); at != "" {
			msg += " at " + at
		}
		return nil, domain.NewInvalidComponentError(path, msg)
	}
	return tree, nil
}

// resolveDependencies maps every kind referenced by tree to its defining unit.
// Kinds defined by path itself or by no known unit are skipped.
func (c *Compiler) resolveDependencies(path string, tree *domain.ComponentTree) []string {
	kinds := tree.Kinds()
	owners := c.registry.ResolveAll(kinds)

	seen := make(map[string]struct{}, len(owners))
	deps := make([]string, 0, len(owners))
	for _, kind := range kinds {
		owner, ok := owners[kind]
		if !ok || owner == path {
			continue
		}
		if _, dup := seen[owner]; dup {
			continue
		}
		seen[owner] = struct{}{}
		deps = append(deps, owner)
	}
	return deps
}

// CompileMany compiles each path in the given order.
// A unit compiled before the unit defining a component it references does not
// record that dependency; use Rebuild for dependency ordered compiles.
func (c *Compiler) CompileMany(ctx context.Context, paths []string) []domain.Outcome {
	outcomes := make([]domain.Outcome, 0, len(paths))
	for _, p := range paths {
		p = filepath.Clean(p)
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, domain.Outcome{Path: p, Err: err})
			continue
		}
		res, err := c.Compile(ctx, p)
		outcomes = append(outcomes, domain.Outcome{Path: p, Result: res, Err: err})
	}
	return outcomes
}

// Batch compiles paths and aggregates the outcomes. One failing unit never
// prevents the others from compiling.
func (c *Compiler) Batch(ctx context.Context, paths []string) *domain.BatchCompileResult {
	start := time.Now()
	outcomes := c.CompileMany(ctx, paths)
	return domain.NewBatchCompileResult(outcomes, time.Since(start))
}

// InvalidatedBy returns path and every unit that transitively depends on it.
// It does not modify any state.
func (c *Compiler) InvalidatedBy(path string) []string {
	return c.graph.TransitiveDependents(path)
}

// Invalidate purges path and its transitive dependents from the cache and
// returns them. The dependency graph and the registry are left untouched.
func (c *Compiler) Invalidate(path string) []string {
	affected := c.InvalidatedBy(path)
	removed := c.cache.RemoveMany(affected)

	c.mu.Lock()
	for _, p := range removed {
		c.status[domain.NewUnitID(p)] = StatusStale
	}
	c.mu.Unlock()

	c.logger.Debug(fmt.Sprintf("invalidated %d unit(s) for %s, %d were cached", len(affected), filepath.Clean(path), len(removed)))
	return affected
}

// Rebuild invalidates every changed path and recompiles the affected units that
// still exist, each after the units it depends on.
func (c *Compiler) Rebuild(ctx context.Context, changed []string) (*domain.BatchCompileResult, error) {
	var affected []string
	seen := make(map[string]struct{})
	for _, p := range changed {
		for _, u := range c.Invalidate(p) {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			affected = append(affected, u)
		}
	}

	order, err := c.graph.Order(affected)
	if err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(order))
	for _, u := range order {
		if _, err := c.src.Stat(u); errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("skipping deleted unit " + u)
			continue
		}
		targets = append(targets, u)
	}

	return c.Batch(ctx, targets), nil
}

// Status returns the compile state of path.
func (c *Compiler) Status(path string) UnitStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if s, ok := c.status[domain.NewUnitID(path)]; ok {
		return s
	}
	return StatusUncompiled
}

// DependenciesOf returns the recorded dependencies of path.
func (c *Compiler) DependenciesOf(path string) []string {
	return c.graph.DependenciesOf(path)
}

// DependentsOf returns the units directly depending on path.
func (c *Compiler) DependentsOf(path string) []string {
	return c.graph.DependentsOf(path)
}

// Edges returns the recorded dependency edges keyed by unit.
func (c *Compiler) Edges() map[string][]string {
	return c.graph.Edges()
}

// Owner returns the unit defining symbol.
func (c *Compiler) Owner(symbol string) (string, bool) {
	return c.registry.Resolve(symbol)
}

// ClearAll drops every cached entry, dependency edge and registered symbol.
func (c *Compiler) ClearAll() {
	c.cache.Clear()
	c.graph.Clear()
	c.registry.Clear()

	c.mu.Lock()
	c.status = make(map[domain.UnitID]UnitStatus)
	c.mu.Unlock()
}

// Stats returns a snapshot of the compiler state.
func (c *Compiler) Stats() domain.Stats {
	return domain.Stats{
		Cache:        c.cache.Stats(),
		Components:   c.registry.Len(),
		TrackedUnits: c.graph.Units(),
	}
}

func cloneResult(r *domain.CompileResult) *domain.CompileResult {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Artifact = r.Artifact.Clone()
	clone.Dependencies = slices.Clone(r.Dependencies)
	clone.ExportedSymbols = slices.Clone(r.ExportedSymbols)
	return &clone
}
