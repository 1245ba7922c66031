// Package app implements the application layer for recomp.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.trai.ch/recomp/internal/adapters/fs"
	"go.trai.ch/recomp/internal/adapters/linear"
	"go.trai.ch/recomp/internal/adapters/telemetry"
	"go.trai.ch/recomp/internal/adapters/watcher"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/recomp/internal/core/ports"
	"go.trai.ch/recomp/internal/engine/compiler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	src          ports.SourceFS
	translator   ports.Translator
	tracer       ports.Tracer
	walker       *fs.Walker
	newWatcher   watcher.Factory
	newRenderer  func(root string) ports.Renderer
	telemetry    bool
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	src ports.SourceFS,
	translator ports.Translator,
	tracer ports.Tracer,
	walker *fs.Walker,
	newWatcher watcher.Factory,
	newRenderer linear.Factory,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		src:          src,
		translator:   translator,
		tracer:       tracer,
		walker:       walker,
		newWatcher:   newWatcher,
		newRenderer: func(root string) ports.Renderer {
			return newRenderer(root)
		},
		telemetry: true,
	}
}

// WithRenderer makes the App report to r instead of the console.
// This is primarily used for testing.
func (a *App) WithRenderer(r ports.Renderer) *App {
	a.newRenderer = func(string) ports.Renderer { return r }
	return a
}

// WithoutTelemetry keeps the App from installing the global OpenTelemetry provider.
// This is primarily used for testing.
func (a *App) WithoutTelemetry() *App {
	a.telemetry = false
	return a
}

// loggingConfigurer is implemented by loggers whose verbosity and format can change at runtime.
type loggingConfigurer interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

// ConfigureLogging applies the global logging flags when the logger supports them.
func (a *App) ConfigureLogging(verbose, jsonLog bool) {
	lc, ok := a.logger.(loggingConfigurer)
	if !ok {
		return
	}
	lc.SetVerbose(verbose)
	lc.SetJSON(jsonLog)
}

// ProjectOptions selects the project configuration.
type ProjectOptions struct {
	// ConfigPath is an explicit config file. When empty, recomp.yaml is
	// discovered from Dir upwards.
	ConfigPath string
	// Dir is the working directory. Defaults to ".".
	Dir string
}

// LoadConfig resolves the project configuration.
func (a *App) LoadConfig(opts ProjectOptions) (*domain.Config, error) {
	if opts.ConfigPath != "" {
		cfg, err := a.configLoader.LoadFile(opts.ConfigPath)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to load configuration")
		}
		return cfg, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	cfg, err := a.configLoader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// NewCompiler builds a compiler configured by cfg.
func (a *App) NewCompiler(cfg *domain.Config) (*compiler.Compiler, error) {
	fingerprinter, err := fs.NewFingerprinter(cfg.Cache.Fingerprint, a.src)
	if err != nil {
		return nil, err
	}
	return compiler.New(a.src, fingerprinter, a.translator, a.logger, a.tracer, compiler.OptionsFromConfig(cfg)), nil
}

// session bundles what a single command needs.
type session struct {
	cfg      *domain.Config
	compiler *compiler.Compiler
	renderer ports.Renderer
}

// open loads the configuration and builds a compiler and a renderer for it.
// The returned function releases telemetry resources.
func (a *App) open(ctx context.Context, opts ProjectOptions) (*session, func(), error) {
	cfg, err := a.LoadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	comp, err := a.NewCompiler(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	if a.telemetry {
		tp := telemetry.Setup(a.logger)
		cleanup = func() {
			_ = tp.Shutdown(context.WithoutCancel(ctx))
		}
	}

	return &session{
		cfg:      cfg,
		compiler: comp,
		renderer: a.newRenderer(cfg.Root),
	}, cleanup, nil
}

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	ProjectOptions
	// Settle recompiles every unit once more in dependency order so that
	// references to units compiled later in the first pass are resolved.
	Settle bool
}

// Compile compiles the units named by args, or every unit of the project
// when args is empty. Args may be files, directories or glob patterns.
func (a *App) Compile(ctx context.Context, args []string, opts CompileOptions) error {
	s, cleanup, err := a.open(ctx, opts.ProjectOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	units, err := a.resolveUnits(s.cfg, args)
	if err != nil {
		return err
	}

	batch, err := a.compileUnits(ctx, s, units, opts.Settle)
	if err != nil {
		return err
	}
	return failureError(batch)
}

// compileUnits compiles units as one batch, optionally followed by a settle pass.
func (a *App) compileUnits(ctx context.Context, s *session, units []string, settle bool) (*domain.BatchCompileResult, error) {
	batch := s.compiler.Batch(ctx, units)

	if settle && batch.AllSucceeded() {
		settled, err := s.compiler.Rebuild(ctx, units)
		if err != nil {
			return nil, err
		}
		batch = settled
	}

	report(s.renderer, batch)

	stats := s.compiler.Stats()
	a.logger.Debug(fmt.Sprintf("cache: %d/%d entries, %d hits, %d misses, %d evictions, %d components",
		stats.Cache.Entries, stats.Cache.MaxEntries, stats.Cache.Hits, stats.Cache.Misses,
		stats.Cache.Evictions, stats.Components))

	return batch, ctx.Err()
}

// GraphOptions configuration for the Graph method.
type GraphOptions struct {
	ProjectOptions
	// Affected, when set, prints the units a change to this path would invalidate
	// instead of the full graph.
	Affected string
}

// Graph compiles the project and prints its dependency graph.
func (a *App) Graph(ctx context.Context, args []string, opts GraphOptions) error {
	s, cleanup, err := a.open(ctx, opts.ProjectOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	units, err := a.resolveUnits(s.cfg, args)
	if err != nil {
		return err
	}

	batch := s.compiler.Batch(ctx, units)
	if batch.AllSucceeded() {
		// Second pass so edges do not depend on discovery order.
		if batch, err = s.compiler.Rebuild(ctx, units); err != nil {
			return err
		}
	}
	for _, f := range batch.Failures {
		s.renderer.OnFailure(f.Path, f.Err)
	}

	if opts.Affected != "" {
		changed, err := filepath.Abs(opts.Affected)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", opts.Affected)
		}
		s.renderer.OnInvalidate(changed, s.compiler.InvalidatedBy(changed))
	} else {
		s.renderer.OnGraph(s.compiler.Edges())
	}

	return failureError(batch)
}

// report sends every outcome of batch to the renderer.
func report(r ports.Renderer, batch *domain.BatchCompileResult) {
	for _, res := range batch.Successes {
		r.OnCompile(res)
	}
	for _, f := range batch.Failures {
		r.OnFailure(f.Path, f.Err)
	}
	r.OnSummary(batch)
}

// failureError joins the batch failures behind domain.ErrCompileFailed.
func failureError(batch *domain.BatchCompileResult) error {
	if batch.AllSucceeded() {
		return nil
	}
	errs := make([]error, 0, len(batch.Failures)+1)
	errs = append(errs, domain.ErrCompileFailed)
	for _, f := range batch.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}
