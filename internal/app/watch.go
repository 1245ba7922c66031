package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.trai.ch/recomp/internal/adapters/fs"
	"go.trai.ch/recomp/internal/adapters/watcher"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	ProjectOptions
}

// Watch compiles the project, then recompiles the units affected by every
// debounced batch of file changes until ctx is canceled.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	s, cleanup, err := a.open(ctx, opts.ProjectOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	units, err := a.resolveUnits(s.cfg, nil)
	if err != nil {
		// An empty project is fine; units may be created while watching.
		a.logger.Warn(fmt.Sprintf("no units found in %s", s.cfg.Root))
	}
	if len(units) > 0 {
		if _, err := a.compileUnits(ctx, s, units, true); err != nil {
			a.logger.Error(err)
		}
	}

	w, err := a.newWatcher(s.cfg.Watch.Ignore)
	if err != nil {
		return err
	}
	if err := w.Start(ctx, s.cfg.Root); err != nil {
		_ = w.Stop()
		return zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	a.logger.Info(fmt.Sprintf("watching %s", s.cfg.Root))

	// Rebuilds are serialized; batches that arrive meanwhile wait their turn.
	turn := make(chan struct{}, 1)
	rebuild := func(paths []string) {
		changed := a.filterUnits(s.cfg, paths)
		if len(changed) == 0 || ctx.Err() != nil {
			return
		}

		turn <- struct{}{}
		defer func() { <-turn }()
		// Watch may have returned while this batch waited for its turn.
		if ctx.Err() != nil {
			return
		}

		for _, p := range changed {
			s.renderer.OnInvalidate(p, s.compiler.InvalidatedBy(p))
		}

		batch, err := s.compiler.Rebuild(ctx, changed)
		if err != nil {
			a.logger.Error(err)
			return
		}
		report(s.renderer, batch)
	}

	debouncer := watcher.NewDebouncer(s.cfg.Watch.Debounce, rebuild)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for ev := range w.Events() {
			a.logger.Debug(fmt.Sprintf("%s %s", ev.Operation, ev.Path))
			debouncer.Add(ev.Path)
		}
		if gctx.Err() == nil {
			return domain.ErrWatcherClosed
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		err := w.Stop()
		// Drain pending changes so no timer fires after Watch returns.
		debouncer.Flush()
		return err
	})

	if err := g.Wait(); err != nil {
		return zerr.Wrap(err, "watcher failed")
	}

	// Wait for a rebuild started by the debounce timer.
	turn <- struct{}{}
	<-turn
	return nil
}

// filterUnits keeps the paths that are units under the configured include and
// ignore patterns.
func (a *App) filterUnits(cfg *domain.Config, paths []string) []string {
	units := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(cfg.Root, p)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if fs.MatchAny(cfg.Watch.Ignore, rel) || !fs.MatchAny(cfg.Watch.Include, rel) {
			continue
		}
		units = append(units, p)
	}
	return units
}
