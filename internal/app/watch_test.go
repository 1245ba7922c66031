package app_test

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recomp/internal/adapters/fs"
	"go.trai.ch/recomp/internal/app"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/recomp/internal/core/ports"
	"go.trai.ch/recomp/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// channelWatcher feeds events from a channel. Stop and the returned function
// both close it.
func channelWatcher(ctrl *gomock.Controller, events chan ports.WatchEvent) (*mocks.MockWatcher, func()) {
	w := mocks.NewMockWatcher(ctrl)
	var once sync.Once
	closeEvents := func() { once.Do(func() { close(events) }) }

	w.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil)
	w.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}))
	w.EXPECT().Stop().DoAndReturn(func() error {
		closeEvents()
		return nil
	})
	return w, closeEvents
}

func TestApp_Watch_RebuildsDependents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := make(chan ports.WatchEvent)
		w, _ := channelWatcher(ctrl, events)

		var gotIgnore []string
		f := newFixture(t, func(ignore []string) (ports.Watcher, error) {
			gotIgnore = ignore
			return w, nil
		})
		card := f.write(t, "card.ui", cardSource)
		screen := f.write(t, "screen.ui", screenSource)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- f.app.Watch(ctx, app.WatchOptions{ProjectOptions: f.project()})
		}()

		// Initial compile, then idle on the event channel.
		synctest.Wait()
		assert.Equal(t, domain.DefaultIgnorePatterns(), gotIgnore)
		require.NotNil(t, f.renderer.lastCompile(screen))
		initial := len(f.renderer.compiled)

		f.write(t, "card.ui", "kind: Card\nprops:\n  title: Changed\n")
		events <- ports.WatchEvent{Path: card, Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: f.dir + "/notes.txt", Operation: ports.OpWrite}

		time.Sleep(2 * domain.DefaultDebounce)
		synctest.Wait()

		f.renderer.mu.Lock()
		invalidated := f.renderer.invalidated
		recompiled := f.renderer.compiled[initial:]
		f.renderer.mu.Unlock()

		assert.Equal(t, map[string][]string{card: {card, screen}}, invalidated)
		require.Len(t, recompiled, 2)
		assert.Equal(t, card, recompiled[0].Path)
		assert.Equal(t, "Changed", recompiled[0].Artifact.Props["title"])
		assert.Equal(t, screen, recompiled[1].Path)
		assert.Equal(t, []string{card}, recompiled[1].Dependencies)

		cancel()
		require.NoError(t, <-errCh)
	})
}

func TestApp_Watch_CompilesCreatedUnits(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := make(chan ports.WatchEvent)
		w, _ := channelWatcher(ctrl, events)

		f := newFixture(t, func([]string) (ports.Watcher, error) { return w, nil })
		// Empty project is only a warning.
		f.logger.EXPECT().Warn(gomock.Any())

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- f.app.Watch(ctx, app.WatchOptions{ProjectOptions: f.project()})
		}()
		synctest.Wait()

		card := f.write(t, "card.ui", cardSource)
		events <- ports.WatchEvent{Path: card, Operation: ports.OpCreate}

		time.Sleep(2 * domain.DefaultDebounce)
		synctest.Wait()

		assert.NotNil(t, f.renderer.lastCompile(card))

		cancel()
		require.NoError(t, <-errCh)
	})
}

func TestApp_Watch_SkipsRemovedUnits(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := make(chan ports.WatchEvent)
		w, _ := channelWatcher(ctrl, events)

		f := newFixture(t, func([]string) (ports.Watcher, error) { return w, nil })
		card := f.write(t, "card.ui", cardSource)
		screen := f.write(t, "screen.ui", screenSource)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- f.app.Watch(ctx, app.WatchOptions{ProjectOptions: f.project()})
		}()
		synctest.Wait()
		initial := len(f.renderer.compiled)

		require.NoError(t, os.Remove(card))
		events <- ports.WatchEvent{Path: card, Operation: ports.OpRemove}

		time.Sleep(2 * domain.DefaultDebounce)
		synctest.Wait()

		f.renderer.mu.Lock()
		recompiled := f.renderer.compiled[initial:]
		_, cardFailed := f.renderer.failed[card]
		f.renderer.mu.Unlock()

		require.Len(t, recompiled, 1)
		assert.Equal(t, screen, recompiled[0].Path)
		assert.False(t, cardFailed)

		cancel()
		require.NoError(t, <-errCh)
	})
}

func TestApp_Watch_CancelDropsQueuedRebuild(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := make(chan ports.WatchEvent)
		w, _ := channelWatcher(ctrl, events)

		dir := t.TempDir()
		card := filepath.Join(dir, "card.ui")
		src := &gatedSource{SourceFS: fs.NewOSFS(), path: card, release: make(chan struct{})}
		f := newFixtureWithSource(t, func([]string) (ports.Watcher, error) { return w, nil }, src)
		f.dir = dir
		f.write(t, "card.ui", cardSource)
		screen := f.write(t, "screen.ui", screenSource)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- f.app.Watch(ctx, app.WatchOptions{ProjectOptions: f.project()})
		}()
		synctest.Wait()

		// The first rebuild stalls on the card while holding its turn.
		src.armed.Store(true)
		events <- ports.WatchEvent{Path: card, Operation: ports.OpWrite}
		time.Sleep(2 * domain.DefaultDebounce)
		synctest.Wait()

		// The second batch queues behind it.
		events <- ports.WatchEvent{Path: screen, Operation: ports.OpWrite}
		time.Sleep(2 * domain.DefaultDebounce)
		synctest.Wait()

		cancel()
		synctest.Wait()
		close(src.release)

		require.NoError(t, <-errCh)
		synctest.Wait()

		f.renderer.mu.Lock()
		defer f.renderer.mu.Unlock()
		assert.Contains(t, f.renderer.invalidated, card)
		assert.NotContains(t, f.renderer.invalidated, screen)
	})
}

func TestApp_Watch_WatcherClosed(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := make(chan ports.WatchEvent)
		w, closeEvents := channelWatcher(ctrl, events)

		f := newFixture(t, func([]string) (ports.Watcher, error) { return w, nil })
		f.write(t, "card.ui", cardSource)

		errCh := make(chan error, 1)
		go func() {
			errCh <- f.app.Watch(context.Background(), app.WatchOptions{ProjectOptions: f.project()})
		}()
		synctest.Wait()

		closeEvents()

		err := <-errCh
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ErrWatcherClosed.Error())
	})
}
