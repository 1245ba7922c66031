package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recomp/internal/adapters/watcher"
)

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/project/views/card.ui")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/project/views/card.ui"}, receivedPaths)
	})
}

func TestDebouncer_Add_CoalescesAndSorts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/project/views/c.ui")
		d.Add("/project/views/a.ui")
		d.Add("/project/views/./a.ui")
		d.Add("/project/views/b.ui")
		assert.Equal(t, 3, d.Pending())

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/project/views/a.ui", "/project/views/b.ui", "/project/views/c.ui"}, receivedPaths)
		assert.Equal(t, 0, d.Pending())
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var mu sync.Mutex

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		d.Add("/project/views/a.ui")
		time.Sleep(50 * time.Millisecond)

		// Second add restarts the window.
		d.Add("/project/views/b.ui")
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		count := callCount
		mu.Unlock()
		assert.Equal(t, 0, count)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		count = callCount
		mu.Unlock()
		require.Equal(t, 1, count)
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/project/views/b.ui")
		d.Add("/project/views/a.ui")
		d.Flush()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/project/views/a.ui", "/project/views/b.ui"}, receivedPaths)

		// The stopped timer must not deliver the batch a second time.
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var callCount int

	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
		callCount++
	})

	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_Flush_AfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/project/views/a.ui")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 1, callCount)

		d.Flush()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/project/views/a.ui")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
	})
}
