package app_test

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/recomp/internal/adapters/config"
	"go.trai.ch/recomp/internal/adapters/fs"
	"go.trai.ch/recomp/internal/adapters/linear"
	"go.trai.ch/recomp/internal/adapters/telemetry"
	"go.trai.ch/recomp/internal/adapters/translator"
	"go.trai.ch/recomp/internal/adapters/watcher"
	"go.trai.ch/recomp/internal/app"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/recomp/internal/core/ports"
	"go.trai.ch/recomp/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// recordingRenderer captures everything the app reports.
type recordingRenderer struct {
	mu          sync.Mutex
	compiled    []*domain.CompileResult
	failed      map[string]error
	invalidated map[string][]string
	summaries   []*domain.BatchCompileResult
	edges       map[string][]string
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{
		failed:      make(map[string]error),
		invalidated: make(map[string][]string),
	}
}

func (r *recordingRenderer) OnCompile(result *domain.CompileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compiled = append(r.compiled, result)
}

func (r *recordingRenderer) OnFailure(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[path] = err
}

func (r *recordingRenderer) OnInvalidate(changed string, invalidated []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated[changed] = invalidated
}

func (r *recordingRenderer) OnSummary(batch *domain.BatchCompileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, batch)
}

func (r *recordingRenderer) OnGraph(edges map[string][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges = edges
}

// lastCompile returns the most recent result reported for path.
func (r *recordingRenderer) lastCompile(path string) *domain.CompileResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.compiled) - 1; i >= 0; i-- {
		if r.compiled[i].Path == path {
			return r.compiled[i]
		}
	}
	return nil
}

// deniedSource fails every access to one path and delegates the rest.
type deniedSource struct {
	ports.SourceFS
	denied string
}

func (d *deniedSource) Stat(path string) (iofs.FileInfo, error) {
	if path == d.denied {
		return nil, iofs.ErrPermission
	}
	return d.SourceFS.Stat(path)
}

// gatedSource blocks Stat of path while armed, until release is closed.
type gatedSource struct {
	ports.SourceFS
	path    string
	armed   atomic.Bool
	release chan struct{}
}

func (g *gatedSource) Stat(path string) (iofs.FileInfo, error) {
	if path == g.path && g.armed.Load() {
		<-g.release
	}
	return g.SourceFS.Stat(path)
}

type fixture struct {
	app      *app.App
	renderer *recordingRenderer
	logger   *mocks.MockLogger
	dir      string
}

// newFixture builds an App on the real file system, YAML translator and
// config loader, reporting to a recording renderer.
func newFixture(t *testing.T, newWatcher watcher.Factory) *fixture {
	t.Helper()
	return newFixtureWithSource(t, newWatcher, fs.NewOSFS())
}

// newFixtureWithSource is newFixture reading units through src.
func newFixtureWithSource(t *testing.T, newWatcher watcher.Factory, src ports.SourceFS) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()

	if newWatcher == nil {
		newWatcher = func([]string) (ports.Watcher, error) {
			t.Fatal("watcher not expected")
			return nil, nil
		}
	}

	rec := newRecordingRenderer()
	a := app.New(
		config.NewLoader(mockLogger),
		mockLogger,
		src,
		translator.NewYAML(),
		telemetry.NewNoOpTracer(),
		fs.NewWalker(),
		newWatcher,
		func(root string) *linear.Renderer { return linear.NewRenderer(nil, nil, root) },
	).WithRenderer(rec).WithoutTelemetry()

	return &fixture{app: a, renderer: rec, logger: mockLogger, dir: t.TempDir()}
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (f *fixture) project() app.ProjectOptions {
	return app.ProjectOptions{Dir: f.dir}
}

const (
	cardSource   = "kind: Card\nprops:\n  title: Hello\n"
	screenSource = "kind: Screen\nchildren:\n  - kind: Card\n  - kind: Label\n"
)
