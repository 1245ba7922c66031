package compiler_test

import (
	"context"
	iofs "io/fs"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.trai.ch/recomp/internal/adapters/telemetry"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/recomp/internal/core/ports/mocks"
	"go.trai.ch/recomp/internal/engine/compiler"
	"go.uber.org/mock/gomock"
)

// memFS is an in-memory SourceFS whose fingerprint is a per-file version counter.
type memFS struct {
	mu      sync.Mutex
	files   map[string]*memFile
	statErr map[string]error
	readErr map[string]error
}

type memFile struct {
	data    []byte
	version int64
}

func newMemFS() *memFS {
	return &memFS{
		files:   make(map[string]*memFile),
		statErr: make(map[string]error),
		readErr: make(map[string]error),
	}
}

// write creates or replaces a file and bumps its version.
func (m *memFS) write(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	if !ok {
		f = &memFile{}
		m.files[path] = f
	}
	f.data = []byte(content)
	f.version++
}

// touch bumps the version without changing the content.
func (m *memFS) touch(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path].version++
}

func (m *memFS) setVersion(path string, v int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path].version = v
}

func (m *memFS) version(path string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[path].version
}

func (m *memFS) remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

func (m *memFS) Stat(path string) (iofs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.statErr[path]; err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, &iofs.PathError{Op: "stat", Path: path, Err: iofs.ErrNotExist}
	}
	return memInfo{name: path, size: int64(len(f.data)), version: f.version}, nil
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.readErr[path]; err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, &iofs.PathError{Op: "open", Path: path, Err: iofs.ErrNotExist}
	}
	return append([]byte(nil), f.data...), nil
}

func (m *memFS) Fingerprint(_ string, info iofs.FileInfo) (domain.Fingerprint, error) {
	return domain.Fingerprint(strconv.FormatInt(info.(memInfo).version, 10)), nil
}

type memInfo struct {
	name    string
	size    int64
	version int64
}

func (i memInfo) Name() string        { return i.name }
func (i memInfo) Size() int64         { return i.size }
func (i memInfo) Mode() iofs.FileMode { return 0o644 }
func (i memInfo) ModTime() time.Time  { return time.Unix(0, i.version) }
func (i memInfo) IsDir() bool         { return false }
func (i memInfo) Sys() any            { return nil }

// textTranslator understands "Root > Child Child ..." sources, enough to
// describe which components a unit defines and references.
type textTranslator struct {
	calls atomic.Int64
	hook  func(source string) (*domain.ComponentTree, error)
}

func (tr *textTranslator) Translate(source []byte) (*domain.ComponentTree, error) {
	tr.calls.Add(1)
	if tr.hook != nil {
		return tr.hook(string(source))
	}
	return parseText(string(source)), nil
}

func parseText(source string) *domain.ComponentTree {
	root, children, _ := strings.Cut(source, ">")
	tree := &domain.ComponentTree{Kind: strings.TrimSpace(root)}
	for _, kind := range strings.Fields(children) {
		tree.Children = append(tree.Children, &domain.ComponentTree{Kind: kind})
	}
	return tree
}

type fixture struct {
	fs         *memFS
	translator *textTranslator
	logger     *mocks.MockLogger
	compiler   *compiler.Compiler
}

func newFixture(t *testing.T, opts compiler.Options) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return newFixtureWithLogger(t, opts, logger)
}

func newFixtureWithLogger(t *testing.T, opts compiler.Options, logger *mocks.MockLogger) *fixture {
	t.Helper()

	f := &fixture{
		fs:         newMemFS(),
		translator: &textTranslator{},
		logger:     logger,
	}
	f.compiler = compiler.New(f.fs, f.fs, f.translator, logger, telemetry.NewNoOpTracer(), opts)
	return f
}

func (f *fixture) mustCompile(t *testing.T, path string) *domain.CompileResult {
	t.Helper()
	res, err := f.compiler.Compile(context.Background(), path)
	if err != nil {
		t.Fatalf("Compile(%s) error = %v", path, err)
	}
	return res
}
