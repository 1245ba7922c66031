package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrFileNotFound is returned when the requested unit does not exist on disk.
	ErrFileNotFound = zerr.New("unit not found")

	// ErrReadFailed is returned when a unit's source or metadata cannot be read.
	ErrReadFailed = zerr.New("failed to read unit")

	// ErrCompilationFailed is returned when the translator rejects a unit's source.
	ErrCompilationFailed = zerr.New("compilation failed")

	// ErrDependencyCycle is returned when units cannot be ordered because they depend on each other.
	ErrDependencyCycle = zerr.New("dependency cycle detected")

	// ErrInvalidComponent is returned when the translator produces a structurally invalid tree.
	ErrInvalidComponent = zerr.New("invalid component")

	// ErrTreeMissing is returned when a translator yields no component tree and no error.
	ErrTreeMissing = zerr.New("translator returned no component tree")

	// ErrNodeMissingKind is returned when a component tree node has an empty kind.
	ErrNodeMissingKind = zerr.New("node has no kind")

	// ErrNodeEmpty is returned when a component tree contains a nil child.
	ErrNodeEmpty = zerr.New("node is empty")

	// ErrCompileFailed is returned by the application when at least one unit failed to compile.
	ErrCompileFailed = zerr.New("one or more units failed to compile")

	// ErrNoUnitsMatched is returned when the given paths and patterns match no source unit.
	ErrNoUnitsMatched = zerr.New("no units matched")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedConfigVersion is returned when the config file declares an unknown version.
	ErrUnsupportedConfigVersion = zerr.New("unsupported config version")

	// ErrInvalidFingerprintMode is returned when the fingerprint mode is neither 'mtime' nor 'content'.
	ErrInvalidFingerprintMode = zerr.New("invalid fingerprint mode, expected 'mtime' or 'content'")

	// ErrInvalidDebounce is returned when the watch debounce window cannot be parsed.
	ErrInvalidDebounce = zerr.New("invalid debounce duration")

	// ErrInvalidPattern is returned when an include or ignore glob is malformed.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrWatcherClosed is returned when the file watcher stops delivering events on its own.
	ErrWatcherClosed = zerr.New("file watcher stopped unexpectedly")
)

// CompileError describes why a single unit could not be compiled.
//
// It unwraps to its Kind sentinel and to the underlying cause, so callers can
// match with errors.Is(err, domain.ErrCompilationFailed) and still reach the
// original I/O error.
type CompileError struct {
	Kind    error
	Path    string
	Line    int
	Column  int
	Message string
	Cycle   []string
	Err     error
}

// NewFileNotFoundError reports a unit that does not exist.
func NewFileNotFoundError(path string) *CompileError {
	return &CompileError{Kind: ErrFileNotFound, Path: path}
}

// NewReadError reports an I/O failure while reading a unit's source or metadata.
func NewReadError(path string, cause error) *CompileError {
	return &CompileError{
		Kind: ErrReadFailed,
		Path: path,
		Err:  cause,
	}
}

// NewCompilationFailedError reports a translator diagnostic at the given position.
func NewCompilationFailedError(path string, line, column int, message string) *CompileError {
	return &CompileError{
		Kind:    ErrCompilationFailed,
		Path:    path,
		Line:    line,
		Column:  column,
		Message: message,
	}
}

// NewInvalidComponentError reports translator output that is not a usable component tree.
func NewInvalidComponentError(path, message string) *CompileError {
	return &CompileError{Kind: ErrInvalidComponent, Path: path, Message: message}
}

// NewCycleError reports a dependency cycle. The cycle starts and ends with the same unit.
func NewCycleError(cycle []string) *CompileError {
	return &CompileError{Kind: ErrDependencyCycle, Cycle: cycle}
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	switch e.Kind {
	case ErrFileNotFound:
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Path)
	case ErrReadFailed:
		if e.Err != nil {
			return fmt.Sprintf("%s %s: %v", e.Kind.Error(), e.Path, e.Err)
		}
		return fmt.Sprintf("%s %s", e.Kind.Error(), e.Path)
	case ErrCompilationFailed:
		if e.Line > 0 {
			return fmt.Sprintf("%s for %s at %d:%d: %s", e.Kind.Error(), e.Path, e.Line, e.Column, e.Message)
		}
		return fmt.Sprintf("%s for %s: %s", e.Kind.Error(), e.Path, e.Message)
	case ErrDependencyCycle:
		return fmt.Sprintf("%s: %s", e.Kind.Error(), strings.Join(e.Cycle, " -> "))
	case ErrInvalidComponent:
		if e.Path != "" {
			return fmt.Sprintf("%s in %s: %s", e.Kind.Error(), e.Path, e.Message)
		}
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Message)
	default:
		return fmt.Sprintf("compile %s: %s", e.Path, e.Message)
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *CompileError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// TranslationError is a positioned diagnostic produced by a translator.
// Line and Column are 1-based; zero means the position is unknown.
type TranslationError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}
