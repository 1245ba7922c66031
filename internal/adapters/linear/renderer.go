// Package linear provides a synchronous, line oriented renderer for compile
// activity, suitable for terminals and CI logs alike.
package linear

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/recomp/internal/core/ports"
	"go.trai.ch/recomp/internal/ui/output"
	"go.trai.ch/recomp/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer. Results go to stdout, failures and
// invalidations to stderr. Paths are printed relative to root when possible.
type Renderer struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
	out    *termenv.Output
	errOut *termenv.Output
	root   string
}

// NewRenderer creates a Renderer. Nil writers default to os.Stdout and os.Stderr.
// Colors are only emitted for terminals and CI logs.
func NewRenderer(stdout, stderr io.Writer, root string) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		out:    output.NewWithProfile(stdout, output.ProfileFor(stdout)),
		errOut: output.NewWithProfile(stderr, output.ProfileFor(stderr)),
		root:   root,
	}
}

// OnCompile prints one line per compiled unit.
func (r *Renderer) OnCompile(result *domain.CompileResult) {
	if result == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	symbol := r.out.String(style.Check).Foreground(termenv.ANSIGreen).String()
	line := fmt.Sprintf("%s %s", symbol, r.rel(result.Path))

	switch {
	case result.Cached:
		line += " " + r.out.String("(cached)").Faint().String()
	default:
		line += fmt.Sprintf(" in %v", result.Duration)
	}

	if len(result.Dependencies) > 0 {
		line += fmt.Sprintf(" %s %s", style.Arrow, strings.Join(r.relAll(result.Dependencies), ", "))
	}

	_, _ = fmt.Fprintln(r.stdout, line)
}

// OnFailure prints the failing unit and its error.
func (r *Renderer) OnFailure(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	symbol := r.errOut.String(style.Cross).Foreground(termenv.ANSIRed).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s: %v\n", symbol, r.rel(path), err)
}

// OnInvalidate prints which units a change purged.
func (r *Renderer) OnInvalidate(changed string, invalidated []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	symbol := r.errOut.String(style.Tilde).Foreground(termenv.ANSIYellow).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s changed, invalidated %d unit(s): %s\n",
		symbol, r.rel(changed), len(invalidated), strings.Join(r.relAll(invalidated), ", "))
}

// OnSummary prints the batch totals.
func (r *Renderer) OnSummary(batch *domain.BatchCompileResult) {
	if batch == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cached := 0
	for _, s := range batch.Successes {
		if s.Cached {
			cached++
		}
	}

	line := fmt.Sprintf("%d compiled (%d cached), %d failed in %v",
		batch.CompiledCount(), cached, batch.FailureCount(), batch.TotalDuration)
	if batch.AllSucceeded() {
		line = r.errOut.String(line).Foreground(termenv.ANSIGreen).String()
	} else {
		line = r.errOut.String(line).Foreground(termenv.ANSIRed).String()
	}
	_, _ = fmt.Fprintln(r.stderr, line)
}

// OnGraph prints every unit followed by its dependencies, sorted by unit path.
func (r *Renderer) OnGraph(edges map[string][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	units := make([]string, 0, len(edges))
	for u := range edges {
		units = append(units, u)
	}
	slices.Sort(units)

	for _, u := range units {
		deps := edges[u]
		if len(deps) == 0 {
			_, _ = fmt.Fprintln(r.stdout, r.rel(u))
			continue
		}
		_, _ = fmt.Fprintf(r.stdout, "%s %s %s\n", r.rel(u), style.Arrow, strings.Join(r.relAll(deps), ", "))
	}
}

// rel returns path relative to the root, or path itself when it lies outside.
func (r *Renderer) rel(path string) string {
	if r.root == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func (r *Renderer) relAll(paths []string) []string {
	res := make([]string, len(paths))
	for i, p := range paths {
		res[i] = r.rel(p)
	}
	return res
}
