package domain

import "time"

// CompileResult is the outcome of compiling one unit successfully.
type CompileResult struct {
	// Path is the cleaned path of the unit.
	Path string
	// Artifact is the compiled component tree. It is a copy owned by the caller;
	// changing it does not affect the cached entry.
	Artifact *ComponentTree
	// Duration is the time spent translating; zero on a cache hit.
	Duration time.Duration
	// Cached reports whether the result came from the cache.
	Cached bool
	// Dependencies lists the units this unit depends on.
	Dependencies []string
	// ExportedSymbols lists the symbols the unit defines.
	ExportedSymbols []string
	// Fingerprint is the freshness signal the result was validated against.
	Fingerprint Fingerprint
}

// Outcome pairs a requested path with its compile result or error.
// Exactly one of Result and Err is set.
type Outcome struct {
	Path   string
	Result *CompileResult
	Err    error
}

// Failure records a unit that failed to compile within a batch.
type Failure struct {
	Path string
	Err  error
}

// BatchCompileResult aggregates the outcomes of compiling several units.
type BatchCompileResult struct {
	Successes     []*CompileResult
	Failures      []Failure
	TotalDuration time.Duration
}

// NewBatchCompileResult splits outcomes into successes and failures.
func NewBatchCompileResult(outcomes []Outcome, total time.Duration) *BatchCompileResult {
	b := &BatchCompileResult{TotalDuration: total}
	for _, o := range outcomes {
		if o.Err != nil {
			b.Failures = append(b.Failures, Failure{Path: o.Path, Err: o.Err})
			continue
		}
		b.Successes = append(b.Successes, o.Result)
	}
	return b
}

// AllSucceeded reports whether no unit failed.
func (b *BatchCompileResult) AllSucceeded() bool {
	return len(b.Failures) == 0
}

// CompiledCount returns the number of units compiled successfully, cache hits included.
func (b *BatchCompileResult) CompiledCount() int {
	return len(b.Successes)
}

// FailureCount returns the number of units that failed.
func (b *BatchCompileResult) FailureCount() int {
	return len(b.Failures)
}

// Stats summarizes the compiler state.
type Stats struct {
	Cache CacheStats `json:"cache"`
	// Components is the number of symbols in the registry.
	Components int `json:"total_components"`
	// TrackedUnits is the number of units with recorded dependency facts.
	TrackedUnits int `json:"tracked_units"`
}
