package ports

import "go.trai.ch/recomp/internal/core/domain"

// Renderer presents compiler activity to the user.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnCompile is called for every unit that compiled, cache hits included.
	OnCompile(result *domain.CompileResult)

	// OnFailure is called for every unit that failed to compile.
	OnFailure(path string, err error)

	// OnInvalidate is called when changed caused the listed units to be purged.
	OnInvalidate(changed string, invalidated []string)

	// OnSummary is called once a batch has finished.
	OnSummary(batch *domain.BatchCompileResult)

	// OnGraph prints dependency edges, one unit per entry.
	OnGraph(edges map[string][]string)
}
