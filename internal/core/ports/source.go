package ports

import (
	"io/fs"

	"go.trai.ch/recomp/internal/core/domain"
)

//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// SourceFS gives the compiler access to unit sources.
type SourceFS interface {
	// Stat returns file metadata. A missing file yields an error matching fs.ErrNotExist.
	Stat(path string) (fs.FileInfo, error)
	// ReadFile returns the full contents of the file.
	ReadFile(path string) ([]byte, error)
}

// Fingerprinter computes the freshness signal of a unit.
type Fingerprinter interface {
	// Fingerprint returns the current fingerprint of path. info is the result of a
	// prior Stat of the same path.
	Fingerprint(path string, info fs.FileInfo) (domain.Fingerprint, error)
}
