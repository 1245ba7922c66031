// Package fs provides file system adapters for reading, fingerprinting and discovering units.
package fs

import (
	iofs "io/fs"
	"os"

	"go.trai.ch/recomp/internal/core/ports"
)

var _ ports.SourceFS = (*OSFS)(nil)

// OSFS reads unit sources from the local file system.
type OSFS struct{}

// NewOSFS creates a new OSFS.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file metadata for path.
func (o *OSFS) Stat(path string) (iofs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile returns the contents of path.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path) //nolint:gosec // Path is controlled by caller
}
