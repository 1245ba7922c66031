package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker discovers unit sources below a root directory.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkUnits yields every file below root whose root-relative, slash separated path
// matches one of include and none of ignore. Yielded paths start with root.
// Directories matching an ignore pattern are not descended into.
func (w *Walker) WalkUnits(root string, include, ignore []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Skip unreadable entries instead of aborting discovery.
				return nil //nolint:nilerr // unreadable entries are skipped
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil || rel == "." {
				return nil //nolint:nilerr // root itself is never a unit
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if MatchAny(ignore, rel) || MatchAny(ignore, rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}

			if MatchAny(ignore, rel) || !MatchAny(include, rel) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// MatchAny reports whether the slash separated path matches one of patterns.
// Malformed patterns never match; they are rejected when the config is loaded.
func MatchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
