package domain

import (
	"path/filepath"
	"slices"
	"unique"
)

// UnitID identifies a compilation unit by its cleaned source path.
// The path is interned so the cache, graph and registry share one copy per unit.
type UnitID struct {
	h unique.Handle[string]
}

// NewUnitID creates a UnitID for the given path after cleaning it.
func NewUnitID(path string) UnitID {
	return UnitID{h: unique.Make(filepath.Clean(path))}
}

// NewUnitIDs creates a UnitID slice from a path slice.
func NewUnitIDs(paths []string) []UnitID {
	res := make([]UnitID, len(paths))
	for i, p := range paths {
		res[i] = NewUnitID(p)
	}
	return res
}

// String returns the cleaned path.
func (u UnitID) String() string {
	return u.h.Value()
}

// IsZero reports whether the UnitID was never initialized.
func (u UnitID) IsZero() bool {
	return u == UnitID{}
}

// UnitPaths converts ids back to paths, preserving order.
func UnitPaths(ids []UnitID) []string {
	res := make([]string, len(ids))
	for i, id := range ids {
		res[i] = id.String()
	}
	return res
}

// SortUnits sorts ids by path so map-derived slices are deterministic.
func SortUnits(ids []UnitID) {
	slices.SortFunc(ids, func(a, b UnitID) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		default:
			return 0
		}
	})
}

// MarshalText implements encoding.TextMarshaler.
func (u UnitID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UnitID) UnmarshalText(text []byte) error {
	*u = NewUnitID(string(text))
	return nil
}
