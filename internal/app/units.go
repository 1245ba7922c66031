package app

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/zerr"
)

// resolveUnits expands args into absolute unit paths, sorted and without
// duplicates. Directories are walked with the configured include patterns and
// glob patterns are matched relative to the project root.
func (a *App) resolveUnits(cfg *domain.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{cfg.Root}
	}

	var units []string
	for _, arg := range args {
		if isPattern(arg) {
			pattern := filepath.ToSlash(arg)
			if filepath.IsAbs(arg) {
				rel, err := filepath.Rel(cfg.Root, arg)
				if err != nil {
					return nil, zerr.With(domain.ErrNoUnitsMatched, "pattern", arg)
				}
				pattern = filepath.ToSlash(rel)
			}
			for p := range a.walker.WalkUnits(cfg.Root, []string{pattern}, cfg.Watch.Ignore) {
				units = append(units, p)
			}
			continue
		}

		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", arg)
		}

		info, err := a.src.Stat(abs)
		if err == nil && info.IsDir() {
			for p := range a.walker.WalkUnits(abs, cfg.Watch.Include, cfg.Watch.Ignore) {
				units = append(units, p)
			}
			continue
		}

		// Missing files are passed through so the compiler reports them.
		units = append(units, abs)
	}

	if len(units) == 0 {
		return nil, zerr.With(domain.ErrNoUnitsMatched, "args", strings.Join(args, " "))
	}

	slices.Sort(units)
	return slices.Compact(units), nil
}

// isPattern reports whether arg contains glob meta characters.
func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}
