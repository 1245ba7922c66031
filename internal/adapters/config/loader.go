// Package config provides the configuration loader for recomp.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/recomp/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load discovers recomp.yaml by walking up from cwd. When no file exists the
// defaults are returned, rooted at cwd.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "cwd", cwd)
	}

	configPath, found := findConfiguration(abs)
	if !found {
		l.Logger.Debug(fmt.Sprintf("no %s found above %s, using defaults", domain.ConfigFileName, abs))
		return domain.DefaultConfig(abs), nil
	}

	return l.LoadFile(configPath)
}

// LoadFile reads the configuration at path. The project root is the directory
// containing the file.
func (l *Loader) LoadFile(path string) (*domain.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve config path"), "path", path)
	}

	var file Recompfile
	if err := readAndUnmarshalYAML(abs, &file); err != nil {
		return nil, zerr.With(err, "path", abs)
	}

	cfg, err := buildConfig(filepath.Dir(abs), &file)
	if err != nil {
		return nil, zerr.With(err, "path", abs)
	}
	cfg.Path = abs

	l.Logger.Debug(fmt.Sprintf("loaded configuration from %s", abs))
	return cfg, nil
}

// findConfiguration walks up from dir looking for the config file.
func findConfiguration(dir string) (string, bool) {
	current := dir
	for {
		candidate := filepath.Join(current, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached root
			return "", false
		}
		current = parent
	}
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered or given by the user
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

// buildConfig validates file and overlays it on the defaults.
func buildConfig(root string, file *Recompfile) (*domain.Config, error) {
	if file.Version != "" && file.Version != domain.ConfigVersion {
		return nil, zerr.With(domain.ErrUnsupportedConfigVersion, "version", file.Version)
	}

	cfg := domain.DefaultConfig(root)

	if file.Cache.MaxEntries != nil {
		cfg.Cache.MaxEntries = *file.Cache.MaxEntries
	}
	if file.Cache.Fingerprint != "" {
		mode, err := domain.ParseFingerprintMode(file.Cache.Fingerprint)
		if err != nil {
			return nil, err
		}
		cfg.Cache.Fingerprint = mode
	}

	if file.Compiler.TrackDependencies != nil {
		cfg.Compiler.TrackDependencies = *file.Compiler.TrackDependencies
	}
	cfg.Compiler.DedupeInFlight = file.Compiler.DedupeInFlight

	if file.Watch.Include != nil {
		if err := validatePatterns("include", file.Watch.Include); err != nil {
			return nil, err
		}
		cfg.Watch.Include = file.Watch.Include
	}
	if file.Watch.Ignore != nil {
		if err := validatePatterns("ignore", file.Watch.Ignore); err != nil {
			return nil, err
		}
		cfg.Watch.Ignore = file.Watch.Ignore
	}
	if file.Watch.Debounce != "" {
		d, err := parseDebounce(file.Watch.Debounce)
		if err != nil {
			return nil, err
		}
		cfg.Watch.Debounce = d
	}

	return cfg, nil
}

func validatePatterns(field string, patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			err := zerr.With(domain.ErrInvalidPattern, "field", field)
			return zerr.With(err, "pattern", p)
		}
	}
	return nil
}

func parseDebounce(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrInvalidDebounce.Error()), "debounce", raw)
	}
	if d < 0 {
		return 0, zerr.With(domain.ErrInvalidDebounce, "debounce", raw)
	}
	return d, nil
}
