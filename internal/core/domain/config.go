package domain

import "time"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "recomp.yaml"

	// ConfigVersion is the only supported configuration schema version.
	ConfigVersion = "1"

	// DefaultDebounce is the default window for coalescing file change events.
	DefaultDebounce = 50 * time.Millisecond
)

// DefaultIncludePatterns are the globs treated as source units when none are configured.
func DefaultIncludePatterns() []string {
	return []string{"**/*.ui"}
}

// DefaultIgnorePatterns are the globs never watched or compiled when none are configured.
func DefaultIgnorePatterns() []string {
	return []string{".git/**", ".jj/**", "node_modules/**"}
}

// Config is the resolved project configuration.
type Config struct {
	// Root is the directory containing the config file, or the working directory.
	Root string
	// Path is the config file that was loaded; empty when defaults are used.
	Path string

	Cache    CacheConfig
	Compiler CompilerConfig
	Watch    WatchConfig
}

// CacheConfig configures the unit cache.
type CacheConfig struct {
	MaxEntries  int
	Fingerprint FingerprintMode
}

// CompilerConfig configures the compiler facade.
type CompilerConfig struct {
	TrackDependencies bool
	DedupeInFlight    bool
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	Include  []string
	Ignore   []string
	Debounce time.Duration
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig(root string) *Config {
	return &Config{
		Root: root,
		Cache: CacheConfig{
			MaxEntries:  DefaultMaxEntries,
			Fingerprint: FingerprintModTime,
		},
		Compiler: CompilerConfig{
			TrackDependencies: true,
		},
		Watch: WatchConfig{
			Include:  DefaultIncludePatterns(),
			Ignore:   DefaultIgnorePatterns(),
			Debounce: DefaultDebounce,
		},
	}
}
