package config

// Recompfile represents the structure of the recomp.yaml configuration file.
// Pointer fields distinguish an explicit zero from an omitted value.
type Recompfile struct {
	Version  string      `yaml:"version"`
	Cache    CacheDTO    `yaml:"cache"`
	Compiler CompilerDTO `yaml:"compiler"`
	Watch    WatchDTO    `yaml:"watch"`
}

// CacheDTO represents the cache section.
type CacheDTO struct {
	MaxEntries  *int   `yaml:"maxEntries"`
	Fingerprint string `yaml:"fingerprint"`
}

// CompilerDTO represents the compiler section.
type CompilerDTO struct {
	TrackDependencies *bool `yaml:"trackDependencies"`
	DedupeInFlight    bool  `yaml:"dedupeInFlight"`
}

// WatchDTO represents the watch section.
type WatchDTO struct {
	Include  []string `yaml:"include"`
	Ignore   []string `yaml:"ignore"`
	Debounce string   `yaml:"debounce"`
}
