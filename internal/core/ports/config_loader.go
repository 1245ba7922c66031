package ports

import "go.trai.ch/recomp/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the config file by walking up from cwd and loads it.
	// When no file is found, the defaults rooted at cwd are returned.
	Load(cwd string) (*domain.Config, error)

	// LoadFile loads the config file at path.
	LoadFile(path string) (*domain.Config, error)
}
