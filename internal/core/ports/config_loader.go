package ports

import "github.com/lexindex/bnss/internal/core/domain"

// ConfigLoader defines the interface for loading pipeline settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration starting from the given working
	// directory and returns the effective settings: file values layered
	// over defaults, then environment overrides on top.
	Load(cwd string) (*domain.Settings, error)

	// DiscoverRoot walks up from cwd to find the directory containing
	// bnss.yaml. Falls back to cwd when no config file exists.
	DiscoverRoot(cwd string) (string, error)
}
