package ports

import "go.trai.ch/pave/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers pave.yaml from cwd upwards and returns the resolved project.
	// When no configuration exists, cwd becomes the root and defaults apply.
	Load(cwd string) (*domain.Project, error)
}
