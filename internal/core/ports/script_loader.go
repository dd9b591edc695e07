package ports

import "go.trai.ch/pave/internal/core/domain"

// ScriptLoader runs a build script and returns the targets it registered.
//
//go:generate mockgen -source=script_loader.go -destination=mocks/mock_script_loader.go -package=mocks
type ScriptLoader interface {
	Load(path string) (*domain.Registry, error)
}
