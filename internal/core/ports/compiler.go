package ports

import (
	"context"

	"go.trai.ch/pave/internal/core/domain"
)

// Compiler turns a source file into assembly, evaluating its entry point at compile time.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	Compile(ctx context.Context, req domain.CompileRequest) (*domain.Artifact, error)
}
