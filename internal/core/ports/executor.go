package ports

import (
	"context"
	"io"

	"go.trai.ch/pave/internal/core/domain"
)

// Executor runs external commands such as the link step.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd and waits for it to finish.
	// It returns an error carrying the exit code when the command fails.
	Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error
}
