package ports

import "go.trai.ch/pave/internal/core/domain"

// Hasher defines the interface for computing hashes.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeInputHash hashes everything that determines a target's build output.
	// Missing files contribute their absence rather than failing.
	// link is the expanded link command, or nil when the target is not linked.
	ComputeInputHash(target string, kind domain.TargetKind, link *domain.Command, files []string) (string, error)

	// ComputeFileHash hashes the content of a single file.
	ComputeFileHash(path string) (string, error)
}
