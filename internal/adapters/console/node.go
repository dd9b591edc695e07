package console

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pave/internal/core/domain"
)

// NodeID is the unique identifier for the console Graft node.
const NodeID graft.ID = "adapter.console"

func init() {
	graft.Register(graft.Node[domain.IO]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (domain.IO, error) {
			return New(nil), nil
		},
	})
}
