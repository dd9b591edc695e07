package script

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pave/internal/adapters/console"
	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/pave/internal/core/ports"
)

// NodeID is the unique identifier for the script loader Graft node.
const NodeID graft.ID = "adapter.script"

func init() {
	graft.Register(graft.Node[ports.ScriptLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{console.NodeID},
		Run: func(ctx context.Context) (ports.ScriptLoader, error) {
			out, err := graft.Dep[domain.IO](ctx)
			if err != nil {
				return nil, err
			}
			return New(out), nil
		},
	})
}
