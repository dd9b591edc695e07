package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pave/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pave/internal/adapters/console"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pave/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pave/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pave/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pave/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pave/internal/adapters/toolchain" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/pave/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			toolchain.NodeID,
			shell.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
			console.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			compiler, err := graft.Dep[ports.Compiler](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			out, err := graft.Dep[domain.IO](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(compiler, executor, store, hasher, tracer, log, out), nil
		},
	})
}
