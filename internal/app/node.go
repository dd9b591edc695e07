package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pave/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/pave/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pave/internal/adapters/console"   //nolint:depguard // Wired in app layer
	"go.trai.ch/pave/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pave/internal/adapters/script"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pave/internal/adapters/toolchain" //nolint:depguard // Wired in app layer
	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/pave/internal/core/ports"
	"go.trai.ch/pave/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized components the CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			script.NodeID,
			toolchain.NodeID,
			scheduler.NodeID,
			cas.NodeID,
			logger.NodeID,
			console.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	scripts, err := graft.Dep[ports.ScriptLoader](ctx)
	if err != nil {
		return nil, err
	}
	compiler, err := graft.Dep[ports.Compiler](ctx)
	if err != nil {
		return nil, err
	}
	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.BuildInfoStore](ctx)
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

	return New(loader, scripts, compiler, sched, store, log, out), nil
}
