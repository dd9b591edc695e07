// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pave/internal/adapters/cas"
	_ "go.trai.ch/pave/internal/adapters/config"
	_ "go.trai.ch/pave/internal/adapters/console"
	_ "go.trai.ch/pave/internal/adapters/fs"
	_ "go.trai.ch/pave/internal/adapters/logger"
	_ "go.trai.ch/pave/internal/adapters/script"
	_ "go.trai.ch/pave/internal/adapters/shell"
	_ "go.trai.ch/pave/internal/adapters/telemetry"
	_ "go.trai.ch/pave/internal/adapters/toolchain"
	// Register app and engine nodes.
	_ "go.trai.ch/pave/internal/app"
	_ "go.trai.ch/pave/internal/engine/scheduler"
)
