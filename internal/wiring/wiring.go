// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/recomp/internal/adapters/config"
	_ "go.trai.ch/recomp/internal/adapters/fs"
	_ "go.trai.ch/recomp/internal/adapters/linear"
	_ "go.trai.ch/recomp/internal/adapters/logger"
	_ "go.trai.ch/recomp/internal/adapters/telemetry"
	_ "go.trai.ch/recomp/internal/adapters/translator"
	_ "go.trai.ch/recomp/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/recomp/internal/app"
)
