package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/recomp/internal/adapters/config"
	"go.trai.ch/recomp/internal/adapters/fs"
	"go.trai.ch/recomp/internal/adapters/linear"
	"go.trai.ch/recomp/internal/adapters/logger"
	"go.trai.ch/recomp/internal/adapters/telemetry"
	"go.trai.ch/recomp/internal/adapters/translator"
	"go.trai.ch/recomp/internal/adapters/watcher"
	"go.trai.ch/recomp/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.SourceFSNodeID,
			fs.WalkerNodeID,
			translator.NodeID,
			telemetry.TracerNodeID,
			watcher.NodeID,
			linear.NodeID,
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

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	src, err := graft.Dep[ports.SourceFS](ctx)
	if err != nil {
		return nil, err
	}

	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}

	tr, err := graft.Dep[ports.Translator](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	newWatcher, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}

	newRenderer, err := graft.Dep[linear.Factory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, src, tr, tracer, walker, newWatcher, newRenderer), nil
}
