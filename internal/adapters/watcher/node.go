package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/recomp/internal/adapters/logger"
	"go.trai.ch/recomp/internal/core/ports"
)

// NodeID is the unique identifier for the watcher factory Graft node.
const NodeID graft.ID = "adapter.watcher"

// Factory creates a watcher ignoring the given patterns. Ignore patterns are
// only known once the project config is loaded, so the graph provides a factory.
type Factory func(ignore []string) (ports.Watcher, error)

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func(ignore []string) (ports.Watcher, error) {
				return NewWatcher(log, ignore)
			}, nil
		},
	})
}
