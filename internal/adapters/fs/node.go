package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/recomp/internal/core/ports"
)

const (
	// SourceFSNodeID is the unique identifier for the source file system Graft node.
	SourceFSNodeID graft.ID = "adapter.fs.source"
	// WalkerNodeID is the unique identifier for the unit walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
)

func init() {
	graft.Register(graft.Node[ports.SourceFS]{
		ID:        SourceFSNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SourceFS, error) {
			return NewOSFS(), nil
		},
	})

	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})
}
