package linear

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the renderer factory Graft node.
const NodeID graft.ID = "adapter.linear"

// Factory creates a renderer that prints paths relative to root.
type Factory func(root string) *Renderer

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Factory, error) {
			return func(root string) *Renderer {
				return NewRenderer(nil, nil, root)
			}, nil
		},
	})
}
