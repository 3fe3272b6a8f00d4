package portal

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/lexindex/bnss/internal/adapters/config"
	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
)

// NodeID is the unique identifier for the page source Graft node.
const NodeID graft.ID = "adapter.page_source"

func init() {
	graft.Register(graft.Node[ports.PageSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.PageSource, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(*settings), nil
		},
	})
}
