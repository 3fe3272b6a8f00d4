package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/lexindex/bnss/internal/adapters/config"
	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
)

// NodeID is the unique identifier for the cache store Graft node.
const NodeID graft.ID = "adapter.cache_store"

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.CacheStore, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(settings.RawDir()), nil
		},
	})
}
