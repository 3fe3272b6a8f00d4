package validate

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/lexindex/bnss/internal/adapters/cache"
	"github.com/lexindex/bnss/internal/adapters/config"
	"github.com/lexindex/bnss/internal/adapters/etl"
	"github.com/lexindex/bnss/internal/adapters/manifest"
	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
)

// NodeID is the unique identifier for the validation checker Graft node.
const NodeID graft.ID = "adapter.validator"

func init() {
	graft.Register(graft.Node[*Checker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			etl.StoreNodeID,
			manifest.NodeID,
			cache.NodeID,
		},
		Run: func(ctx context.Context) (*Checker, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			datasets, err := graft.Dep[ports.DatasetStore](ctx)
			if err != nil {
				return nil, err
			}
			manifestStore, err := graft.Dep[ports.ManifestStore](ctx)
			if err != nil {
				return nil, err
			}
			cacheStore, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewChecker(datasets, manifestStore, cacheStore, *settings), nil
		},
	})
}
