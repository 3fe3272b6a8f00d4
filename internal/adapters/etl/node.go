package etl

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/lexindex/bnss/internal/adapters/config"
	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
)

// ParserNodeID is the unique identifier for the page parser Graft node.
const ParserNodeID graft.ID = "adapter.page_parser"

// StoreNodeID is the unique identifier for the dataset store Graft node.
const StoreNodeID graft.ID = "adapter.dataset_store"

func init() {
	graft.Register(graft.Node[ports.PageParser]{
		ID:        ParserNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PageParser, error) {
			return NewParser(), nil
		},
	})

	graft.Register(graft.Node[ports.DatasetStore]{
		ID:        StoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.DatasetStore, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(settings.DatasetsDir()), nil
		},
	})
}
