package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/lexindex/bnss/internal/adapters/cache"
	"github.com/lexindex/bnss/internal/adapters/config"
	"github.com/lexindex/bnss/internal/adapters/etl"
	"github.com/lexindex/bnss/internal/adapters/logger"
	"github.com/lexindex/bnss/internal/adapters/manifest"
	"github.com/lexindex/bnss/internal/adapters/portal"
	"github.com/lexindex/bnss/internal/adapters/validate"
	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
)

// Components bundles the wired entry points the CLI needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NodeID is the unique identifier for the application components Graft node.
const NodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			config.SettingsNodeID,
			portal.NodeID,
			cache.NodeID,
			manifest.NodeID,
			etl.ParserNodeID,
			etl.StoreNodeID,
			validate.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			source, err := graft.Dep[ports.PageSource](ctx)
			if err != nil {
				return nil, err
			}
			cacheStore, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			manifestStore, err := graft.Dep[ports.ManifestStore](ctx)
			if err != nil {
				return nil, err
			}
			parser, err := graft.Dep[ports.PageParser](ctx)
			if err != nil {
				return nil, err
			}
			datasets, err := graft.Dep[ports.DatasetStore](ctx)
			if err != nil {
				return nil, err
			}
			checker, err := graft.Dep[*validate.Checker](ctx)
			if err != nil {
				return nil, err
			}

			a := New(log, *settings, source, cacheStore, manifestStore, parser, datasets, checker)
			return &Components{App: a, Logger: log}, nil
		},
	})
}
