package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/lexindex/bnss/internal/adapters/logger"
	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
)

const (
	// LoaderNodeID is the unique identifier for the config loader Graft node.
	LoaderNodeID graft.ID = "adapter.config_loader"

	// SettingsNodeID is the unique identifier for the resolved settings
	// Graft node. It loads the configuration once, from the process
	// working directory, and shares it with every component.
	SettingsNodeID graft.ID = "core.settings"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[*domain.Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{LoaderNodeID},
		Run: func(ctx context.Context) (*domain.Settings, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return loader.Load(cwd)
		},
	})
}
