// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/lexindex/bnss/internal/adapters/cache"
	_ "github.com/lexindex/bnss/internal/adapters/config"
	_ "github.com/lexindex/bnss/internal/adapters/etl"
	_ "github.com/lexindex/bnss/internal/adapters/logger"
	_ "github.com/lexindex/bnss/internal/adapters/manifest"
	_ "github.com/lexindex/bnss/internal/adapters/portal"
	_ "github.com/lexindex/bnss/internal/adapters/validate"
	// Register app nodes.
	_ "github.com/lexindex/bnss/internal/app"
)
