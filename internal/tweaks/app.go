// Package tweaks composes the catalog, selection store, and execution engine
// into the operations the CLI exposes.
package tweaks

import (
	"github.com/colonyops/tweakctl/internal/core/config"
	"github.com/colonyops/tweakctl/internal/core/eventbus"
	"github.com/colonyops/tweakctl/internal/core/kv"
)

// App is the central entry point for all tweakctl operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Tweaks  *Service
	Catalog Catalog
	Bus     *eventbus.EventBus
	Config  *config.Config
	KV      kv.KV
}

// NewApp constructs an App from explicit dependencies.
func NewApp(svc *Service, cat Catalog, bus *eventbus.EventBus, cfg *config.Config, store kv.KV) *App {
	return &App{
		Tweaks:  svc,
		Catalog: cat,
		Bus:     bus,
		Config:  cfg,
		KV:      store,
	}
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.KV == nil {
		return nil
	}
	return a.KV.Close()
}
