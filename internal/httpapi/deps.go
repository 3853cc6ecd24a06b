package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"leadscout-engine/internal/config"
	"leadscout-engine/internal/events"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic snapshots
	CfgVal       *atomic.Value // stores config.Config
	ScrapeStatus *atomic.Value // stores httpapi.ScrapeStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// RunScrape executes one full pipeline run and returns how many
	// records it stored. Injected so handler tests can stub the
	// browser and the store.
	RunScrape func(ctx context.Context, cfg config.Config, req ScrapeRequest, progress func(float64)) (stored int, err error)
}
