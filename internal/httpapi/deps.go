package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"skilltrend-engine/internal/analyze"
	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/events"
	"skilltrend-engine/internal/logger"
	"skilltrend-engine/internal/source"
	"skilltrend-engine/internal/usage"
)

// Analyzer runs the pipeline for one role.
type Analyzer interface {
	Analyze(ctx context.Context, role string) (analyze.Result, error)
	Provider() string
}

type Deps struct {
	DB *sql.DB

	Hub *events.Hub
	Log logger.Logger

	Analyzer Analyzer
	Counter  usage.CounterStore
	Account  source.AccountReader // nil when the provider has no account API

	// Atomic stores
	CfgVal      *atomic.Value // stores config.Config
	WatchStatus *atomic.Value // stores httpapi.WatchStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Watch entrypoint (inject for testability)
	RunWatch func(ctx context.Context, cfg config.Config) (analyzed int, err error)
}
