// Package store selects the employee store implementation named by DB_DRIVER.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JonMunkholm/EmployeeStore/internal/config"
	"github.com/JonMunkholm/EmployeeStore/internal/core"
	"github.com/JonMunkholm/EmployeeStore/internal/store/memstore"
	"github.com/JonMunkholm/EmployeeStore/internal/store/postgres"
)

// Open builds the configured store, applying migrations first when
// AutoMigrate is set. The returned close function may be called more than once.
func Open(ctx context.Context, cfg config.DatabaseConfig) (core.Store, func(), error) {
	if cfg.Driver == config.DriverMemory {
		slog.Warn("using in-memory store; data is lost on exit")
		return memstore.New(), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	var once sync.Once
	closePool := func() { once.Do(pool.Close) }

	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			closePool()
			return nil, nil, err
		}
	}
	if v, err := postgres.MigrationVersion(ctx, pool); err == nil {
		slog.Info("connected to database", "schema_version", v)
	}

	return postgres.New(pool), closePool, nil
}
