package database

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/SscSPs/currency_exchange_app/internal/adapters/database/memory"
	"github.com/SscSPs/currency_exchange_app/internal/adapters/database/pgsql"
	"github.com/SscSPs/currency_exchange_app/internal/adapters/database/sqlite"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_exchange_app/internal/platform/config"
	dbutil "github.com/SscSPs/currency_exchange_app/pkg/database"
)

// NewRepositoryProvider opens the store selected by cfg.StoreDriver, migrating it first when
// cfg.RunMigrations is set.
func NewRepositoryProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if cfg.RunMigrations {
			if err := dbutil.MigratePostgres(cfg.DatabaseURL, filepath.Join(cfg.MigrationsPath, "postgres"), logger); err != nil {
				return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to migrate postgres: %w", err)
			}
		}
		pool, err := dbutil.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		return portsrepo.RepositoryProvider{
			RateHistoryRepo: pgsql.NewPgxRateHistoryRepository(pool),
			Close:           func() { dbutil.ClosePgxPool(pool) },
		}, nil

	case config.StoreDriverSQLite:
		db, err := dbutil.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		if cfg.RunMigrations {
			if err := dbutil.MigrateSQLite(db, filepath.Join(cfg.MigrationsPath, "sqlite"), logger); err != nil {
				db.Close()
				return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to migrate sqlite: %w", err)
			}
		}
		return portsrepo.RepositoryProvider{
			RateHistoryRepo: sqlite.NewRateHistoryRepository(db),
			Close: func() {
				if err := db.Close(); err != nil {
					logger.Error("Error closing sqlite database", slog.String("error", err.Error()))
				}
			},
		}, nil

	case config.StoreDriverMemory:
		logger.Warn("Using in-memory rate history store. Records are lost on restart.")
		return portsrepo.RepositoryProvider{
			RateHistoryRepo: memory.NewRateHistoryRepository(),
			Close:           func() {},
		}, nil
	}
	return portsrepo.RepositoryProvider{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
