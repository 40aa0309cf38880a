package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/config"
	"github.com/spec-kit/lead-distribution/internal/observability"
	"github.com/spec-kit/lead-distribution/internal/persistence"
	"github.com/spec-kit/lead-distribution/internal/repository"
	"github.com/spec-kit/lead-distribution/internal/repository/sqlite"
)

// runtime is the store connection shared by every subcommand.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *repository.Store
	closer func()
}

// openRuntime loads configuration and connects to the configured store.
// Migrations only run when migrate is true.
func openRuntime(ctx context.Context, migrate bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger}
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		rt.store = repository.NewPostgresStore(pg.PoolHandle())
		rt.closer = pg.Close
	default:
		db, err := persistence.NewSQLite(ctx, cfg.Storage.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := persistence.RunSQLiteMigrations(ctx, db.DB, logger); err != nil {
				db.Close()
				return nil, err
			}
		}
		rt.store = sqlite.NewStore(db.DB)
		rt.closer = db.Close
	}
	return rt, nil
}

func (r *runtime) Close() {
	if r.closer != nil {
		r.closer()
	}
	_ = r.logger.Sync()
}
