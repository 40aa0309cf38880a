package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/lead-distribution/internal/api/http"
	"github.com/spec-kit/lead-distribution/internal/api/http/handlers"
	"github.com/spec-kit/lead-distribution/internal/config"
	"github.com/spec-kit/lead-distribution/internal/distribution"
	"github.com/spec-kit/lead-distribution/internal/events"
	"github.com/spec-kit/lead-distribution/internal/lock"
	"github.com/spec-kit/lead-distribution/internal/observability"
	"github.com/spec-kit/lead-distribution/internal/persistence"
	"github.com/spec-kit/lead-distribution/internal/repository"
	"github.com/spec-kit/lead-distribution/internal/repository/sqlite"
	"github.com/spec-kit/lead-distribution/internal/service"
	"github.com/spec-kit/lead-distribution/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pingers := map[string]handlers.Pinger{}

	var store *repository.Store
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = repository.NewPostgresStore(pg.PoolHandle())
		pingers["postgres"] = pg
	default:
		db, err := persistence.NewSQLite(ctx, cfg.Storage.SQLitePath, logger)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		defer db.Close()

		if err := persistence.RunSQLiteMigrations(ctx, db.DB, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		store = sqlite.NewStore(db.DB)
		pingers["sqlite"] = db
	}

	var redis *persistence.Redis
	if cfg.UsesRedis() {
		redis, err = persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()
		pingers["redis"] = redis
	}

	var locker lock.Locker
	switch cfg.Distribution.LockBackend {
	case config.LockBackendRedis:
		locker = lock.NewRedis(redis.Client, cfg.Distribution.LockTTL(), logger)
	case config.LockBackendNone:
		logger.Warn("distribution locking disabled; operator capacity may be exceeded under concurrency")
		locker = lock.Nop{}
	default:
		locker = lock.NewLocal()
	}

	var publisher events.Publisher = events.NopPublisher{}
	switch cfg.Events.Backend {
	case config.EventsBackendRedis:
		publisher = events.NewRedisPublisher(redis.Client, cfg.Events.Channel)
	case config.EventsBackendNATS:
		conn, err := nats.Connect(cfg.Events.NATSURL, nats.Name(cfg.App.Name))
		if err != nil {
			logger.Fatal("failed to connect nats", zap.Error(err), zap.String("url", cfg.Events.NATSURL))
		}
		defer conn.Close()
		publisher = events.NewNATSPublisher(conn, cfg.Events.Channel)
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, publisher, metrics, logger))

	services := service.NewServices(service.Dependencies{
		Store:      store,
		Random:     distribution.NewRandomSource(cfg.Distribution.RandomSeed),
		Locker:     locker,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := httptransport.NewServer(httptransport.ServerDependencies{
		App:          cfg.App,
		Services:     services,
		Dependencies: pingers,
		Metrics:      metrics,
		Logger:       logger,
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("lock_backend", cfg.Distribution.LockBackend),
			zap.String("events_backend", cfg.Events.Backend),
		)
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
