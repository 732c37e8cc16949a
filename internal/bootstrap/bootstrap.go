// Package bootstrap wires configuration into a ready roster store.
package bootstrap

import (
	"errors"
	"fmt"

	"github.com/latoulicious/umaroster/internal/config"
	"github.com/latoulicious/umaroster/pkg/cache"
	"github.com/latoulicious/umaroster/pkg/database"
	"github.com/latoulicious/umaroster/pkg/database/migration"
	"github.com/latoulicious/umaroster/pkg/database/repository"
	"github.com/latoulicious/umaroster/pkg/logging"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/handler"
	"github.com/latoulicious/umaroster/pkg/uma/service"
)

// Runtime holds everything built from one configuration
type Runtime struct {
	Config    *config.Config
	DB        *database.DatabaseManager
	Gateway   *handler.Client
	Store     *service.RosterStore
	Scheduler *service.RefreshScheduler

	closers []func() error
}

// New opens the favourites backend, installs the logger factory and builds the store.
// The scheduler is created but not started.
func New(cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{Config: cfg}

	favourites, err := rt.openFavourites()
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	rt.initLogging()

	gateway, err := handler.NewClient(handler.ClientOptions{
		SparkURL:     cfg.Catalog.SparkURL,
		UmamusumeURL: cfg.Catalog.UmamusumeURL,
		Timeout:      cfg.Catalog.Timeout,
		RateLimit:    cfg.Catalog.RateLimit,
		Burst:        cfg.Catalog.Burst,
		CacheSize:    cfg.Catalog.CacheSize,
	})
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}
	rt.Gateway = gateway

	svc := uma.NewService(gateway, favourites)
	if cfg.Favourites.WriteTimeout > 0 {
		svc.FavouritesWriteTimeout = cfg.Favourites.WriteTimeout
	}
	rt.Store = service.NewRosterStore(svc)

	if cfg.Refresh.Schedule != "" {
		scheduler, err := service.NewRefreshScheduler(rt.Store, cfg.Refresh.Schedule)
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
		rt.Scheduler = scheduler
		rt.closers = append(rt.closers, func() error {
			scheduler.Stop()
			return nil
		})
	}

	return rt, nil
}

// openFavourites selects the persistence backend named by the configuration
func (rt *Runtime) openFavourites() (uma.FavouritesPersistence, error) {
	cfg := rt.Config.Favourites

	switch cfg.Backend {
	case config.BackendMemory:
		return cache.NewMemoryFavourites(), nil

	case config.BackendRedis:
		redisFavourites, err := cache.NewRedisFavourites(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		rt.closers = append(rt.closers, redisFavourites.Close)
		return redisFavourites, nil

	case config.BackendSQLite, config.BackendPostgres:
		db, err := database.NewGormDBFromConfig(cfg.Backend, cfg.DatabaseURL, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		rt.DB = database.NewDatabaseManager(db)
		rt.closers = append(rt.closers, rt.DB.Close)

		if err := migration.RunMigration(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return repository.NewFavouriteRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported favourites backend %q", cfg.Backend)
	}
}

// initLogging installs the process-wide logger factory
func (rt *Runtime) initLogging() {
	opts := logging.Options{
		Level:  rt.Config.Logger.Level,
		Format: rt.Config.Logger.Format,
	}

	var factory logging.LoggerFactory
	if rt.Config.Logger.SaveToDB && rt.DB != nil {
		logRepo := uma.NewLogRepositoryAdapter(repository.NewLogRepository(rt.DB.DB()))
		factory = logging.NewDatabaseLoggerFactory(logRepo, opts)
	} else {
		factory = logging.NewLoggerFactoryWithOptions(opts)
	}
	logging.SetGlobalLoggerFactory(factory)

	factory.CreateLogger("system").Info("Logging initialized", map[string]interface{}{
		"backend":    rt.Config.Favourites.Backend,
		"save_to_db": rt.Config.Logger.SaveToDB && rt.DB != nil,
		"level":      opts.Level,
	})
}

// Close releases resources in reverse order of acquisition
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
