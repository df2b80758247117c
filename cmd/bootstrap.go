package cmd

import (
	"context"
	"fmt"
	"io"

	"asset-sync/core/config"
	"asset-sync/core/database"
	"asset-sync/core/lock"
	"asset-sync/core/logger"
	"asset-sync/core/reconcile"
	"asset-sync/core/storage"
	"asset-sync/core/store"
	"asset-sync/feature/provider"
	"asset-sync/feature/provider/registry"
	"asset-sync/feature/syncer"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deps is the wired object graph shared by the server and the one-shot commands.
type deps struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	store    *store.Store
	registry *registry.Registry
	syncer   *syncer.Service
	// storage is nil unless webhook archiving is enabled.
	storage storage.Client

	closers []func() error
}

// loadBase reads configuration and builds the logger.
func loadBase() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logg, nil
}

// bootstrap connects every backing service. migrate runs AutoMigrate before returning.
func bootstrap(ctx context.Context, migrate bool) (*deps, error) {
	// 1. Configuration and logger
	cfg, logg, err := loadBase()
	if err != nil {
		return nil, err
	}
	rt := &deps{cfg: cfg, logger: logg}

	// 2. Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rt.db = db
	if sqlDB, err := db.DB(); err == nil {
		rt.closers = append(rt.closers, sqlDB.Close)
	}
	rt.store = store.New(db)

	if migrate {
		if err := rt.store.Migrate(ctx); err != nil {
			rt.Close()
			return nil, err
		}
		logg.Info("Database schema migrated", zap.String("driver", cfg.Database.Driver))
	}

	// 3. Locks
	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Enabled {
		redisLocker, rdb, err := lock.NewRedis(ctx, cfg.Redis, logg)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, rdb.Close)
		locker = redisLocker
		logg.Info("Using redis locks", zap.String("addr", cfg.Redis.Addr))
	}

	// 4. Object storage (optional)
	if cfg.Storage.ArchiveWebhooks {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		rt.storage = client
	}

	// 5. Providers, reconciler, orchestrator
	rt.registry = registry.Default(provider.NewRequester(cfg.Provider, logg))
	rec := reconcile.New(rt.store, cfg.Sync.MappingCacheTTL(), logg)
	rt.syncer = syncer.NewService(rt.store, rt.registry, rec, locker, cfg.Sync, logg)

	return rt, nil
}

// Close releases connections in reverse order of creation.
func (rt *deps) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
