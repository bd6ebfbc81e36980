package initializer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/infra"
	infra_repository "github.com/my-workj-ob/kelishamiz-backend-sub000/infra/repository"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/app"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	deps = &app.Deps{}
	logger := SetupLogger(cfg.Log)
	deps.Logger = logger

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database pool: %w", err)
	}

	deps.Uow = infra_repository.NewUoW(db)
	deps.HealthCheck = sqlDB.PingContext

	bus, err := initEventBus(cfg, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}
	deps.EventBus = bus

	deps.Close = func() error {
		var errs []error
		if c, ok := bus.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
		errs = append(errs, sqlDB.Close())
		return errors.Join(errs...)
	}

	if cfg.Payme != nil && cfg.Payme.Key == "" {
		logger.Warn("PAYME_KEY is not set; every provider call will be rejected as unauthorized")
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := deps.HealthCheck(pingCtx); err != nil {
		logger.Warn("Database is not reachable yet", "error", err)
	}
	return deps, nil
}
