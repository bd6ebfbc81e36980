package app

import (
	"context"
	"log/slog"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/eventbus"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/repository"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/service/reconciliation"
)

// Deps holds the infrastructure the application is built from.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Logger   *slog.Logger
	// HealthCheck reports whether the backing store is reachable.
	HealthCheck func(ctx context.Context) error
	// Close releases connections opened for these deps.
	Close func() error
}

type App struct {
	Deps                  *Deps
	Config                *config.App
	ReconciliationService *reconciliation.Service
	Dispatcher            *reconciliation.Dispatcher
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()

	app.ReconciliationService = reconciliation.NewService(config.Deps{
		Uow:      deps.Uow,
		EventBus: deps.EventBus,
		Logger:   deps.Logger,
		Config:   cfg,
	})
	app.Dispatcher = reconciliation.NewDispatcher(app.ReconciliationService, deps.Logger)
	return app
}
