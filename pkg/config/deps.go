package config

import (
	"log/slog"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/eventbus"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Logger   *slog.Logger
	Config   *App
}
