// Package handler exposes the reconciliation engine as a single
// net/http handler for serverless hosting.
package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/infra/initializer"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/app"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/webapi"
)

var (
	once    sync.Once
	handler http.HandlerFunc
)

// Handler is the main entry point of the application.
func Handler(w http.ResponseWriter, r *http.Request) {
	// This is needed to set the proper request path in `*fiber.Ctx`
	r.RequestURI = r.URL.String()

	once.Do(func() { handler = build() })
	handler.ServeHTTP(w, r)
}

// build wires the application once per cold start. Startup failures are
// answered with 503 until the instance is recycled.
func build() http.HandlerFunc {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load application configuration", "error", err)
		return unavailable
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		slog.Error("Failed to initialize dependencies", "error", err)
		return unavailable
	}
	return adaptor.FiberApp(webapi.SetupApp(app.New(deps, cfg)))
}

func unavailable(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "service unavailable", http.StatusServiceUnavailable)
}
