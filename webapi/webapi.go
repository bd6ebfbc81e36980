// Package webapi wires the HTTP surface of the reconciliation engine:
// - payme: the provider callback endpoint
// - admin: JWT protected operator lookups
package webapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/app"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/middleware"
	paymelib "github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
	adminweb "github.com/my-workj-ob/kelishamiz-backend-sub000/webapi/admin"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/webapi/common"
	paymeweb "github.com/my-workj-ob/kelishamiz-backend-sub000/webapi/payme"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	endpoint := "/payme"
	if app.Config.Payme != nil && app.Config.Payme.Endpoint != "" {
		endpoint = app.Config.Payme.Endpoint
	}
	logger := app.Deps.Logger

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// The provider only understands protocol envelopes.
			if c.Path() == endpoint {
				logger.Error("payme: unhandled error", "error", err)
				return c.Status(fiber.StatusOK).JSON(
					paymelib.NewError(paymelib.ExtractID(c.Body()), paymelib.ErrSystem),
				)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Use(recover.New())
	fiberApp.Use(middleware.RequestLogger(logger))

	// Configure rate limiting middleware
	// Uses X-Forwarded-For header when behind a proxy
	// Falls back to X-Real-IP or direct IP if needed
	if rl := app.Config.RateLimit; rl != nil && rl.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:        rl.MaxRequests,
			Expiration: rl.Window,
			// The provider retries on anything but 200, so its endpoint is not limited.
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == endpoint
			},
			KeyGenerator: clientIP,
			LimitReached: func(c *fiber.Ctx) error {
				return common.ProblemDetailsJSON(
					c,
					"Too Many Requests",
					errors.New("rate limit exceeded"),
					fiber.StatusTooManyRequests,
				)
			},
		}))
	}

	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	// Health check endpoint
	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		if app.Deps.HealthCheck != nil {
			if err := app.Deps.HealthCheck(c.UserContext()); err != nil {
				return common.ProblemDetailsJSON(c, "Service Unavailable", err.Error(), fiber.StatusServiceUnavailable)
			}
		}
		return c.JSON(common.Response{Status: fiber.StatusOK, Message: "ok"})
	})

	paymeweb.Routes(fiberApp, app.Dispatcher, app.Config.Payme, logger)
	adminweb.Routes(fiberApp, app.ReconciliationService, app.Config.Admin)
	return fiberApp
}

func clientIP(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		// Take the first IP in the chain
		if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
			return strings.TrimSpace(forwardedFor[:commaIndex])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
