// Package payme serves the provider callback endpoint. Every outcome,
// including authorization and parse failures, is an HTTP 200 carrying a
// protocol envelope.
package payme

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
)

// Dispatcher routes a decoded request to its operation.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *payme.Request) *payme.Response
}

// Routes mounts the callback endpoint at cfg.Endpoint.
func Routes(app fiber.Router, d Dispatcher, cfg *config.Payme, logger *slog.Logger) {
	endpoint := "/payme"
	if cfg != nil && cfg.Endpoint != "" {
		endpoint = cfg.Endpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	app.Post(endpoint, AuthGate(cfg, logger), Handle(d))
}

// AuthGate rejects calls whose Authorization header is not the merchant
// credential. The rejection echoes the request id and stops the chain.
//
// @Summary Provider callback
// @Description JSON-RPC style callback from the payment provider. Always answers 200.
// @Tags payme
// @Accept json
// @Produce json
// @Param Authorization header string true "Basic credential"
// @Param request body payme.Request true "Protocol request"
// @Success 200 {object} payme.Response
// @Router /payme [post]
func AuthGate(cfg *config.Payme, logger *slog.Logger) fiber.Handler {
	expected := ""
	if cfg != nil && cfg.Key != "" {
		login := cfg.Login
		if login == "" {
			login = payme.DefaultLogin
		}
		expected = payme.Credential(login, cfg.Key)
	}
	return func(c *fiber.Ctx) error {
		if payme.Authorized(c.Get(fiber.HeaderAuthorization), expected) {
			return c.Next()
		}
		logger.Warn("payme: unauthorized call", "ip", c.IP())
		return c.JSON(payme.NewError(payme.ExtractID(c.Body()), payme.ErrInvalidAuthorization))
	}
}

// Handle decodes the body and dispatches it.
func Handle(d Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, perr := payme.DecodeRequest(c.Body())
		if perr != nil {
			var id []byte
			if req != nil {
				id = req.ID
			}
			return c.JSON(payme.NewError(id, perr))
		}
		return c.JSON(d.Dispatch(c.UserContext(), req))
	}
}
