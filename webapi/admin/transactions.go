package admin

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/middleware"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/webapi/common"
)

// TransactionReader is the read side of the reconciliation service.
type TransactionReader interface {
	GetTransaction(ctx context.Context, providerID string) (*payment.Transaction, error)
	ListTransactions(ctx context.Context, from, to time.Time) ([]*payment.Transaction, error)
}

// Routes mounts the operator endpoints behind the admin JWT.
func Routes(app fiber.Router, svc TransactionReader, cfg *config.Admin) {
	group := app.Group("/api/v1/admin/payme", middleware.Protected(cfg))
	group.Get("/transactions", ListTransactions(svc))
	group.Get("/transactions/:providerId", GetTransaction(svc))
}

// GetTransaction returns one ledger row.
// @Summary Get a provider transaction
// @Tags admin
// @Produce json
// @Security Bearer
// @Param providerId path string true "Provider transaction id"
// @Success 200 {object} common.Response{data=TransactionDTO}
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/v1/admin/payme/transactions/{providerId} [get]
func GetTransaction(svc TransactionReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx, err := svc.GetTransaction(c.UserContext(), c.Params("providerId"))
		if errors.Is(err, payme.ErrTransactionNotFound) {
			return common.ProblemDetailsJSON(c, "Transaction not found", nil, fiber.StatusNotFound)
		}
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to load transaction", err)
		}
		return c.JSON(common.Response{
			Status:  fiber.StatusOK,
			Message: "Transaction fetched",
			Data:    toDTO(tx),
		})
	}
}

// ListTransactions returns ledger rows created in [from, to].
// @Summary List provider transactions by creation time
// @Tags admin
// @Produce json
// @Security Bearer
// @Param from query int true "Range start, unix ms"
// @Param to query int true "Range end, unix ms"
// @Success 200 {object} common.Response{data=[]TransactionDTO}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /api/v1/admin/payme/transactions [get]
func ListTransactions(svc TransactionReader) fiber.Handler {
	validate := validator.New()
	return func(c *fiber.Ctx) error {
		var q RangeQuery
		if err := c.QueryParser(&q); err != nil {
			return common.ProblemDetailsJSON(c, "Invalid query", err.Error(), fiber.StatusBadRequest)
		}
		if err := validate.Struct(q); err != nil {
			return common.ProblemDetailsJSON(c, "Validation failed", err.Error(), fiber.StatusBadRequest)
		}

		txs, err := svc.ListTransactions(c.UserContext(), time.UnixMilli(*q.From), time.UnixMilli(*q.To))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		out := make([]TransactionDTO, 0, len(txs))
		for _, tx := range txs {
			out = append(out, toDTO(tx))
		}
		return c.JSON(common.Response{
			Status:  fiber.StatusOK,
			Message: "Transactions fetched",
			Data:    out,
		})
	}
}
