// Package reconciliation is the transaction state machine behind the payment
// provider's merchant API. It keeps the local transaction ledger in step with
// provider callbacks and credits or reverses account balances exactly once per
// transition, no matter how often the provider re-delivers a call.
//
// Every state-changing operation runs inside a single unit of work that locks
// the ledger row, so the status write and the balance adjustment commit
// together. Concurrent duplicates inside one process are additionally
// collapsed with singleflight before they reach the database.
package reconciliation

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/eventbus"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/repository"
	"golang.org/x/sync/singleflight"
)

// Limits bounds the amount (minor units) accepted on new transactions.
type Limits struct {
	MinAmount int64
	MaxAmount int64
}

// Contains reports whether amount lies within [MinAmount, MaxAmount].
func (l Limits) Contains(amount int64) bool {
	return amount >= l.MinAmount && amount <= l.MaxAmount
}

// Service implements the provider methods on top of the transaction ledger.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	limits Limits
	logger *slog.Logger
	now    func() time.Time
	group  singleflight.Group
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for lifecycle timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLimits overrides the amount bounds taken from the config.
func WithLimits(l Limits) Option {
	return func(s *Service) { s.limits = l }
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps, opts ...Option) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:    deps.Uow,
		bus:    deps.EventBus,
		logger: logger.With("service", "reconciliation"),
		now:    time.Now,
	}
	if deps.Config != nil && deps.Config.Payme != nil {
		s.limits = Limits{
			MinAmount: deps.Config.Payme.MinAmount,
			MaxAmount: deps.Config.Payme.MaxAmount,
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	// Protocol times are milliseconds; stored times must compare equal to
	// what was reported.
	clock := s.now
	s.now = func() time.Time { return clock().Truncate(time.Millisecond) }
	return s
}

// validateAccountAndAmount resolves the account reference and checks the
// amount bounds. Checks run in this order: account id format, account
// existence, amount.
func (s *Service) validateAccountAndAmount(
	ctx context.Context,
	accounts repository.AccountRepository,
	account payme.AccountRef,
	amount payme.Scalar,
) (accountID int64, amountMinorUnits int64, err error) {
	accountID, perr := account.UserID.Int64()
	if perr != nil {
		return 0, 0, payme.ErrInvalidAccount
	}
	exists, err := accounts.Exists(ctx, accountID)
	if err != nil {
		return 0, 0, err
	}
	if !exists {
		return 0, 0, payme.ErrAccountNotFound
	}
	amountMinorUnits, perr = amount.Int64()
	if perr != nil || !s.limits.Contains(amountMinorUnits) {
		return 0, 0, payme.ErrInvalidAmount
	}
	return accountID, amountMinorUnits, nil
}

// lockTransaction loads the ledger row for update, mapping a missing row to
// the protocol's not-found error.
func lockTransaction(
	ctx context.Context,
	txRepo repository.TransactionRepository,
	providerID string,
) (*payment.Transaction, error) {
	tx, err := txRepo.GetByProviderIDForUpdate(ctx, providerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, payme.ErrTransactionNotFound
	}
	return tx, err
}

func (s *Service) emit(ctx context.Context, event eventbus.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event); err != nil {
		s.logger.Error("failed to emit lifecycle event", "type", event.Type(), "error", err)
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
