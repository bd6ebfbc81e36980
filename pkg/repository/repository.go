package repository

import (
	"context"
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/shopspring/decimal"
)

// TransactionRepository defines data access for the provider transaction
// ledger. Rows are never deleted.
type TransactionRepository interface {
	// GetByProviderID returns the transaction with the given provider id or
	// domain.ErrNotFound.
	GetByProviderID(ctx context.Context, providerID string) (*payment.Transaction, error)
	// GetByProviderIDForUpdate is GetByProviderID holding a row lock until the
	// surrounding unit of work ends.
	GetByProviderIDForUpdate(ctx context.Context, providerID string) (*payment.Transaction, error)
	// Create inserts a new row and assigns its ID. A second row with the same
	// provider id fails with domain.ErrAlreadyExists.
	Create(ctx context.Context, tx *payment.Transaction) error
	// Update persists status, reason and lifecycle timestamps.
	Update(ctx context.Context, tx *payment.Transaction) error
	// ListByCreatedRange returns transactions created in [from, to] ordered by
	// creation time.
	ListByCreatedRange(ctx context.Context, from, to time.Time) ([]*payment.Transaction, error)
}

// AccountRepository is the account directory and balance ledger the engine
// credits and debits.
type AccountRepository interface {
	Exists(ctx context.Context, accountID int64) (bool, error)
	GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
	// AdjustBalance adds delta (major units, may be negative) to the balance.
	AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) error
}
