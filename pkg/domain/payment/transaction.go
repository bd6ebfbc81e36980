// Package payment holds the provider transaction entity and its lifecycle
// rules. It knows nothing about the wire protocol or persistence.
package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain"
	"github.com/shopspring/decimal"
)

// MinorUnitsPerMajor is the number of minor currency units in one major unit.
const MinorUnitsPerMajor = 100

var (
	// ErrEmptyProviderID is returned when a transaction has no provider id.
	ErrEmptyProviderID = errors.New("provider transaction id must not be empty")
	// ErrNonPositiveAmount is returned when the amount is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

// Transaction is one provider-side transaction attempt and its local state.
type Transaction struct {
	ID                    int64
	ProviderTransactionID string
	AccountID             int64
	AmountMinorUnits      int64
	Status                Status
	Reason                *int
	// ProviderTime is the provider's own timestamp (ms) sent on creation.
	ProviderTime int64
	PerformedAt  *time.Time
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewTransaction creates a PENDING transaction. The account must already be
// known to exist; amount bounds are enforced by the caller.
func NewTransaction(
	providerID string,
	accountID int64,
	amountMinorUnits int64,
	providerTime int64,
	createdAt time.Time,
) (*Transaction, error) {
	if providerID == "" {
		return nil, ErrEmptyProviderID
	}
	if amountMinorUnits <= 0 {
		return nil, ErrNonPositiveAmount
	}
	return &Transaction{
		ProviderTransactionID: providerID,
		AccountID:             accountID,
		AmountMinorUnits:      amountMinorUnits,
		Status:                StatusPending,
		ProviderTime:          providerTime,
		CreatedAt:             createdAt,
		UpdatedAt:             createdAt,
	}, nil
}

// AmountMajorUnits returns the amount converted to major currency units.
func (t *Transaction) AmountMajorUnits() decimal.Decimal {
	return decimal.NewFromInt(t.AmountMinorUnits).Div(decimal.NewFromInt(MinorUnitsPerMajor))
}

// Perform moves a PENDING transaction to SUCCEEDED.
func (t *Transaction) Perform(at time.Time) error {
	if t.Status != StatusPending {
		return fmt.Errorf("perform from %s: %w", t.Status, domain.ErrInvalidStateTransition)
	}
	t.Status = StatusSucceeded
	t.PerformedAt = &at
	t.UpdatedAt = at
	return nil
}

// Cancel finalizes the transaction as cancelled. A PENDING transaction becomes
// FAILED; a SUCCEEDED one becomes CANCELLED_WITH_REVERT and revert is true,
// meaning the caller must reverse the balance credit.
func (t *Transaction) Cancel(reason *int, at time.Time) (revert bool, err error) {
	switch t.Status {
	case StatusPending:
		t.Status = StatusFailed
	case StatusSucceeded:
		t.Status = StatusCancelledWithRevert
		revert = true
	case StatusFailed, StatusCancelled, StatusCancelledWithRevert:
		return false, fmt.Errorf("cancel from %s: %w", t.Status, domain.ErrInvalidStateTransition)
	default:
		return false, fmt.Errorf("cancel from unknown status %q: %w", t.Status, domain.ErrInvalidStateTransition)
	}
	t.Reason = reason
	t.CancelledAt = &at
	t.UpdatedAt = at
	return revert, nil
}
