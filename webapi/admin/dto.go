package admin

import (
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
)

// RangeQuery bounds a listing by creation time in unix milliseconds.
type RangeQuery struct {
	From *int64 `query:"from" validate:"required,gte=0"`
	To   *int64 `query:"to" validate:"required,gte=0"`
}

type TransactionDTO struct {
	ID                    int64      `json:"id"`
	ProviderTransactionID string     `json:"provider_transaction_id"`
	AccountID             int64      `json:"account_id"`
	Amount                int64      `json:"amount"`
	Status                string     `json:"status"`
	Reason                *int       `json:"reason,omitempty"`
	ProviderTime          int64      `json:"provider_time"`
	CreatedAt             time.Time  `json:"created_at"`
	PerformedAt           *time.Time `json:"performed_at,omitempty"`
	CancelledAt           *time.Time `json:"cancelled_at,omitempty"`
}

func toDTO(tx *payment.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:                    tx.ID,
		ProviderTransactionID: tx.ProviderTransactionID,
		AccountID:             tx.AccountID,
		Amount:                tx.AmountMinorUnits,
		Status:                tx.Status.String(),
		Reason:                tx.Reason,
		ProviderTime:          tx.ProviderTime,
		CreatedAt:             tx.CreatedAt,
		PerformedAt:           tx.PerformedAt,
		CancelledAt:           tx.CancelledAt,
	}
}
