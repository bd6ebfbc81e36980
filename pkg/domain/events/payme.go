package events

import (
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/eventbus"
)

// EventType names a transaction lifecycle event.
type EventType string

func (t EventType) String() string { return string(t) }

const (
	EventTypeTransactionCreated   EventType = "payme.transaction.created"
	EventTypeTransactionPerformed EventType = "payme.transaction.performed"
	EventTypeTransactionCancelled EventType = "payme.transaction.cancelled"
)

// TransactionEvent carries the ledger row snapshot shared by every
// lifecycle event.
type TransactionEvent struct {
	ProviderTransactionID string         `json:"provider_transaction_id"`
	TransactionID         int64          `json:"transaction_id"`
	AccountID             int64          `json:"account_id"`
	AmountMinorUnits      int64          `json:"amount"`
	Status                payment.Status `json:"status"`
	Reason                *int           `json:"reason,omitempty"`
	OccurredAt            time.Time      `json:"occurred_at"`
}

// TransactionCreated is emitted once a new pending transaction is stored.
type TransactionCreated struct {
	TransactionEvent
}

func (e *TransactionCreated) Type() string { return EventTypeTransactionCreated.String() }

// TransactionPerformed is emitted after the account has been credited.
type TransactionPerformed struct {
	TransactionEvent
}

func (e *TransactionPerformed) Type() string { return EventTypeTransactionPerformed.String() }

// TransactionCancelled is emitted for both pending and performed
// cancellations. Reverted is true when the credit was taken back.
type TransactionCancelled struct {
	TransactionEvent
	Reverted bool `json:"reverted"`
}

func (e *TransactionCancelled) Type() string { return EventTypeTransactionCancelled.String() }

// NewTransactionEvent snapshots tx at the given instant.
func NewTransactionEvent(tx *payment.Transaction, at time.Time) TransactionEvent {
	return TransactionEvent{
		ProviderTransactionID: tx.ProviderTransactionID,
		TransactionID:         tx.ID,
		AccountID:             tx.AccountID,
		AmountMinorUnits:      tx.AmountMinorUnits,
		Status:                tx.Status,
		Reason:                tx.Reason,
		OccurredAt:            at,
	}
}

// EventTypes maps event types to constructors used when decoding events
// read back from a stream or topic.
var EventTypes = map[EventType]func() eventbus.Event{
	EventTypeTransactionCreated:   func() eventbus.Event { return &TransactionCreated{} },
	EventTypeTransactionPerformed: func() eventbus.Event { return &TransactionPerformed{} },
	EventTypeTransactionCancelled: func() eventbus.Event { return &TransactionCancelled{} },
}
