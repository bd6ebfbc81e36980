package app

import (
	"context"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/events"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/eventbus"
)

// setupEventBus registers the audit log handler for every lifecycle event.
func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil || a.Deps.Logger == nil {
		return
	}
	for eventType := range events.EventTypes {
		a.Deps.EventBus.Register(eventType.String(), a.auditLog)
	}
}

func (a *App) auditLog(_ context.Context, e eventbus.Event) error {
	logger := a.Deps.Logger.With("event_type", e.Type())
	switch evt := e.(type) {
	case *events.TransactionCreated:
		logger.Info("audit", "provider_tx_id", evt.ProviderTransactionID, "account_id", evt.AccountID, "amount", evt.AmountMinorUnits)
	case *events.TransactionPerformed:
		logger.Info("audit", "provider_tx_id", evt.ProviderTransactionID, "account_id", evt.AccountID, "amount", evt.AmountMinorUnits)
	case *events.TransactionCancelled:
		logger.Info("audit", "provider_tx_id", evt.ProviderTransactionID, "status", evt.Status, "reverted", evt.Reverted)
	default:
		logger.Warn("audit: unexpected event")
	}
	return nil
}
