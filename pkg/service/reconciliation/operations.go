package reconciliation

import (
	"context"
	"errors"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/events"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/repository"
)

// CreateTransaction registers a new PENDING transaction, or echoes the
// existing one when the provider re-delivers the call.
func (s *Service) CreateTransaction(
	ctx context.Context,
	p *payme.CreateTransactionParams,
) (*payme.CreateResult, error) {
	providerID := p.ID.String()
	v, err, _ := s.group.Do("create:"+providerID, func() (any, error) {
		return s.createTransaction(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return v.(*payme.CreateResult), nil
}

func (s *Service) createTransaction(
	ctx context.Context,
	p *payme.CreateTransactionParams,
) (*payme.CreateResult, error) {
	providerID := p.ID.String()
	logger := s.logger.With("method", payme.MethodCreateTransaction.String(), "provider_tx_id", providerID)

	var (
		result  *payme.CreateResult
		created *payment.Transaction
	)
	attempt := func() error {
		created = nil
		return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			txRepo, err := uow.TransactionRepository()
			if err != nil {
				return err
			}
			existing, err := txRepo.GetByProviderIDForUpdate(ctx, providerID)
			switch {
			case err == nil:
				if existing.Status != payment.StatusPending {
					logger.Info("CreateTransaction rejected: transaction already finalized", "status", existing.Status)
					return payme.ErrCantPerform
				}
				result = createResult(existing)
				return nil
			case !errors.Is(err, domain.ErrNotFound):
				return err
			}

			accRepo, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			accountID, amount, err := s.validateAccountAndAmount(ctx, accRepo, p.Account, p.Amount)
			if err != nil {
				return err
			}
			providerTime, _ := p.Time.Int64()
			tx, err := payment.NewTransaction(providerID, accountID, amount, providerTime, s.now())
			if err != nil {
				return payme.ErrInvalidAmount
			}
			if err := txRepo.Create(ctx, tx); err != nil {
				return err
			}
			created = tx
			result = createResult(tx)
			return nil
		})
	}

	err := attempt()
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Another process inserted the row between our lookup and insert;
		// the second pass sees it and answers as a duplicate.
		logger.Debug("CreateTransaction lost insert race, retrying")
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	if created != nil {
		logger.Info("CreateTransaction completed", "transaction_id", created.ID, "account_id", created.AccountID)
		s.emit(ctx, &events.TransactionCreated{TransactionEvent: events.NewTransactionEvent(created, created.CreatedAt)})
	}
	return result, nil
}

// PerformTransaction credits the account and marks the transaction
// SUCCEEDED. Repeated calls return the original result without crediting
// again.
func (s *Service) PerformTransaction(
	ctx context.Context,
	p *payme.PerformTransactionParams,
) (*payme.PerformResult, error) {
	providerID := p.ID.String()
	v, err, _ := s.group.Do("perform:"+providerID, func() (any, error) {
		return s.performTransaction(ctx, providerID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*payme.PerformResult), nil
}

func (s *Service) performTransaction(ctx context.Context, providerID string) (*payme.PerformResult, error) {
	logger := s.logger.With("method", payme.MethodPerformTransaction.String(), "provider_tx_id", providerID)

	var (
		result    *payme.PerformResult
		performed *payment.Transaction
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err := lockTransaction(ctx, txRepo, providerID)
		if err != nil {
			return err
		}

		switch tx.Status {
		case payment.StatusSucceeded:
			result = performResult(tx)
			return nil
		case payment.StatusPending:
		case payment.StatusFailed, payment.StatusCancelled, payment.StatusCancelledWithRevert:
			logger.Info("PerformTransaction rejected: transaction cancelled", "status", tx.Status)
			return payme.ErrCantPerform
		default:
			return payme.ErrCantPerform
		}

		if err := tx.Perform(s.now()); err != nil {
			return err
		}
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := accRepo.AdjustBalance(ctx, tx.AccountID, tx.AmountMajorUnits()); err != nil {
			return err
		}
		if err := txRepo.Update(ctx, tx); err != nil {
			return err
		}
		performed = tx
		result = performResult(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if performed != nil {
		logger.Info("PerformTransaction completed",
			"transaction_id", performed.ID,
			"account_id", performed.AccountID,
			"credited", performed.AmountMajorUnits().String(),
		)
		s.emit(ctx, &events.TransactionPerformed{TransactionEvent: events.NewTransactionEvent(performed, *performed.PerformedAt)})
	}
	return result, nil
}

// CancelTransaction cancels a transaction. A performed transaction has its
// credit reversed; a pending one simply fails. Already cancelled
// transactions are echoed.
func (s *Service) CancelTransaction(
	ctx context.Context,
	p *payme.CancelTransactionParams,
) (*payme.CancelResult, error) {
	providerID := p.ID.String()
	reason64, err := p.Reason.Int64()
	if err != nil {
		return nil, payme.ErrInvalidRequest.WithData("reason")
	}
	reason := int(reason64)

	v, err, _ := s.group.Do("cancel:"+providerID, func() (any, error) {
		return s.cancelTransaction(ctx, providerID, reason)
	})
	if err != nil {
		return nil, err
	}
	return v.(*payme.CancelResult), nil
}

func (s *Service) cancelTransaction(ctx context.Context, providerID string, reason int) (*payme.CancelResult, error) {
	logger := s.logger.With("method", payme.MethodCancelTransaction.String(), "provider_tx_id", providerID)

	var (
		result    *payme.CancelResult
		cancelled *payment.Transaction
		reverted  bool
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err := lockTransaction(ctx, txRepo, providerID)
		if err != nil {
			return err
		}
		if tx.Status.Cancelled() {
			result = cancelResult(tx)
			return nil
		}

		revert, err := tx.Cancel(&reason, s.now())
		if err != nil {
			return err
		}
		if revert {
			accRepo, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			if err := accRepo.AdjustBalance(ctx, tx.AccountID, tx.AmountMajorUnits().Neg()); err != nil {
				return err
			}
		}
		if err := txRepo.Update(ctx, tx); err != nil {
			return err
		}
		cancelled = tx
		reverted = revert
		result = cancelResult(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cancelled != nil {
		logger.Info("CancelTransaction completed",
			"transaction_id", cancelled.ID,
			"status", cancelled.Status,
			"reverted", reverted,
			"reason", reason,
		)
		s.emit(ctx, &events.TransactionCancelled{
			TransactionEvent: events.NewTransactionEvent(cancelled, *cancelled.CancelledAt),
			Reverted:         reverted,
		})
	}
	return result, nil
}
