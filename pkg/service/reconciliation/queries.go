package reconciliation

import (
	"context"
	"errors"
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
)

// CheckPerformTransaction reports whether a payment for the account and
// amount would be accepted. It never writes.
func (s *Service) CheckPerformTransaction(
	ctx context.Context,
	p *payme.CheckPerformTransactionParams,
) (*payme.CheckPerformResult, error) {
	accRepo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	if _, _, err := s.validateAccountAndAmount(ctx, accRepo, p.Account, p.Amount); err != nil {
		return nil, err
	}
	return &payme.CheckPerformResult{Allow: true}, nil
}

// CheckTransaction reports the current state of a transaction.
func (s *Service) CheckTransaction(
	ctx context.Context,
	p *payme.CheckTransactionParams,
) (*payme.CheckResult, error) {
	tx, err := s.GetTransaction(ctx, p.ID.String())
	if err != nil {
		return nil, err
	}
	return checkResult(tx), nil
}

// GetStatement lists transactions created within [from, to] (ms), oldest
// first.
func (s *Service) GetStatement(
	ctx context.Context,
	p *payme.GetStatementParams,
) (*payme.StatementResult, error) {
	from, err := p.From.Int64()
	if err != nil {
		return nil, payme.ErrInvalidRequest.WithData("from")
	}
	to, err := p.To.Int64()
	if err != nil {
		return nil, payme.ErrInvalidRequest.WithData("to")
	}

	txs, err := s.ListTransactions(ctx, time.UnixMilli(from), time.UnixMilli(to))
	if err != nil {
		return nil, err
	}
	result := &payme.StatementResult{Transactions: make([]payme.StatementTransaction, 0, len(txs))}
	for _, tx := range txs {
		result.Transactions = append(result.Transactions, statementEntry(tx))
	}
	return result, nil
}

// GetTransaction returns the ledger row for a provider transaction id, or
// payme.ErrTransactionNotFound.
func (s *Service) GetTransaction(ctx context.Context, providerID string) (*payment.Transaction, error) {
	txRepo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	tx, err := txRepo.GetByProviderID(ctx, providerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, payme.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ListTransactions returns ledger rows created within [from, to].
func (s *Service) ListTransactions(ctx context.Context, from, to time.Time) ([]*payment.Transaction, error) {
	if to.Before(from) {
		return []*payment.Transaction{}, nil
	}
	txRepo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return txRepo.ListByCreatedRange(ctx, from, to)
}
