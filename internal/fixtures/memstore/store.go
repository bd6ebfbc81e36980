// Package memstore is an in-memory repository.UnitOfWork for tests. Units of
// work are serialized and roll back by restoring a snapshot, which gives the
// same all-or-nothing behaviour as the gorm implementation.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/repository"
	"github.com/shopspring/decimal"
)

type state struct {
	transactions map[string]payment.Transaction
	accounts     map[int64]decimal.Decimal
	nextID       int64
}

func (s *state) clone() *state {
	cp := &state{
		transactions: make(map[string]payment.Transaction, len(s.transactions)),
		accounts:     make(map[int64]decimal.Decimal, len(s.accounts)),
		nextID:       s.nextID,
	}
	for k, v := range s.transactions {
		cp.transactions[k] = v
	}
	for k, v := range s.accounts {
		cp.accounts[k] = v
	}
	return cp
}

// Store holds transactions and account balances.
type Store struct {
	txMu   sync.Mutex
	mu     sync.Mutex
	data   *state
	writes int
	adjust int

	// UpdateErr, when set, is returned by every TransactionRepository.Update.
	UpdateErr error
}

// New creates an empty store.
func New() *Store {
	return &Store{data: &state{
		transactions: make(map[string]payment.Transaction),
		accounts:     make(map[int64]decimal.Decimal),
		nextID:       1,
	}}
}

// AddAccount registers an account with an opening balance.
func (s *Store) AddAccount(id int64, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.accounts[id] = balance
}

// Balance returns the current balance of an account.
func (s *Store) Balance(id int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.accounts[id]
}

// Transactions returns every stored transaction ordered by id.
func (s *Store) Transactions() []payment.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]payment.Transaction, 0, len(s.data.transactions))
	for _, tx := range s.data.transactions {
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Writes counts committed transaction inserts and updates.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Adjustments counts committed balance adjustments.
func (s *Store) Adjustments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjust
}

// Do implements repository.UnitOfWork.
func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	snapshot := s.data.clone()
	writes, adjust := s.writes, s.adjust
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.writes, s.adjust = writes, adjust
		s.mu.Unlock()
		return err
	}
	return nil
}

// GetRepository implements repository.UnitOfWork.
func (s *Store) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case repository.TransactionRepositoryType:
		return &transactionRepo{s: s}, nil
	case repository.AccountRepositoryType:
		return &accountRepo{s: s}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

// TransactionRepository implements repository.UnitOfWork.
func (s *Store) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{s: s}, nil
}

// AccountRepository implements repository.UnitOfWork.
func (s *Store) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{s: s}, nil
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) GetByProviderID(_ context.Context, providerID string) (*payment.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.data.transactions[providerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &tx, nil
}

func (r *transactionRepo) GetByProviderIDForUpdate(ctx context.Context, providerID string) (*payment.Transaction, error) {
	return r.GetByProviderID(ctx, providerID)
}

func (r *transactionRepo) Create(_ context.Context, tx *payment.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.transactions[tx.ProviderTransactionID]; ok {
		return domain.ErrAlreadyExists
	}
	tx.ID = r.s.data.nextID
	r.s.data.nextID++
	r.s.data.transactions[tx.ProviderTransactionID] = *tx
	r.s.writes++
	return nil
}

func (r *transactionRepo) Update(_ context.Context, tx *payment.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.UpdateErr != nil {
		return r.s.UpdateErr
	}
	stored, ok := r.s.data.transactions[tx.ProviderTransactionID]
	if !ok || stored.ID != tx.ID {
		return domain.ErrNotFound
	}
	stored.Status = tx.Status
	stored.Reason = tx.Reason
	stored.PerformedAt = tx.PerformedAt
	stored.CancelledAt = tx.CancelledAt
	stored.UpdatedAt = tx.UpdatedAt
	r.s.data.transactions[tx.ProviderTransactionID] = stored
	r.s.writes++
	return nil
}

func (r *transactionRepo) ListByCreatedRange(_ context.Context, from, to time.Time) ([]*payment.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*payment.Transaction, 0)
	for _, tx := range r.s.data.transactions {
		if tx.CreatedAt.Before(from) || tx.CreatedAt.After(to) {
			continue
		}
		out = append(out, &tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type accountRepo struct{ s *Store }

func (r *accountRepo) Exists(_ context.Context, accountID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.data.accounts[accountID]
	return ok, nil
}

func (r *accountRepo) GetBalance(_ context.Context, accountID int64) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	balance, ok := r.s.data.accounts[accountID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return balance, nil
}

func (r *accountRepo) AdjustBalance(_ context.Context, accountID int64, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	balance, ok := r.s.data.accounts[accountID]
	if !ok {
		return domain.ErrNotFound
	}
	r.s.data.accounts[accountID] = balance.Add(delta)
	r.s.adjust++
	return nil
}

var _ repository.UnitOfWork = (*Store)(nil)
