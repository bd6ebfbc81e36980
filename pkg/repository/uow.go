package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Repositories obtained from the UnitOfWork passed to Do share one database
// transaction, so a ledger row update and a balance adjustment either both
// commit or both roll back.
//
// Example usage:
//
//	err := uow.Do(ctx, func(uow repository.UnitOfWork) error {
//	    txRepo, err := uow.TransactionRepository()
//	    ...
//	})
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction/session.
	GetRepository(repoType reflect.Type) (any, error)

	TransactionRepository() (TransactionRepository, error)
	AccountRepository() (AccountRepository, error)
}

// TransactionRepositoryType and AccountRepositoryType are the registry keys
// for GetRepository.
var (
	TransactionRepositoryType = reflect.TypeOf((*TransactionRepository)(nil)).Elem()
	AccountRepositoryType     = reflect.TypeOf((*AccountRepository)(nil)).Elem()
)
