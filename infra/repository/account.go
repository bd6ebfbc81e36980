package repository

import (
	"context"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account ledger repository on the given session.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Exists implements repository.AccountRepository.
func (r *accountRepository) Exists(ctx context.Context, accountID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", accountID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetBalance implements repository.AccountRepository.
func (r *accountRepository) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	var a Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Select("id", "balance").First(&a, "id = ?", accountID).Error
	}); err != nil {
		return decimal.Zero, err
	}
	return a.Balance, nil
}

// AdjustBalance implements repository.AccountRepository. The update is a
// single relative UPDATE, so it does not race with other writers of the row.
func (r *accountRepository) AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) error {
	return WrapError(func() error {
		res := r.db.WithContext(ctx).
			Model(&Account{}).
			Where("id = ?", accountID).
			Update("balance", gorm.Expr("balance + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
