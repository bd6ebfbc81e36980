package repository

import (
	"context"
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a ledger repository on the given session.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// GetByProviderID implements repository.TransactionRepository.
func (r *transactionRepository) GetByProviderID(
	ctx context.Context,
	providerID string,
) (*payment.Transaction, error) {
	return r.getByProviderID(r.db.WithContext(ctx), providerID)
}

// GetByProviderIDForUpdate implements repository.TransactionRepository.
// It issues SELECT ... FOR UPDATE so concurrent perform/cancel calls for the
// same provider id serialize on the row.
func (r *transactionRepository) GetByProviderIDForUpdate(
	ctx context.Context,
	providerID string,
) (*payment.Transaction, error) {
	return r.getByProviderID(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		providerID,
	)
}

func (r *transactionRepository) getByProviderID(db *gorm.DB, providerID string) (*payment.Transaction, error) {
	var m Transaction
	if err := WrapError(func() error {
		return db.Where("provider_transaction_id = ?", providerID).First(&m).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

// Create implements repository.TransactionRepository.
func (r *transactionRepository) Create(ctx context.Context, tx *payment.Transaction) error {
	m := mapDomainToModel(tx)
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	}); err != nil {
		return err
	}
	tx.ID = m.ID
	tx.CreatedAt = m.CreatedAt
	tx.UpdatedAt = m.UpdatedAt
	return nil
}

// Update implements repository.TransactionRepository. Amount, account and
// provider id are immutable and never written here.
func (r *transactionRepository) Update(ctx context.Context, tx *payment.Transaction) error {
	return WrapError(func() error {
		res := r.db.WithContext(ctx).
			Model(&Transaction{}).
			Where("id = ?", tx.ID).
			Updates(map[string]any{
				"status":       string(tx.Status),
				"reason":       tx.Reason,
				"performed_at": tx.PerformedAt,
				"cancelled_at": tx.CancelledAt,
				"updated_at":   tx.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListByCreatedRange implements repository.TransactionRepository.
func (r *transactionRepository) ListByCreatedRange(
	ctx context.Context,
	from, to time.Time,
) ([]*payment.Transaction, error) {
	var rows []Transaction
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("created_at >= ? AND created_at <= ?", from, to).
			Order("created_at ASC").
			Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	result := make([]*payment.Transaction, 0, len(rows))
	for i := range rows {
		result = append(result, mapModelToDomain(&rows[i]))
	}
	return result, nil
}

// --- Mappers ---

func mapDomainToModel(tx *payment.Transaction) Transaction {
	return Transaction{
		ID:                    tx.ID,
		ProviderTransactionID: tx.ProviderTransactionID,
		AccountID:             tx.AccountID,
		Amount:                tx.AmountMinorUnits,
		Status:                string(tx.Status),
		Reason:                tx.Reason,
		ProviderTime:          tx.ProviderTime,
		PerformedAt:           tx.PerformedAt,
		CancelledAt:           tx.CancelledAt,
		CreatedAt:             tx.CreatedAt,
		UpdatedAt:             tx.UpdatedAt,
	}
}

func mapModelToDomain(m *Transaction) *payment.Transaction {
	return &payment.Transaction{
		ID:                    m.ID,
		ProviderTransactionID: m.ProviderTransactionID,
		AccountID:             m.AccountID,
		AmountMinorUnits:      m.Amount,
		Status:                payment.Status(m.Status),
		Reason:                m.Reason,
		ProviderTime:          m.ProviderTime,
		PerformedAt:           m.PerformedAt,
		CancelledAt:           m.CancelledAt,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
