package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the persisted provider transaction row.
type Transaction struct {
	ID                    int64  `gorm:"primaryKey;autoIncrement"`
	ProviderTransactionID string `gorm:"column:provider_transaction_id;type:varchar(64);uniqueIndex;not null"`
	AccountID             int64  `gorm:"not null;index"`
	Amount                int64  `gorm:"not null"`
	Status                string `gorm:"type:varchar(32);not null;index"`
	Reason                *int
	ProviderTime          int64 `gorm:"not null;default:0"`
	PerformedAt           *time.Time
	CancelledAt           *time.Time
	CreatedAt             time.Time `gorm:"not null;index"`
	UpdatedAt             time.Time `gorm:"not null"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "payme_transactions"
}

// Account is the balance-holding account row credited by the engine.
type Account struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}
