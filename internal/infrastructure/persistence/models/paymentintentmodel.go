package models

import (
	"time"

	"payrelay/internal/shared/constants"
)

// PaymentIntentModel represents the database persistence model for payment
// intents. This is the anti-corruption layer between domain and database.
type PaymentIntentModel struct {
	ID            uint   `gorm:"primarykey"`
	PaymentCode   string `gorm:"uniqueIndex;not null;size:64"`
	OrderID       uint   `gorm:"index:idx_intent_order;not null"`
	AmountCents   int64  `gorm:"not null"`
	Currency      string `gorm:"not null;size:8;default:MYR"`
	BankPrefix    string `gorm:"not null;size:32"`
	PaymentMethod string `gorm:"not null;size:32"`
	Status        string `gorm:"not null;size:20;index:idx_intent_status"`
	TransactionID *string `gorm:"size:128"`
	Note          *string `gorm:"size:1024"`
	Version       int     `gorm:"not null;default:1"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (PaymentIntentModel) TableName() string {
	return constants.TablePaymentIntents
}
