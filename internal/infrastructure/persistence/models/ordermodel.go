package models

import (
	"time"

	"payrelay/internal/shared/constants"
)

// OrderModel is the host platform's order row as this service sees it.
// Only the fields reconciliation reads or mutates are mapped.
type OrderModel struct {
	ID               uint   `gorm:"primarykey"`
	Number           string `gorm:"uniqueIndex;not null;size:64"`
	BillingName      string `gorm:"size:255"`
	BillingEmail     string `gorm:"size:255"`
	BillingPhone     string `gorm:"size:32"`
	TotalCents       int64  `gorm:"not null"`
	Currency         string `gorm:"not null;size:8;default:MYR"`
	Status           string `gorm:"not null;size:20;index:idx_order_status"`
	TransactionID    string `gorm:"size:128"`
	InventoryReduced bool   `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (OrderModel) TableName() string {
	return constants.TableOrders
}

// OrderNoteModel is one append-only audit line against an order. Every
// processor event leaves one regardless of whether it changed state.
type OrderNoteModel struct {
	ID        uint   `gorm:"primarykey"`
	OrderID   uint   `gorm:"index:idx_note_order;not null"`
	Note      string `gorm:"not null;size:2048"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (OrderNoteModel) TableName() string {
	return constants.TableOrderNotes
}
