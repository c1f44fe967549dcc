package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"payrelay/internal/domain/order"
	"payrelay/internal/infrastructure/persistence/models"
	"payrelay/internal/shared/biztime"
	"payrelay/internal/shared/constants"
	"payrelay/internal/shared/db"
	apperrors "payrelay/internal/shared/errors"
)

// OrderStore is the gorm-backed adapter to the host platform's order
// tables. Deployments that keep orders in another system replace this
// with their own order.Store implementation.
type OrderStore struct {
	db *gorm.DB
}

var _ order.Store = (*OrderStore)(nil)

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model models.OrderModel

	if err := db.GetTxFromContext(ctx, s.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("order not found")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return orderToDomain(&model), nil
}

func (s *OrderStore) FindByPaymentCode(ctx context.Context, paymentCode string) (*order.Order, error) {
	var model models.OrderModel

	err := db.GetTxFromContext(ctx, s.db).
		Joins(fmt.Sprintf("JOIN %s pi ON pi.order_id = %s.id",
			constants.TablePaymentIntents, constants.TableOrders)).
		Where("pi.payment_code = ?", paymentCode).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("order not found for payment code")
		}
		return nil, fmt.Errorf("failed to get order by payment code: %w", err)
	}

	return orderToDomain(&model), nil
}

func (s *OrderStore) TransitionStatus(ctx context.Context, orderID uint, status order.Status, note string) error {
	tx := db.GetTxFromContext(ctx, s.db)

	result := tx.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": biztime.NowUTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to transition order status: %w", result.Error)
	}

	if note != "" {
		return s.AppendAuditNote(ctx, orderID, note)
	}
	return nil
}

func (s *OrderStore) MarkPaymentComplete(ctx context.Context, orderID uint, transactionID string) error {
	result := db.GetTxFromContext(ctx, s.db).
		Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":         string(order.StatusProcessing),
			"transaction_id": transactionID,
			"updated_at":     biztime.NowUTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark order payment complete: %w", result.Error)
	}
	return nil
}

func (s *OrderStore) AppendAuditNote(ctx context.Context, orderID uint, note string) error {
	row := models.OrderNoteModel{
		OrderID:   orderID,
		Note:      note,
		CreatedAt: biztime.NowUTC(),
	}
	if err := db.GetTxFromContext(ctx, s.db).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to append order note: %w", err)
	}
	return nil
}

// DecrementInventory flips the inventory_reduced flag conditionally so a
// racing duplicate event cannot reduce stock twice.
func (s *OrderStore) DecrementInventory(ctx context.Context, orderID uint) error {
	result := db.GetTxFromContext(ctx, s.db).
		Model(&models.OrderModel{}).
		Where("id = ? AND inventory_reduced = ?", orderID, false).
		Updates(map[string]interface{}{
			"inventory_reduced": true,
			"updated_at":        biztime.NowUTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to decrement inventory: %w", result.Error)
	}
	return nil
}

func (s *OrderStore) RestoreInventory(ctx context.Context, orderID uint) error {
	result := db.GetTxFromContext(ctx, s.db).
		Model(&models.OrderModel{}).
		Where("id = ? AND inventory_reduced = ?", orderID, true).
		Updates(map[string]interface{}{
			"inventory_reduced": false,
			"updated_at":        biztime.NowUTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to restore inventory: %w", result.Error)
	}
	return nil
}

func orderToDomain(model *models.OrderModel) *order.Order {
	return &order.Order{
		ID:               model.ID,
		Number:           model.Number,
		BillingName:      model.BillingName,
		BillingEmail:     model.BillingEmail,
		BillingPhone:     model.BillingPhone,
		TotalCents:       model.TotalCents,
		Currency:         model.Currency,
		Status:           order.Status(model.Status),
		TransactionID:    model.TransactionID,
		InventoryReduced: model.InventoryReduced,
	}
}
