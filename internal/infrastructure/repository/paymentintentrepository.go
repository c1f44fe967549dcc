package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"payrelay/internal/domain/payment"
	vo "payrelay/internal/domain/payment/valueobjects"
	"payrelay/internal/infrastructure/persistence/mappers"
	"payrelay/internal/infrastructure/persistence/models"
	"payrelay/internal/shared/biztime"
	"payrelay/internal/shared/db"
	apperrors "payrelay/internal/shared/errors"
)

type PaymentIntentRepository struct {
	db *gorm.DB
}

var _ payment.PaymentIntentRepository = (*PaymentIntentRepository)(nil)

func NewPaymentIntentRepository(db *gorm.DB) *PaymentIntentRepository {
	return &PaymentIntentRepository{db: db}
}

func (r *PaymentIntentRepository) Create(ctx context.Context, intent *payment.PaymentIntent) error {
	model := mappers.PaymentIntentToModel(intent)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment intent: %w", err)
	}

	// Write back the auto-generated ID to the domain object
	intent.SetID(model.ID)

	return nil
}

func (r *PaymentIntentRepository) GetByPaymentCode(ctx context.Context, paymentCode string) (*payment.PaymentIntent, error) {
	var model models.PaymentIntentModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("payment_code = ?", paymentCode).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("payment intent not found")
		}
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	return mappers.PaymentIntentToDomain(&model)
}

func (r *PaymentIntentRepository) ListRecent(ctx context.Context, limit int) ([]*payment.PaymentIntent, error) {
	var rows []models.PaymentIntentModel

	err := db.GetTxFromContext(ctx, r.db).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment intents: %w", err)
	}

	intents := make([]*payment.PaymentIntent, 0, len(rows))
	for i := range rows {
		intent, err := mappers.PaymentIntentToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

// MarkPendingFromCreated is a single conditional UPDATE; the WHERE clause
// carries the legal-transition check so concurrent callers cannot both win.
func (r *PaymentIntentRepository) MarkPendingFromCreated(ctx context.Context, paymentCode string) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentIntentModel{}).
		Where("payment_code = ? AND status = ?", paymentCode, vo.IntentStatusCreated.String()).
		Updates(map[string]interface{}{
			"status":     vo.IntentStatusPending.String(),
			"version":    gorm.Expr("version + 1"),
			"updated_at": biztime.NowUTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark intent pending: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CompleteIfNotTerminal settles the intent exactly once. RowsAffected
// tells whether this call won the transition; losers see applied=false
// and must not repeat side effects.
func (r *PaymentIntentRepository) CompleteIfNotTerminal(ctx context.Context, paymentCode, transactionID string) (bool, error) {
	updates := map[string]interface{}{
		"status":     vo.IntentStatusCompleted.String(),
		"version":    gorm.Expr("version + 1"),
		"updated_at": biztime.NowUTC(),
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentIntentModel{}).
		Where("payment_code = ? AND status IN ?", paymentCode,
			[]string{vo.IntentStatusCreated.String(), vo.IntentStatusPending.String()}).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to complete payment intent: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PaymentIntentRepository) FailIfNotTerminal(ctx context.Context, paymentCode string, status vo.IntentStatus, reason string) (bool, error) {
	if status != vo.IntentStatusFailed && status != vo.IntentStatusUnauthorized {
		return false, fmt.Errorf("status %s is not a failure status", status)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentIntentModel{}).
		Where("payment_code = ? AND status IN ?", paymentCode,
			[]string{vo.IntentStatusCreated.String(), vo.IntentStatusPending.String()}).
		Updates(map[string]interface{}{
			"status":     status.String(),
			"note":       reason,
			"version":    gorm.Expr("version + 1"),
			"updated_at": biztime.NowUTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to fail payment intent: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
