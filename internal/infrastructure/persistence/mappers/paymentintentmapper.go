package mappers

import (
	"fmt"

	"payrelay/internal/domain/payment"
	vo "payrelay/internal/domain/payment/valueobjects"
	"payrelay/internal/infrastructure/persistence/models"
)

func PaymentIntentToModel(p *payment.PaymentIntent) *models.PaymentIntentModel {
	return &models.PaymentIntentModel{
		ID:            p.ID(),
		PaymentCode:   p.PaymentCode(),
		OrderID:       p.OrderID(),
		AmountCents:   p.Amount().Cents(),
		Currency:      p.Amount().Currency(),
		BankPrefix:    p.BankPrefix(),
		PaymentMethod: p.PaymentMethod(),
		Status:        p.Status().String(),
		TransactionID: p.TransactionID(),
		Note:          p.Note(),
		Version:       p.Version(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func PaymentIntentToDomain(model *models.PaymentIntentModel) (*payment.PaymentIntent, error) {
	status := vo.IntentStatus(model.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid intent status: %s", model.Status)
	}

	return payment.ReconstructPaymentIntent(payment.IntentReconstructParams{
		ID:            model.ID,
		PaymentCode:   model.PaymentCode,
		OrderID:       model.OrderID,
		Amount:        vo.NewAmount(model.AmountCents, model.Currency),
		BankPrefix:    model.BankPrefix,
		PaymentMethod: model.PaymentMethod,
		Status:        status,
		TransactionID: model.TransactionID,
		Note:          model.Note,
		Version:       model.Version,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}), nil
}
