package usecases

import (
	"context"

	"payrelay/internal/domain/payment"
	"payrelay/internal/shared/logger"
)

const defaultRecentLimit = 10

type ListRecentIntentsUseCase struct {
	intents payment.PaymentIntentRepository
	logger  logger.Interface
}

func NewListRecentIntentsUseCase(intents payment.PaymentIntentRepository, logger logger.Interface) *ListRecentIntentsUseCase {
	return &ListRecentIntentsUseCase{intents: intents, logger: logger}
}

func (uc *ListRecentIntentsUseCase) Execute(ctx context.Context, limit int) ([]*payment.PaymentIntent, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return uc.intents.ListRecent(ctx, limit)
}
