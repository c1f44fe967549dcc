package usecases

import (
	"context"

	"payrelay/internal/application/payment/processorgateway"
	"payrelay/internal/shared/logger"
)

// QueryTransactionStatusUseCase polls the processor for a payment code's
// current remote state. Operator tooling only; never part of the
// automated reconciliation path, and never cached.
type QueryTransactionStatusUseCase struct {
	gateway processorgateway.ProcessorGateway
	logger  logger.Interface
}

func NewQueryTransactionStatusUseCase(gateway processorgateway.ProcessorGateway, logger logger.Interface) *QueryTransactionStatusUseCase {
	return &QueryTransactionStatusUseCase{gateway: gateway, logger: logger}
}

func (uc *QueryTransactionStatusUseCase) Execute(ctx context.Context, paymentCode string) (*processorgateway.RemoteStatus, error) {
	status, err := uc.gateway.TransactionStatus(ctx, paymentCode)
	if err != nil {
		uc.logger.Warnw("transaction status query failed", "payment_code", paymentCode, "error", err)
		return nil, err
	}
	return status, nil
}
