package usecases

import (
	"context"
	"fmt"

	"payrelay/internal/application/payment/processorgateway"
	"payrelay/internal/domain/order"
	"payrelay/internal/domain/payment"
	vo "payrelay/internal/domain/payment/valueobjects"
	"payrelay/internal/shared/biztime"
	sharedconfig "payrelay/internal/shared/config"
	apperrors "payrelay/internal/shared/errors"
	"payrelay/internal/shared/logger"
)

const defaultPhonePlaceholder = "0123456789"

type InitiatePaymentCommand struct {
	OrderID       uint
	BankPrefix    string
	PaymentMethod string
}

type InitiatePaymentResult struct {
	PaymentCode string
	// RedirectHTML is the processor's sanitized self-redirecting payload,
	// forwarded verbatim to the shopper's browser.
	RedirectHTML string
}

// InitiatePaymentUseCase assembles, signs, and submits the
// payment-creation request, persisting the intent before the processor
// call so a transport failure leaves the order unpaid with no partial
// state.
type InitiatePaymentUseCase struct {
	intents     payment.PaymentIntentRepository
	orders      order.Store
	gateway     processorgateway.ProcessorGateway
	credentials sharedconfig.HerepayConfig
	redirectURL string
	logger      logger.Interface
}

func NewInitiatePaymentUseCase(
	intents payment.PaymentIntentRepository,
	orders order.Store,
	gateway processorgateway.ProcessorGateway,
	credentials sharedconfig.HerepayConfig,
	redirectURL string,
	logger logger.Interface,
) *InitiatePaymentUseCase {
	return &InitiatePaymentUseCase{
		intents:     intents,
		orders:      orders,
		gateway:     gateway,
		credentials: credentials,
		redirectURL: redirectURL,
		logger:      logger,
	}
}

func (uc *InitiatePaymentUseCase) Execute(ctx context.Context, cmd InitiatePaymentCommand) (*InitiatePaymentResult, error) {
	if !uc.credentials.Complete() {
		// Fail fast: initiating without a full credential set would send
		// an unsigned or unauthenticated request.
		return nil, apperrors.NewConfigurationError("herepay credentials not configured",
			"api_key, secret_key and private_key are all required for initiation")
	}

	ord, err := uc.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		uc.logger.Warnw("initiation for unknown order", "order_id", cmd.OrderID, "error", err)
		return nil, apperrors.NewNotFoundError("order not found")
	}

	if ord.IsPaid() {
		return nil, apperrors.NewConflictError("order is already paid")
	}

	amount := vo.NewAmount(ord.TotalCents, ord.Currency)
	intent, err := payment.NewPaymentIntent(ord.ID, amount, cmd.BankPrefix, cmd.PaymentMethod)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid payment request", err.Error())
	}

	if err := uc.intents.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("failed to persist payment intent: %w", err)
	}

	phone := ord.BillingPhone
	if phone == "" {
		phone = defaultPhonePlaceholder
	}

	req := processorgateway.InitiateRequest{
		PaymentCode:   intent.PaymentCode(),
		CreatedAt:     biztime.FormatProcessor(biztime.NowUTC()),
		Amount:        amount.Format(),
		Name:          ord.BillingName,
		Email:         ord.BillingEmail,
		Phone:         phone,
		Description:   fmt.Sprintf("Order #%s", ord.Number),
		BankPrefix:    cmd.BankPrefix,
		PaymentMethod: cmd.PaymentMethod,
		RedirectURL:   uc.redirectURL,
	}

	resp, err := uc.gateway.Initiate(ctx, req)
	if err != nil {
		// Intent stays in created; the order remains unpaid and the
		// shopper can retry.
		uc.logger.Errorw("payment initiation failed",
			"payment_code", intent.PaymentCode(), "order_id", ord.ID, "error", err)
		return nil, err
	}

	note := fmt.Sprintf("herepay payment initiated: payment_code=%s amount=%s channel=%s/%s",
		intent.PaymentCode(), amount.Format(), cmd.BankPrefix, cmd.PaymentMethod)
	if err := uc.orders.AppendAuditNote(ctx, ord.ID, note); err != nil {
		uc.logger.Errorw("failed to record initiation", "order_id", ord.ID, "error", err)
	}

	uc.logger.Infow("payment initiated",
		"payment_code", intent.PaymentCode(), "order_id", ord.ID, "amount", amount.Format())

	return &InitiatePaymentResult{
		PaymentCode:  intent.PaymentCode(),
		RedirectHTML: resp.RedirectHTML,
	}, nil
}
