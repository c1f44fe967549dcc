package usecases

import (
	"context"
	"fmt"

	"payrelay/internal/application/payment/processorgateway"
	"payrelay/internal/domain/order"
	"payrelay/internal/domain/payment"
	vo "payrelay/internal/domain/payment/valueobjects"
	"payrelay/internal/shared/biztime"
	apperrors "payrelay/internal/shared/errors"
	"payrelay/internal/shared/logger"
)

// ReceiptNotifier sends shopper-facing mail after a terminal transition.
type ReceiptNotifier interface {
	NotifyPaymentCompleted(ctx context.Context, o *order.Order, paymentCode, transactionID string) error
	NotifyPaymentFailed(ctx context.Context, o *order.Order, paymentCode, reason string) error
}

// ReconcileResult tells the ingress adapter what happened so it can pick
// the HTTP status (webhook) or shopper destination (redirect).
type ReconcileResult struct {
	Outcome Outcome
	OrderID uint
	// Applied is true when this event was the one that performed the
	// transition; false means it was a duplicate, out-of-order, or
	// unknown event that only left an audit note.
	Applied bool
}

// ReconcilePaymentEventUseCase applies a processor-reported status to the
// payment intent and the order exactly once. Both ingress paths (webhook
// and redirect) call it with the same normalized event; all idempotency
// and authenticity logic lives here, not in the adapters.
type ReconcilePaymentEventUseCase struct {
	intents  payment.PaymentIntentRepository
	orders   order.Store
	verifier processorgateway.EventVerifier
	notifier ReceiptNotifier // optional
	logger   logger.Interface
}

func NewReconcilePaymentEventUseCase(
	intents payment.PaymentIntentRepository,
	orders order.Store,
	verifier processorgateway.EventVerifier,
	logger logger.Interface,
) *ReconcilePaymentEventUseCase {
	return &ReconcilePaymentEventUseCase{
		intents:  intents,
		orders:   orders,
		verifier: verifier,
		logger:   logger,
	}
}

// SetReceiptNotifier wires the optional receipt mailer.
func (uc *ReconcilePaymentEventUseCase) SetReceiptNotifier(notifier ReceiptNotifier) {
	uc.notifier = notifier
}

func (uc *ReconcilePaymentEventUseCase) Execute(ctx context.Context, ev *PaymentEvent) (*ReconcileResult, error) {
	intent, err := uc.intents.GetByPaymentCode(ctx, ev.PaymentCode)
	if err != nil {
		uc.logger.Warnw("reconciliation event for unknown payment code",
			"payment_code", ev.PaymentCode, "raw_event", ev.Raw, "error", err)
		return nil, apperrors.NewNotFoundError("payment not found", ev.PaymentCode)
	}

	ord, err := uc.orders.FindByID(ctx, intent.OrderID())
	if err != nil {
		uc.logger.Errorw("order missing for payment intent",
			"payment_code", ev.PaymentCode, "order_id", intent.OrderID(), "error", err)
		return nil, apperrors.NewNotFoundError("order not found", ev.PaymentCode)
	}

	if err := uc.verifyAuthenticity(ctx, ord, ev); err != nil {
		return nil, err
	}

	// Durable audit record for dispute resolution; written on every
	// branch, including no-ops.
	audit := fmt.Sprintf("%s at %s", ev.AuditSummary(), biztime.NowUTC().Format("2006-01-02 15:04:05 UTC"))
	if err := uc.orders.AppendAuditNote(ctx, ord.ID, audit); err != nil {
		uc.logger.Errorw("failed to append audit note", "order_id", ord.ID, "error", err)
	}

	switch ev.Outcome() {
	case OutcomeSuccess:
		return uc.applySuccess(ctx, intent, ord, ev)
	case OutcomeFailure:
		return uc.applyFailure(ctx, intent, ord, ev)
	case OutcomePending:
		return uc.applyPending(ctx, intent, ord, ev)
	default:
		return uc.applyUnknown(ctx, intent, ord, ev)
	}
}

func (uc *ReconcilePaymentEventUseCase) verifyAuthenticity(ctx context.Context, ord *order.Order, ev *PaymentEvent) error {
	if !uc.verifier.Enabled() {
		// Known weak point: without a configured private key events cannot
		// be authenticated. Tolerated for sandbox/test setups only.
		uc.logger.Warnw("accepting unauthenticated payment event, no private key configured",
			"payment_code", ev.PaymentCode)
		return nil
	}

	if ev.Checksum == "" {
		uc.recordRejection(ctx, ord, ev, "missing checksum")
		return apperrors.NewAuthenticityError("payment event missing checksum")
	}
	if !uc.verifier.Verify(ev.Raw, ev.Checksum) {
		uc.recordRejection(ctx, ord, ev, "checksum mismatch")
		return apperrors.NewAuthenticityError("payment event checksum mismatch")
	}
	return nil
}

func (uc *ReconcilePaymentEventUseCase) recordRejection(ctx context.Context, ord *order.Order, ev *PaymentEvent, reason string) {
	uc.logger.Warnw("rejected payment event",
		"payment_code", ev.PaymentCode, "reason", reason, "raw_event", ev.Raw)
	note := fmt.Sprintf("rejected herepay event (%s): %s", reason, ev.AuditSummary())
	if err := uc.orders.AppendAuditNote(ctx, ord.ID, note); err != nil {
		uc.logger.Errorw("failed to record rejected event", "order_id", ord.ID, "error", err)
	}
}

func (uc *ReconcilePaymentEventUseCase) applySuccess(ctx context.Context, intent *payment.PaymentIntent, ord *order.Order, ev *PaymentEvent) (*ReconcileResult, error) {
	uc.checkAmount(ctx, intent, ord, ev)

	applied, err := uc.intents.CompleteIfNotTerminal(ctx, ev.PaymentCode, ev.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete payment intent: %w", err)
	}

	if !applied {
		// Already terminal: a retried webhook or the second of the two
		// ingress paths. Annotation only, side effects must not repeat.
		uc.logger.Infow("duplicate success event ignored",
			"payment_code", ev.PaymentCode, "order_id", ord.ID)
		return &ReconcileResult{Outcome: OutcomeSuccess, OrderID: ord.ID, Applied: false}, nil
	}

	if !ord.InventoryReduced {
		if err := uc.orders.DecrementInventory(ctx, ord.ID); err != nil {
			return nil, fmt.Errorf("failed to decrement inventory: %w", err)
		}
	}

	if err := uc.orders.MarkPaymentComplete(ctx, ord.ID, ev.TransactionID); err != nil {
		return nil, fmt.Errorf("failed to mark order payment complete: %w", err)
	}

	uc.logger.Infow("payment completed",
		"payment_code", ev.PaymentCode, "order_id", ord.ID, "transaction_id", ev.TransactionID)

	if uc.notifier != nil {
		if err := uc.notifier.NotifyPaymentCompleted(ctx, ord, ev.PaymentCode, ev.TransactionID); err != nil {
			uc.logger.Warnw("failed to send payment receipt", "order_id", ord.ID, "error", err)
		}
	}

	return &ReconcileResult{Outcome: OutcomeSuccess, OrderID: ord.ID, Applied: true}, nil
}

// checkAmount compares the reported amount against the order total.
// Mismatches beyond 0.01 are annotated but do not block completion:
// stranding a settled payment on float rounding is worse than logging a
// discrepancy for manual review.
func (uc *ReconcilePaymentEventUseCase) checkAmount(ctx context.Context, intent *payment.PaymentIntent, ord *order.Order, ev *PaymentEvent) {
	if ev.Amount == "" {
		return
	}

	reported, err := vo.ParseAmount(ev.Amount, ord.Currency)
	if err != nil {
		uc.logger.Warnw("unparseable amount in payment event",
			"payment_code", ev.PaymentCode, "amount", ev.Amount, "error", err)
		return
	}

	total := vo.NewAmount(ord.TotalCents, ord.Currency)
	if reported.DiffersBeyondTolerance(total) {
		uc.logger.Warnw("amount discrepancy on settled payment",
			"payment_code", ev.PaymentCode, "reported", reported.Format(), "order_total", total.Format())
		note := fmt.Sprintf("amount discrepancy: processor reported %s, order total %s", reported.Format(), total.Format())
		if err := uc.orders.AppendAuditNote(ctx, ord.ID, note); err != nil {
			uc.logger.Errorw("failed to record amount discrepancy", "order_id", ord.ID, "error", err)
		}
	}
}

func (uc *ReconcilePaymentEventUseCase) applyFailure(ctx context.Context, intent *payment.PaymentIntent, ord *order.Order, ev *PaymentEvent) (*ReconcileResult, error) {
	target := vo.IntentStatusFailed
	reason := "payment failed"
	if ev.IsUnauthorized() {
		target = vo.IntentStatusUnauthorized
		reason = "payment unauthorized"
	}
	if ev.Message != "" {
		reason = fmt.Sprintf("%s: %s", reason, ev.Message)
	}

	applied, err := uc.intents.FailIfNotTerminal(ctx, ev.PaymentCode, target, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to fail payment intent: %w", err)
	}

	if !applied {
		uc.logger.Infow("failure event after terminal state ignored",
			"payment_code", ev.PaymentCode, "order_id", ord.ID)
		return &ReconcileResult{Outcome: OutcomeFailure, OrderID: ord.ID, Applied: false}, nil
	}

	if err := uc.orders.TransitionStatus(ctx, ord.ID, order.StatusFailed, reason); err != nil {
		return nil, fmt.Errorf("failed to transition order: %w", err)
	}

	if ord.InventoryReduced {
		if err := uc.orders.RestoreInventory(ctx, ord.ID); err != nil {
			return nil, fmt.Errorf("failed to restore inventory: %w", err)
		}
	}

	uc.logger.Infow("payment failed",
		"payment_code", ev.PaymentCode, "order_id", ord.ID, "status", target)

	if uc.notifier != nil {
		if err := uc.notifier.NotifyPaymentFailed(ctx, ord, ev.PaymentCode, reason); err != nil {
			uc.logger.Warnw("failed to send failure notice", "order_id", ord.ID, "error", err)
		}
	}

	return &ReconcileResult{Outcome: OutcomeFailure, OrderID: ord.ID, Applied: true}, nil
}

func (uc *ReconcilePaymentEventUseCase) applyPending(ctx context.Context, intent *payment.PaymentIntent, ord *order.Order, ev *PaymentEvent) (*ReconcileResult, error) {
	applied, err := uc.intents.MarkPendingFromCreated(ctx, ev.PaymentCode)
	if err != nil {
		return nil, fmt.Errorf("failed to mark payment pending: %w", err)
	}

	if !applied {
		// Monotonic guard: a pending event after completion must never
		// regress the order.
		uc.logger.Infow("pending event did not change state",
			"payment_code", ev.PaymentCode, "order_id", ord.ID, "intent_status", intent.Status())
		return &ReconcileResult{Outcome: OutcomePending, OrderID: ord.ID, Applied: false}, nil
	}

	if err := uc.orders.TransitionStatus(ctx, ord.ID, order.StatusOnHold, "awaiting payment confirmation"); err != nil {
		return nil, fmt.Errorf("failed to transition order: %w", err)
	}

	return &ReconcileResult{Outcome: OutcomePending, OrderID: ord.ID, Applied: true}, nil
}

func (uc *ReconcilePaymentEventUseCase) applyUnknown(ctx context.Context, intent *payment.PaymentIntent, ord *order.Order, ev *PaymentEvent) (*ReconcileResult, error) {
	// Unknown vocabulary is annotated, never treated as failure and never
	// silently dropped; the audit note above is the record.
	uc.logger.Warnw("unrecognized payment event status",
		"payment_code", ev.PaymentCode, "status", ev.Status, "status_code", ev.StatusCode,
		"message", ev.Message)
	return &ReconcileResult{Outcome: OutcomeUnknown, OrderID: ord.ID, Applied: false}, nil
}
