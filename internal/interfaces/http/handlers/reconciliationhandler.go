package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "payrelay/internal/application/payment/usecases"
	"payrelay/internal/shared/config"
	apperrors "payrelay/internal/shared/errors"
	"payrelay/internal/shared/logger"
	"payrelay/internal/shared/utils"
)

// ReconciliationHandler is the ingress for both processor-reported status
// paths. The webhook answers machine-readable statuses; the redirect
// answers 302s to storefront destinations. Both feed the same use case,
// which owns all idempotency and authenticity decisions.
type ReconciliationHandler struct {
	reconcileUC *paymentUsecases.ReconcilePaymentEventUseCase
	checkout    config.CheckoutConfig
	logger      logger.Interface
}

func NewReconciliationHandler(
	reconcileUC *paymentUsecases.ReconcilePaymentEventUseCase,
	checkout config.CheckoutConfig,
	logger logger.Interface,
) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconcileUC: reconcileUC,
		checkout:    checkout,
		logger:      logger,
	}
}

// Webhook handles the server-to-server callback. The processor retries
// on non-2xx, so only statuses that a retry could fix return errors:
// unknown payment codes and malformed bodies are 4xx (retrying the same
// payload cannot succeed either, but the 4xx tells the processor's
// operators something is wrong on their side), while duplicate and
// unknown-status events still answer 200.
func (h *ReconciliationHandler) Webhook(c *gin.Context) {
	ev, err := paymentUsecases.ParsePaymentEvent(c.Request)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.reconcileUC.Execute(c.Request.Context(), ev)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "event processed", gin.H{
		"outcome":  string(result.Outcome),
		"order_id": result.OrderID,
		"applied":  result.Applied,
	})
}

// Redirect handles the shopper's browser arriving back from the
// processor. Whatever happened, the shopper ends on a storefront page;
// errors never render as JSON in their browser.
func (h *ReconciliationHandler) Redirect(c *gin.Context) {
	ev, err := paymentUsecases.ParsePaymentEvent(c.Request)
	if err != nil {
		h.logger.Warnw("unparseable redirect event", "error", err)
		c.Redirect(http.StatusFound, h.checkout.CartURL)
		return
	}

	result, err := h.reconcileUC.Execute(c.Request.Context(), ev)
	if err != nil {
		if apperrors.IsAuthenticityError(err) {
			// A tampered redirect still gets a storefront page: back to
			// retry, where a legitimate shopper can attempt payment again.
			c.Redirect(http.StatusFound, h.checkout.RetryPaymentURL)
			return
		}
		h.logger.Errorw("redirect reconciliation failed",
			"payment_code", ev.PaymentCode, "error", err)
		c.Redirect(http.StatusFound, h.checkout.CartURL)
		return
	}

	c.Redirect(http.StatusFound, h.destinationFor(result.Outcome))
}

func (h *ReconciliationHandler) destinationFor(outcome paymentUsecases.Outcome) string {
	switch outcome {
	case paymentUsecases.OutcomeSuccess:
		return h.checkout.ThankYouURL
	case paymentUsecases.OutcomePending:
		// The storefront thank-you page shows the order as processing
		// until the webhook settles it.
		return h.checkout.ThankYouURL
	case paymentUsecases.OutcomeFailure:
		return h.checkout.RetryPaymentURL
	default:
		return h.checkout.OrderViewURL
	}
}
