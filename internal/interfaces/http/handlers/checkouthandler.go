package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "payrelay/internal/application/payment/usecases"
	"payrelay/internal/shared/logger"
	"payrelay/internal/shared/utils"
)

// CheckoutHandler serves the shopper-facing checkout surface: channel
// listing and payment initiation.
type CheckoutHandler struct {
	initiatePaymentUC *paymentUsecases.InitiatePaymentUseCase
	listChannelsUC    *paymentUsecases.ListChannelsUseCase
	logger            logger.Interface
}

func NewCheckoutHandler(
	initiatePaymentUC *paymentUsecases.InitiatePaymentUseCase,
	listChannelsUC *paymentUsecases.ListChannelsUseCase,
	logger logger.Interface,
) *CheckoutHandler {
	return &CheckoutHandler{
		initiatePaymentUC: initiatePaymentUC,
		listChannelsUC:    listChannelsUC,
		logger:            logger,
	}
}

type InitiatePaymentRequest struct {
	OrderID       uint   `json:"order_id" form:"order_id" binding:"required"`
	BankPrefix    string `json:"bank_prefix" form:"bank_prefix" binding:"required"`
	PaymentMethod string `json:"payment_method" form:"payment_method" binding:"required"`
}

type InitiatePaymentResponse struct {
	PaymentCode  string `json:"payment_code"`
	RedirectHTML string `json:"redirect_html"`
}

func (h *CheckoutHandler) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	cmd := paymentUsecases.InitiatePaymentCommand{
		OrderID:       req.OrderID,
		BankPrefix:    req.BankPrefix,
		PaymentMethod: req.PaymentMethod,
	}

	result, err := h.initiatePaymentUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to initiate payment", "error", err, "order_id", req.OrderID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "payment initiated", InitiatePaymentResponse{
		PaymentCode:  result.PaymentCode,
		RedirectHTML: result.RedirectHTML,
	})
}

// RedirectToProcessor initiates and answers with the processor's
// self-redirecting HTML page directly, for storefronts that POST a plain
// form instead of calling the JSON API.
func (h *CheckoutHandler) RedirectToProcessor(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.initiatePaymentUC.Execute(c.Request.Context(), paymentUsecases.InitiatePaymentCommand{
		OrderID:       req.OrderID,
		BankPrefix:    req.BankPrefix,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.logger.Errorw("failed to initiate payment", "error", err, "order_id", req.OrderID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(result.RedirectHTML))
}

func (h *CheckoutHandler) ListChannels(c *gin.Context) {
	groups, err := h.listChannelsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"channels": groups})
}
