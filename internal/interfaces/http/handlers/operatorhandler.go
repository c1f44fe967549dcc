package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	paymentUsecases "payrelay/internal/application/payment/usecases"
	"payrelay/internal/shared/logger"
	"payrelay/internal/shared/utils"
)

// OperatorHandler serves back-office endpoints: recent payment attempts,
// on-demand status polls, and the credential self-test.
type OperatorHandler struct {
	listRecentUC     *paymentUsecases.ListRecentIntentsUseCase
	queryStatusUC    *paymentUsecases.QueryTransactionStatusUseCase
	testConnectionUC *paymentUsecases.TestConnectionUseCase
	logger           logger.Interface
}

func NewOperatorHandler(
	listRecentUC *paymentUsecases.ListRecentIntentsUseCase,
	queryStatusUC *paymentUsecases.QueryTransactionStatusUseCase,
	testConnectionUC *paymentUsecases.TestConnectionUseCase,
	logger logger.Interface,
) *OperatorHandler {
	return &OperatorHandler{
		listRecentUC:     listRecentUC,
		queryStatusUC:    queryStatusUC,
		testConnectionUC: testConnectionUC,
		logger:           logger,
	}
}

type IntentView struct {
	PaymentCode   string `json:"payment_code"`
	OrderID       uint   `json:"order_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	BankPrefix    string `json:"bank_prefix"`
	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
	Note          string `json:"note,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func (h *OperatorHandler) ListRecentIntents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	intents, err := h.listRecentUC.Execute(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorw("failed to list payment intents", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	views := make([]IntentView, 0, len(intents))
	for _, intent := range intents {
		view := IntentView{
			PaymentCode:   intent.PaymentCode(),
			OrderID:       intent.OrderID(),
			Amount:        intent.Amount().Format(),
			Currency:      intent.Amount().Currency(),
			BankPrefix:    intent.BankPrefix(),
			PaymentMethod: intent.PaymentMethod(),
			Status:        intent.Status().String(),
			CreatedAt:     intent.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt:     intent.UpdatedAt().Format("2006-01-02T15:04:05Z07:00"),
		}
		if txn := intent.TransactionID(); txn != nil {
			view.TransactionID = *txn
		}
		if note := intent.Note(); note != nil {
			view.Note = *note
		}
		views = append(views, view)
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"intents": views})
}

func (h *OperatorHandler) TransactionStatus(c *gin.Context) {
	paymentCode := c.Param("payment_code")
	if paymentCode == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "payment_code is required")
		return
	}

	status, err := h.queryStatusUC.Execute(c.Request.Context(), paymentCode)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", status)
}

func (h *OperatorHandler) TestConnection(c *gin.Context) {
	result := h.testConnectionUC.Execute(c.Request.Context())
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
