package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentUsecases "payrelay/internal/application/payment/usecases"
	"payrelay/internal/domain/order"
	"payrelay/internal/domain/payment"
	vo "payrelay/internal/domain/payment/valueobjects"
	"payrelay/internal/shared/config"
	apperrors "payrelay/internal/shared/errors"
	"payrelay/internal/shared/logger"
)

type stubIntentRepo struct {
	intent *payment.PaymentIntent
}

func (r *stubIntentRepo) Create(ctx context.Context, intent *payment.PaymentIntent) error {
	return nil
}

func (r *stubIntentRepo) GetByPaymentCode(ctx context.Context, paymentCode string) (*payment.PaymentIntent, error) {
	if r.intent == nil || r.intent.PaymentCode() != paymentCode {
		return nil, apperrors.NewNotFoundError("payment intent not found")
	}
	return r.intent, nil
}

func (r *stubIntentRepo) ListRecent(ctx context.Context, limit int) ([]*payment.PaymentIntent, error) {
	return nil, nil
}

func (r *stubIntentRepo) MarkPendingFromCreated(ctx context.Context, paymentCode string) (bool, error) {
	if r.intent.Status() != vo.IntentStatusCreated {
		return false, nil
	}
	return true, r.intent.MarkPending()
}

func (r *stubIntentRepo) CompleteIfNotTerminal(ctx context.Context, paymentCode, transactionID string) (bool, error) {
	if r.intent.Status().IsTerminal() {
		return false, nil
	}
	return true, r.intent.MarkCompleted(transactionID)
}

func (r *stubIntentRepo) FailIfNotTerminal(ctx context.Context, paymentCode string, status vo.IntentStatus, reason string) (bool, error) {
	if r.intent.Status().IsTerminal() {
		return false, nil
	}
	return true, r.intent.MarkFailed(reason)
}

type stubOrderStore struct {
	order *order.Order
}

func (s *stubOrderStore) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	copied := *s.order
	return &copied, nil
}

func (s *stubOrderStore) FindByPaymentCode(ctx context.Context, paymentCode string) (*order.Order, error) {
	copied := *s.order
	return &copied, nil
}

func (s *stubOrderStore) TransitionStatus(ctx context.Context, orderID uint, status order.Status, note string) error {
	s.order.Status = status
	return nil
}

func (s *stubOrderStore) MarkPaymentComplete(ctx context.Context, orderID uint, transactionID string) error {
	s.order.Status = order.StatusProcessing
	return nil
}

func (s *stubOrderStore) AppendAuditNote(ctx context.Context, orderID uint, note string) error {
	return nil
}

func (s *stubOrderStore) DecrementInventory(ctx context.Context, orderID uint) error {
	s.order.InventoryReduced = true
	return nil
}

func (s *stubOrderStore) RestoreInventory(ctx context.Context, orderID uint) error {
	s.order.InventoryReduced = false
	return nil
}

type stubVerifier struct {
	enabled bool
	valid   bool
}

func (v *stubVerifier) Enabled() bool { return v.enabled }
func (v *stubVerifier) Verify(fields map[string]string, claimed string) bool {
	return v.valid
}

var testCheckout = config.CheckoutConfig{
	ThankYouURL:     "http://shop.local/thank-you",
	RetryPaymentURL: "http://shop.local/retry",
	CartURL:         "http://shop.local/cart",
	OrderViewURL:    "http://shop.local/orders",
}

func setupReconciliation(t *testing.T, verifier *stubVerifier) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	intent, err := payment.NewPaymentIntent(101, vo.NewAmount(2550, "MYR"), "MB2U", "FPX")
	require.NoError(t, err)

	intents := &stubIntentRepo{intent: intent}
	orders := &stubOrderStore{order: &order.Order{
		ID: 101, Number: "1001", TotalCents: 2550, Currency: "MYR", Status: order.StatusPending,
	}}

	uc := paymentUsecases.NewReconcilePaymentEventUseCase(intents, orders, verifier, logger.NewLogger())
	handler := NewReconciliationHandler(uc, testCheckout, logger.NewLogger())

	engine := gin.New()
	engine.POST("/webhook", handler.Webhook)
	engine.GET("/redirect", handler.Redirect)
	engine.POST("/redirect", handler.Redirect)

	return engine, intent.PaymentCode()
}

func TestWebhook_Success(t *testing.T) {
	engine, code := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	body := `{"payment_code":"` + code + `","status":"success","status_code":"00","checksum":"ok"}`
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"success"`)
	assert.Contains(t, w.Body.String(), `"applied":true`)
}

func TestWebhook_DuplicateStillAnswers200(t *testing.T) {
	engine, code := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	body := `{"payment_code":"` + code + `","status":"success","checksum":"ok"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestWebhook_UnknownStatusAnswers200(t *testing.T) {
	engine, code := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	body := `{"payment_code":"` + code + `","status":"settling","checksum":"ok"}`
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"unknown"`)
}

func TestWebhook_UnknownPaymentCode404(t *testing.T) {
	engine, _ := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	body := `{"payment_code":"HP-PAY-NOPE","status":"success","checksum":"ok"}`
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhook_ChecksumMismatch403(t *testing.T) {
	engine, code := setupReconciliation(t, &stubVerifier{enabled: true, valid: false})

	body := `{"payment_code":"` + code + `","status":"success","checksum":"bad"}`
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhook_MissingPaymentCode400(t *testing.T) {
	engine, _ := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{"status":"success"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRedirect_SuccessGoesToThankYou(t *testing.T) {
	engine, code := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	req := httptest.NewRequest("GET", "/redirect?payment_code="+code+"&status=success&checksum=ok", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testCheckout.ThankYouURL, w.Header().Get("Location"))
}

func TestRedirect_FailureGoesToRetry(t *testing.T) {
	engine, code := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	req := httptest.NewRequest("GET", "/redirect?payment_code="+code+"&status=failed&checksum=ok", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testCheckout.RetryPaymentURL, w.Header().Get("Location"))
}

func TestRedirect_PendingGoesToThankYou(t *testing.T) {
	engine, code := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	req := httptest.NewRequest("GET", "/redirect?payment_code="+code+"&status_code=29&checksum=ok", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testCheckout.ThankYouURL, w.Header().Get("Location"))
}

func TestRedirect_UnknownStatusGoesToOrderView(t *testing.T) {
	engine, code := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	req := httptest.NewRequest("GET", "/redirect?payment_code="+code+"&status=settling&checksum=ok", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testCheckout.OrderViewURL, w.Header().Get("Location"))
}

func TestRedirect_TamperedEventGoesToRetry(t *testing.T) {
	engine, code := setupReconciliation(t, &stubVerifier{enabled: true, valid: false})

	req := httptest.NewRequest("GET", "/redirect?payment_code="+code+"&status=success&checksum=bad", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	// The shopper's browser never sees a JSON error page.
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testCheckout.RetryPaymentURL, w.Header().Get("Location"))
}

func TestRedirect_UnknownPaymentCodeGoesToCart(t *testing.T) {
	engine, _ := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	req := httptest.NewRequest("GET", "/redirect?payment_code=HP-PAY-NOPE&status=success&checksum=ok", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testCheckout.CartURL, w.Header().Get("Location"))
}

func TestRedirect_PostFormBody(t *testing.T) {
	engine, code := setupReconciliation(t, &stubVerifier{enabled: true, valid: true})

	form := "payment_code=" + code + "&status=success&checksum=ok"
	req := httptest.NewRequest("POST", "/redirect", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testCheckout.ThankYouURL, w.Header().Get("Location"))
}
