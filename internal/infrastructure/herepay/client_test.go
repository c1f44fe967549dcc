package herepay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payrelay/internal/application/payment/processorgateway"
	sharedconfig "payrelay/internal/shared/config"
	apperrors "payrelay/internal/shared/errors"
	"payrelay/internal/shared/logger"
)

func testCredentials() sharedconfig.HerepayConfig {
	return sharedconfig.HerepayConfig{
		Environment: "sandbox",
		APIKey:      "api-key",
		SecretKey:   "secret-key",
		PrivateKey:  "private-key",
	}
}

func initiateFixture() processorgateway.InitiateRequest {
	return processorgateway.InitiateRequest{
		PaymentCode:   "HP-PAY-ABC123",
		CreatedAt:     "2026-08-30 14:05:00",
		Amount:        "25.50",
		Name:          "Test Shopper",
		Email:         "shopper@example.com",
		Phone:         "0123456789",
		Description:   "Order #1001",
		BankPrefix:    "MB2U",
		PaymentMethod: "FPX",
		RedirectURL:   "http://localhost:8080/api/v1/payments/redirect",
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithBaseURL(testCredentials(), server.URL, logger.NewLogger())
}

func TestFetchChannels_BareArray(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/herepay/payment/channels", r.URL.Path)
		assert.Equal(t, "api-key", r.Header.Get("XApiKey"))
		assert.Equal(t, "secret-key", r.Header.Get("SecretKey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"bank_prefix":"MB2U","bank_name":"Maybank","payment_method":"FPX","active":true},
			{"bank_prefix":"OLD1","bank_name":"Gone Bank","payment_method":"FPX","active":false}
		]`))
	}))

	channels, err := client.FetchChannels(context.Background())
	require.NoError(t, err)
	require.Len(t, channels, 1, "inactive channels are filtered")
	assert.Equal(t, "MB2U", channels[0].BankPrefix)
	assert.Equal(t, "FPX", channels[0].PaymentMethod)
	assert.True(t, channels[0].Active)
}

func TestFetchChannels_DataEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"bank_prefix":"BCB","bank_name":"Bank C","payment_method":"DuitNow"}]}`))
	}))

	channels, err := client.FetchChannels(context.Background())
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "BCB", channels[0].BankPrefix)
	assert.True(t, channels[0].Active, "missing active flag means active")
}

func TestFetchChannels_ServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.FetchChannels(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransportError(err))
}

func TestFetchChannels_Unreachable(t *testing.T) {
	client := NewClientWithBaseURL(testCredentials(), "http://127.0.0.1:1", logger.NewLogger())

	_, err := client.FetchChannels(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransportError(err))
}

func TestInitiate_SignsAndSanitizes(t *testing.T) {
	var gotForm url.Values

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/herepay/initiate", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<form action="https://uat.herepay.org/pay"><input type="hidden" name="x" value="1"></form><script src="https://uat.herepay.org/go.js"></script><iframe src="https://evil.example"></iframe>`))
	}))

	req := initiateFixture()
	resp, err := client.Initiate(context.Background(), req)
	require.NoError(t, err)

	// Every request field travels, empty or not, plus the checksum.
	for key, want := range req.Fields() {
		assert.Equal(t, want, gotForm.Get(key), "field %s", key)
		assert.Contains(t, gotForm, key)
	}

	expected := Sign(req.Fields(), "private-key")
	assert.Equal(t, expected, gotForm.Get("checksum"))

	assert.Contains(t, resp.RedirectHTML, "<form")
	assert.Contains(t, resp.RedirectHTML, "<script")
	assert.NotContains(t, resp.RedirectHTML, "<iframe")
}

func TestInitiate_Rejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid bank prefix"}`))
	}))

	_, err := client.Initiate(context.Background(), initiateFixture())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransportError(err))
}

func TestTransactionStatus_FlatResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/herepay/transactions/HP-PAY-ABC", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"payment_code":"HP-PAY-ABC","status":"Completed","status_code":"00","amount":25.50,"transaction_id":"TX9"}`))
	}))

	status, err := client.TransactionStatus(context.Background(), "HP-PAY-ABC")
	require.NoError(t, err)
	assert.Equal(t, "HP-PAY-ABC", status.PaymentCode)
	assert.Equal(t, "Completed", status.Status)
	assert.Equal(t, "00", status.StatusCode)
	assert.Equal(t, "25.50", status.Amount, "numeric amount keeps its decimal rendering")
	assert.Equal(t, "TX9", status.TransactionID)
}

func TestTransactionStatus_DataEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"payment_code":"HP-PAY-X","status":"Pending","status_code":29}}`))
	}))

	status, err := client.TransactionStatus(context.Background(), "HP-PAY-X")
	require.NoError(t, err)
	assert.Equal(t, "HP-PAY-X", status.PaymentCode)
	assert.Equal(t, "Pending", status.Status)
	assert.Equal(t, "29", status.StatusCode, "numeric status_code is normalized to string")
}
