package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payrelay/internal/application/payment/processorgateway"
	"payrelay/internal/domain/order"
	vo "payrelay/internal/domain/payment/valueobjects"
	sharedconfig "payrelay/internal/shared/config"
	apperrors "payrelay/internal/shared/errors"
	"payrelay/internal/shared/logger"
)

type fakeGateway struct {
	channels    []processorgateway.Channel
	channelsErr error

	initiateErr error
	lastRequest *processorgateway.InitiateRequest

	status    *processorgateway.RemoteStatus
	statusErr error
}

func (g *fakeGateway) FetchChannels(ctx context.Context) ([]processorgateway.Channel, error) {
	return g.channels, g.channelsErr
}

func (g *fakeGateway) Initiate(ctx context.Context, req processorgateway.InitiateRequest) (*processorgateway.InitiateResponse, error) {
	g.lastRequest = &req
	if g.initiateErr != nil {
		return nil, g.initiateErr
	}
	return &processorgateway.InitiateResponse{RedirectHTML: "<form></form>"}, nil
}

func (g *fakeGateway) TransactionStatus(ctx context.Context, paymentCode string) (*processorgateway.RemoteStatus, error) {
	return g.status, g.statusErr
}

func completeCredentials() sharedconfig.HerepayConfig {
	return sharedconfig.HerepayConfig{
		Environment: "sandbox",
		APIKey:      "k",
		SecretKey:   "s",
		PrivateKey:  "p",
	}
}

func setupInitiate(t *testing.T, credentials sharedconfig.HerepayConfig, gw *fakeGateway) (*InitiatePaymentUseCase, *fakeIntentRepo, *fakeOrderStore) {
	t.Helper()

	intents := newFakeIntentRepo()
	orders := newFakeOrderStore()
	orders.orders[101] = &order.Order{
		ID:           101,
		Number:       "1001",
		BillingName:  "Test Shopper",
		BillingEmail: "shopper@example.com",
		TotalCents:   2550,
		Currency:     "MYR",
		Status:       order.StatusPending,
	}

	uc := NewInitiatePaymentUseCase(intents, orders, gw, credentials,
		"http://localhost:8080/api/v1/payments/redirect", logger.NewLogger())
	return uc, intents, orders
}

func TestInitiatePayment(t *testing.T) {
	gw := &fakeGateway{}
	uc, intents, orders := setupInitiate(t, completeCredentials(), gw)

	result, err := uc.Execute(context.Background(), InitiatePaymentCommand{
		OrderID:       101,
		BankPrefix:    "MB2U",
		PaymentMethod: "FPX",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.PaymentCode)
	assert.True(t, len(result.PaymentCode) > len("HP-PAY-"))
	assert.Equal(t, "<form></form>", result.RedirectHTML)

	intent := intents.intents[result.PaymentCode]
	require.NotNil(t, intent, "intent must be persisted")
	assert.Equal(t, vo.IntentStatusCreated, intent.Status())

	require.NotNil(t, gw.lastRequest)
	assert.Equal(t, "25.50", gw.lastRequest.Amount, "fixed two-decimal amount")
	assert.Equal(t, result.PaymentCode, gw.lastRequest.PaymentCode)
	assert.Equal(t, "Order #1001", gw.lastRequest.Description)
	assert.Equal(t, "http://localhost:8080/api/v1/payments/redirect", gw.lastRequest.RedirectURL)

	assert.True(t, orders.hasNoteContaining("herepay payment initiated"))
}

func TestInitiatePayment_MissingPhoneGetsPlaceholder(t *testing.T) {
	gw := &fakeGateway{}
	uc, _, orders := setupInitiate(t, completeCredentials(), gw)
	orders.orders[101].BillingPhone = ""

	_, err := uc.Execute(context.Background(), InitiatePaymentCommand{
		OrderID: 101, BankPrefix: "MB2U", PaymentMethod: "FPX",
	})
	require.NoError(t, err)
	assert.Equal(t, defaultPhonePlaceholder, gw.lastRequest.Phone)
}

func TestInitiatePayment_IncompleteCredentialsFailFast(t *testing.T) {
	gw := &fakeGateway{}
	uc, intents, _ := setupInitiate(t, sharedconfig.HerepayConfig{APIKey: "k", SecretKey: "s"}, gw)

	_, err := uc.Execute(context.Background(), InitiatePaymentCommand{
		OrderID: 101, BankPrefix: "MB2U", PaymentMethod: "FPX",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigurationError(err))
	assert.Nil(t, gw.lastRequest, "no request may leave the service without a full credential set")
	assert.Empty(t, intents.intents)
}

func TestInitiatePayment_AlreadyPaidOrder(t *testing.T) {
	gw := &fakeGateway{}
	uc, _, orders := setupInitiate(t, completeCredentials(), gw)
	orders.orders[101].Status = order.StatusProcessing

	_, err := uc.Execute(context.Background(), InitiatePaymentCommand{
		OrderID: 101, BankPrefix: "MB2U", PaymentMethod: "FPX",
	})
	require.Error(t, err)
	assert.Nil(t, gw.lastRequest)
}

func TestInitiatePayment_UnknownOrder(t *testing.T) {
	gw := &fakeGateway{}
	uc, _, _ := setupInitiate(t, completeCredentials(), gw)

	_, err := uc.Execute(context.Background(), InitiatePaymentCommand{
		OrderID: 999, BankPrefix: "MB2U", PaymentMethod: "FPX",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestInitiatePayment_TransportFailureLeavesIntentCreated(t *testing.T) {
	gw := &fakeGateway{initiateErr: apperrors.NewTransportError("herepay initiate call failed")}
	uc, intents, orders := setupInitiate(t, completeCredentials(), gw)

	_, err := uc.Execute(context.Background(), InitiatePaymentCommand{
		OrderID: 101, BankPrefix: "MB2U", PaymentMethod: "FPX",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsTransportError(err))

	// The intent persists in created; the order is untouched and the
	// shopper can retry.
	require.Len(t, intents.intents, 1)
	for _, intent := range intents.intents {
		assert.Equal(t, vo.IntentStatusCreated, intent.Status())
	}
	assert.Equal(t, order.StatusPending, orders.orders[101].Status)
	assert.Equal(t, 0, orders.decrements)
}

func TestListChannels_Grouping(t *testing.T) {
	gw := &fakeGateway{channels: []processorgateway.Channel{
		{BankPrefix: "MB2U", BankName: "Maybank", PaymentMethod: "FPX", Active: true},
		{BankPrefix: "DNQR", BankName: "DuitNow QR", PaymentMethod: "DuitNow", Active: true},
		{BankPrefix: "CIMB", BankName: "CIMB Clicks", PaymentMethod: "FPX", Active: true},
	}}

	uc := NewListChannelsUseCase(gw, logger.NewLogger())
	groups, err := uc.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "DuitNow", groups[0].PaymentMethod)
	assert.Equal(t, "FPX", groups[1].PaymentMethod)
	assert.Len(t, groups[1].Channels, 2)
}

func TestListChannels_TransportErrorPropagates(t *testing.T) {
	gw := &fakeGateway{channelsErr: apperrors.NewTransportError("herepay api unreachable")}

	uc := NewListChannelsUseCase(gw, logger.NewLogger())
	_, err := uc.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransportError(err), "unreachable must not read as an empty channel list")
}

func TestTestConnection(t *testing.T) {
	gw := &fakeGateway{channels: []processorgateway.Channel{{BankPrefix: "MB2U"}}}
	uc := NewTestConnectionUseCase(gw, completeCredentials(), logger.NewLogger())

	result := uc.Execute(context.Background())
	assert.True(t, result.Reachable)
	assert.Equal(t, 1, result.ChannelCount)
	assert.Equal(t, "sandbox", result.Environment)

	gw.channelsErr = apperrors.NewTransportError("down")
	result = uc.Execute(context.Background())
	assert.False(t, result.Reachable)
	assert.NotEmpty(t, result.Error)
}
