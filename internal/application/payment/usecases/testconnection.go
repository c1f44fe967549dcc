package usecases

import (
	"context"

	"payrelay/internal/application/payment/processorgateway"
	sharedconfig "payrelay/internal/shared/config"
	"payrelay/internal/shared/logger"
)

type ConnectionTestResult struct {
	Reachable    bool   `json:"reachable"`
	ChannelCount int    `json:"channel_count"`
	Environment  string `json:"environment"`
	Error        string `json:"error,omitempty"`
}

// TestConnectionUseCase exercises the channels endpoint against the
// configured credentials so operators can validate a setup without
// initiating a payment.
type TestConnectionUseCase struct {
	gateway     processorgateway.ProcessorGateway
	credentials sharedconfig.HerepayConfig
	logger      logger.Interface
}

func NewTestConnectionUseCase(gateway processorgateway.ProcessorGateway, credentials sharedconfig.HerepayConfig, logger logger.Interface) *TestConnectionUseCase {
	return &TestConnectionUseCase{gateway: gateway, credentials: credentials, logger: logger}
}

func (uc *TestConnectionUseCase) Execute(ctx context.Context) *ConnectionTestResult {
	result := &ConnectionTestResult{Environment: uc.credentials.Environment}

	channels, err := uc.gateway.FetchChannels(ctx)
	if err != nil {
		uc.logger.Warnw("connection test failed", "error", err)
		result.Error = err.Error()
		return result
	}

	result.Reachable = true
	result.ChannelCount = len(channels)
	return result
}
