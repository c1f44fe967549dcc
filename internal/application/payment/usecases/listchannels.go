package usecases

import (
	"context"
	"sort"

	"payrelay/internal/application/payment/processorgateway"
	"payrelay/internal/shared/logger"
)

// ChannelGroup is the checkout-facing view: active channels grouped by
// payment method.
type ChannelGroup struct {
	PaymentMethod string                     `json:"payment_method"`
	Channels      []processorgateway.Channel `json:"channels"`
}

type ListChannelsUseCase struct {
	gateway processorgateway.ProcessorGateway
	logger  logger.Interface
}

func NewListChannelsUseCase(gateway processorgateway.ProcessorGateway, logger logger.Interface) *ListChannelsUseCase {
	return &ListChannelsUseCase{gateway: gateway, logger: logger}
}

// Execute fetches the processor's active channels grouped by method.
// A transport error propagates untouched so the handler can distinguish
// "API unreachable" from "no channels configured".
func (uc *ListChannelsUseCase) Execute(ctx context.Context) ([]ChannelGroup, error) {
	channels, err := uc.gateway.FetchChannels(ctx)
	if err != nil {
		uc.logger.Warnw("failed to fetch payment channels", "error", err)
		return nil, err
	}

	byMethod := make(map[string][]processorgateway.Channel)
	for _, ch := range channels {
		byMethod[ch.PaymentMethod] = append(byMethod[ch.PaymentMethod], ch)
	}

	methods := make([]string, 0, len(byMethod))
	for method := range byMethod {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	groups := make([]ChannelGroup, 0, len(methods))
	for _, method := range methods {
		groups = append(groups, ChannelGroup{
			PaymentMethod: method,
			Channels:      byMethod[method],
		})
	}
	return groups, nil
}
