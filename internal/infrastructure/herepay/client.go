package herepay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"payrelay/internal/application/payment/processorgateway"
	sharedconfig "payrelay/internal/shared/config"
	apperrors "payrelay/internal/shared/errors"
	"payrelay/internal/shared/logger"
)

const (
	channelsPath    = "/api/v1/herepay/payment/channels"
	initiatePath    = "/api/v1/herepay/initiate"
	transactionPath = "/api/v1/herepay/transactions/"

	// All processor calls share one bounded timeout; there is no retry.
	requestTimeout = 30 * time.Second

	// Maximum response body size (1MB); the redirect payload is a small
	// HTML page and the JSON endpoints are smaller still.
	maxResponseSize = 1 << 20
)

// Client talks to the HerePay HTTP API. It implements the processor
// gateway port: credential headers on every call, checksum signing on
// initiation, TLS verification always on.
type Client struct {
	credentials sharedconfig.HerepayConfig
	baseURL     string
	httpClient  *http.Client
	signer      *Signer
	policy      *bluemonday.Policy
	logger      logger.Interface
}

var _ processorgateway.ProcessorGateway = (*Client)(nil)

func NewClient(credentials sharedconfig.HerepayConfig, logger logger.Interface) *Client {
	return NewClientWithBaseURL(credentials, credentials.BaseURL(), logger)
}

// NewClientWithBaseURL overrides the environment-derived host; used by
// tests to point at a local server.
func NewClientWithBaseURL(credentials sharedconfig.HerepayConfig, baseURL string, logger logger.Interface) *Client {
	return &Client{
		credentials: credentials,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: requestTimeout},
		signer:      NewSigner(credentials.PrivateKey),
		policy:      newRedirectPolicy(),
		logger:      logger,
	}
}

// Signer exposes the client's verifier for wiring into the
// reconciliation use case.
func (c *Client) Signer() *Signer {
	return c.signer
}

type channelPayload struct {
	BankPrefix    string `json:"bank_prefix"`
	BankName      string `json:"bank_name"`
	PaymentMethod string `json:"payment_method"`
	// Pointer: surfaces that omit the flag list only active channels.
	Active *bool `json:"active"`
}

func (c *Client) FetchChannels(ctx context.Context) ([]processorgateway.Channel, error) {
	body, err := c.doJSON(ctx, http.MethodGet, c.baseURL+channelsPath, nil)
	if err != nil {
		return nil, err
	}

	var payload []channelPayload
	var envelope struct {
		Data []channelPayload `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		payload = envelope.Data
	} else if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewTransportError("unexpected channel listing response", err.Error())
	}

	channels := make([]processorgateway.Channel, 0, len(payload))
	for _, ch := range payload {
		if ch.Active != nil && !*ch.Active {
			continue
		}
		channels = append(channels, processorgateway.Channel{
			BankPrefix:    ch.BankPrefix,
			BankName:      ch.BankName,
			PaymentMethod: ch.PaymentMethod,
			Active:        true,
		})
	}
	return channels, nil
}

func (c *Client) Initiate(ctx context.Context, req processorgateway.InitiateRequest) (*processorgateway.InitiateResponse, error) {
	fields := req.Fields()
	checksum := c.signer.Sign(fields)

	form := url.Values{}
	for key, value := range fields {
		form.Set(key, value)
	}
	form.Set("checksum", checksum)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+initiatePath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build initiate request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewTransportError("herepay initiate call failed", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apperrors.NewTransportError("failed to read initiate response", err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warnw("initiate rejected by processor",
			"status", resp.StatusCode, "payment_code", req.PaymentCode)
		return nil, apperrors.NewTransportError("herepay initiate rejected",
			fmt.Sprintf("status %d", resp.StatusCode))
	}

	// The body is the processor's self-redirecting HTML; forward it
	// sanitized, never raw.
	return &processorgateway.InitiateResponse{
		RedirectHTML: c.policy.Sanitize(string(body)),
	}, nil
}

func (c *Client) TransactionStatus(ctx context.Context, paymentCode string) (*processorgateway.RemoteStatus, error) {
	body, err := c.doJSON(ctx, http.MethodGet, c.baseURL+transactionPath+url.PathEscape(paymentCode), nil)
	if err != nil {
		return nil, err
	}

	// The endpoint answers either a flat object or a {data:{...}}
	// envelope depending on processor version; normalize to flat.
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	raw := body
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		raw = envelope.Data
	}

	// Fields like amount and status_code arrive as either JSON strings or
	// bare numbers depending on processor version; decode into a map with
	// UseNumber so both render unchanged.
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, apperrors.NewTransportError("unexpected transaction status response", err.Error())
	}
	return &processorgateway.RemoteStatus{
		ReferenceCode: fieldString(payload, "reference_code"),
		PaymentCode:   fieldString(payload, "payment_code"),
		TransactionID: fieldString(payload, "transaction_id"),
		Status:        fieldString(payload, "status"),
		StatusCode:    fieldString(payload, "status_code"),
		Message:       fieldString(payload, "message"),
		Amount:        fieldString(payload, "amount"),
		Currency:      fieldString(payload, "currency"),
		PaymentMethod: fieldString(payload, "payment_method"),
	}, nil
}

func fieldString(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return fmt.Sprintf("%t", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, reqBody io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewTransportError("herepay api unreachable", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apperrors.NewTransportError("failed to read response", err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewTransportError("herepay api error",
			fmt.Sprintf("status %d", resp.StatusCode))
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("XApiKey", c.credentials.APIKey)
	req.Header.Set("SecretKey", c.credentials.SecretKey)
}
