// Package processorgateway defines the port to the HerePay HTTP API.
package processorgateway

import "context"

// ProcessorGateway is the outbound interface to the payment processor.
// Implementations sign requests, attach credential headers, and keep the
// 30s call timeout; callers decide about retries (there are none in the
// automated paths).
type ProcessorGateway interface {
	// FetchChannels lists the processor's bank/payment-method options.
	// Only active channels are returned. Transport failure or a non-2xx
	// response yields a transport error, never an empty list, so callers
	// can tell "nothing configured" from "API unreachable".
	FetchChannels(ctx context.Context) ([]Channel, error)

	// Initiate signs and submits the payment-creation request. The
	// returned HTML is the processor's self-redirecting payload, already
	// sanitized for forwarding to the shopper's browser.
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)

	// TransactionStatus polls the current remote state of a payment code.
	TransactionStatus(ctx context.Context, paymentCode string) (*RemoteStatus, error)
}

// EventVerifier authenticates inbound reconciliation events by checksum.
type EventVerifier interface {
	// Enabled reports whether a private key is configured. When false the
	// service runs in degraded mode and events without checksums are
	// tolerated.
	Enabled() bool
	// Verify recomputes the checksum over fields (minus any checksum key)
	// and compares it against the claimed value in constant time.
	Verify(fields map[string]string, claimed string) bool
}

// Channel is one bank/payment-method option offered by the processor.
type Channel struct {
	BankPrefix    string `json:"bank_prefix"`
	BankName      string `json:"bank_name"`
	PaymentMethod string `json:"payment_method"`
	Active        bool   `json:"active"`
}

// InitiateRequest carries the signed field map for payment creation.
// All values are already processor-formatted strings; Amount is the
// fixed two-decimal rendition of the order total.
type InitiateRequest struct {
	PaymentCode   string
	CreatedAt     string
	Amount        string
	Name          string
	Email         string
	Phone         string
	Description   string
	BankPrefix    string
	PaymentMethod string
	RedirectURL   string
}

// Fields returns the request as the flat map the checksum is computed over.
func (r InitiateRequest) Fields() map[string]string {
	return map[string]string{
		"payment_code":   r.PaymentCode,
		"created_at":     r.CreatedAt,
		"amount":         r.Amount,
		"name":           r.Name,
		"email":          r.Email,
		"phone":          r.Phone,
		"description":    r.Description,
		"bank_prefix":    r.BankPrefix,
		"payment_method": r.PaymentMethod,
		"redirect_url":   r.RedirectURL,
	}
}

// InitiateResponse holds the sanitized redirect payload to forward to the
// shopper's browser verbatim.
type InitiateResponse struct {
	RedirectHTML string
}

// RemoteStatus is the processor's current view of a payment code,
// normalized to the flat shape regardless of response envelope.
type RemoteStatus struct {
	ReferenceCode string `json:"reference_code"`
	PaymentCode   string `json:"payment_code"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	StatusCode    string `json:"status_code"`
	Message       string `json:"message"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
}
