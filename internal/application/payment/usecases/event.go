package usecases

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "payrelay/internal/shared/errors"
)

// maxEventBodySize caps inbound reconciliation payloads. Real processor
// events are a few hundred bytes.
const maxEventBodySize = 1 << 20

// PaymentEvent is the normalized form of an inbound reconciliation event,
// whether it arrived as a server-to-server webhook (JSON or form) or a
// shopper browser redirect (query or form). Raw keeps every received
// field as a string for checksum verification and audit notes.
type PaymentEvent struct {
	PaymentCode   string
	Status        string
	StatusCode    string
	TransactionID string
	Amount        string
	Message       string
	Checksum      string
	Raw           map[string]string
}

// Outcome is the classification of a processor event.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomePending Outcome = "pending"
	OutcomeUnknown Outcome = "unknown"
)

// ParsePaymentEvent normalizes an inbound HTTP request into a
// PaymentEvent. POST bodies are tried as JSON first, falling back to
// form decoding; GET requests read the query string. The processor is
// inconsistent about which encoding each surface uses.
func ParsePaymentEvent(r *http.Request) (*PaymentEvent, error) {
	fields, err := extractFields(r)
	if err != nil {
		return nil, err
	}

	ev := &PaymentEvent{
		PaymentCode:   fields["payment_code"],
		Status:        fields["status"],
		StatusCode:    fields["status_code"],
		TransactionID: fields["transaction_id"],
		Amount:        fields["amount"],
		Message:       fields["message"],
		Checksum:      fields["checksum"],
		Raw:           fields,
	}

	if ev.PaymentCode == "" {
		return nil, apperrors.NewValidationError("payment event missing payment_code")
	}
	return ev, nil
}

func extractFields(r *http.Request) (map[string]string, error) {
	if r.Method == http.MethodGet {
		fields := make(map[string]string)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		return fields, nil
	}

	// The body is read once up front so the form fallback can re-decode
	// the same bytes after a failed JSON attempt.
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxEventBodySize))
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable payment event body", err.Error())
	}

	body := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(raw))
	// json.Number preserves the processor's exact decimal rendering;
	// float64 would reformat amounts and break checksum verification.
	dec.UseNumber()
	if err := dec.Decode(&body); err == nil {
		fields := make(map[string]string, len(body))
		for key, value := range body {
			fields[key] = stringifyField(value)
		}
		return fields, nil
	}

	form, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, apperrors.NewValidationError("unparseable payment event body", err.Error())
	}
	fields := make(map[string]string)
	for key, values := range form {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	// Some processor surfaces POST the redirect with fields in the query.
	for key, values := range r.URL.Query() {
		if _, exists := fields[key]; !exists && len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields, nil
}

func stringifyField(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		if value {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		// Structured values are carried as canonical JSON, matching what
		// the checksum was computed over.
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(raw)
	}
}

// Outcome classifies the event. The processor reports results through
// three inconsistent signals; every disjunct is checked, not just the
// first, because different integration surfaces populate different
// fields.
func (ev *PaymentEvent) Outcome() Outcome {
	status := strings.ToLower(strings.TrimSpace(ev.Status))
	message := strings.ToLower(strings.TrimSpace(ev.Message))

	if ev.StatusCode == "00" || status == "success" || status == "completed" || message == "approved" {
		return OutcomeSuccess
	}
	if ev.StatusCode == "30" || ev.StatusCode == "41" ||
		status == "failed" || status == "cancelled" || status == "unauthorized" ||
		message == "failed" || message == "cancelled" || message == "unauthorized" {
		return OutcomeFailure
	}
	if ev.StatusCode == "29" || status == "pending" || status == "processing" {
		return OutcomePending
	}
	return OutcomeUnknown
}

// IsUnauthorized reports whether a failure event is the unauthorized
// sub-case, which is recorded with a distinct note.
func (ev *PaymentEvent) IsUnauthorized() bool {
	return strings.EqualFold(strings.TrimSpace(ev.Status), "unauthorized") ||
		strings.EqualFold(strings.TrimSpace(ev.Message), "unauthorized")
}

// AuditSummary renders the normalized fields for the order's durable
// audit trail.
func (ev *PaymentEvent) AuditSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "herepay event: payment_code=%s", ev.PaymentCode)
	if ev.Status != "" {
		fmt.Fprintf(&b, " status=%s", ev.Status)
	}
	if ev.StatusCode != "" {
		fmt.Fprintf(&b, " status_code=%s", ev.StatusCode)
	}
	if ev.TransactionID != "" {
		fmt.Fprintf(&b, " transaction_id=%s", ev.TransactionID)
	}
	if ev.Amount != "" {
		fmt.Fprintf(&b, " amount=%s", ev.Amount)
	}
	if ev.Message != "" {
		fmt.Fprintf(&b, " message=%s", ev.Message)
	}
	return b.String()
}
