package payment

import (
	"fmt"
	"time"

	vo "payrelay/internal/domain/payment/valueobjects"
	"payrelay/internal/domain/shared/services"
	"payrelay/internal/shared/biztime"
)

// PaymentIntent is one payment attempt against an order. The payment code
// is immutable once assigned and globally unique for the order's lifetime;
// status is mutated only through the methods below, which enforce that
// terminal states never regress.
type PaymentIntent struct {
	id            uint
	paymentCode   string
	orderID       uint
	amount        vo.Amount
	bankPrefix    string
	paymentMethod string
	status        vo.IntentStatus

	transactionID *string
	note          *string

	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewPaymentIntent(orderID uint, amount vo.Amount, bankPrefix, paymentMethod string) (*PaymentIntent, error) {
	if orderID == 0 {
		return nil, fmt.Errorf("order ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if bankPrefix == "" {
		return nil, fmt.Errorf("bank prefix is required")
	}
	if paymentMethod == "" {
		return nil, fmt.Errorf("payment method is required")
	}

	now := biztime.NowUTC()
	return &PaymentIntent{
		paymentCode:   services.NewPaymentCodeGenerator().Generate(),
		orderID:       orderID,
		amount:        amount,
		bankPrefix:    bankPrefix,
		paymentMethod: paymentMethod,
		status:        vo.IntentStatusCreated,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// MarkPending records that the processor has the payment in flight.
// A no-op once the intent is terminal or already pending.
func (p *PaymentIntent) MarkPending() error {
	if p.status.IsTerminal() || p.status == vo.IntentStatusPending {
		return nil
	}

	p.status = vo.IntentStatusPending
	p.touch()
	return nil
}

// MarkCompleted settles the intent. Repeat completion is a no-op so that
// retried processor events cannot double-apply side effects.
func (p *PaymentIntent) MarkCompleted(transactionID string) error {
	if p.status == vo.IntentStatusCompleted {
		return nil
	}
	if p.status.IsTerminal() {
		return fmt.Errorf("cannot complete intent with terminal status %s", p.status)
	}

	p.status = vo.IntentStatusCompleted
	if transactionID != "" {
		p.transactionID = &transactionID
	}
	p.touch()
	return nil
}

func (p *PaymentIntent) MarkFailed(reason string) error {
	if p.status.IsTerminal() {
		return fmt.Errorf("cannot fail intent with terminal status %s", p.status)
	}

	p.status = vo.IntentStatusFailed
	p.note = &reason
	p.touch()
	return nil
}

// MarkUnauthorized is the failure sub-case for events the processor
// reports as unauthorized; kept distinct for dispute resolution.
func (p *PaymentIntent) MarkUnauthorized(reason string) error {
	if p.status.IsTerminal() {
		return fmt.Errorf("cannot mark intent unauthorized with terminal status %s", p.status)
	}

	p.status = vo.IntentStatusUnauthorized
	p.note = &reason
	p.touch()
	return nil
}

func (p *PaymentIntent) touch() {
	p.updatedAt = biztime.NowUTC()
	p.version++
}

func (p *PaymentIntent) SetID(id uint) {
	p.id = id
}

func (p *PaymentIntent) ID() uint {
	return p.id
}

func (p *PaymentIntent) PaymentCode() string {
	return p.paymentCode
}

func (p *PaymentIntent) OrderID() uint {
	return p.orderID
}

func (p *PaymentIntent) Amount() vo.Amount {
	return p.amount
}

func (p *PaymentIntent) BankPrefix() string {
	return p.bankPrefix
}

func (p *PaymentIntent) PaymentMethod() string {
	return p.paymentMethod
}

func (p *PaymentIntent) Status() vo.IntentStatus {
	return p.status
}

func (p *PaymentIntent) TransactionID() *string {
	return p.transactionID
}

func (p *PaymentIntent) Note() *string {
	return p.note
}

func (p *PaymentIntent) Version() int {
	return p.version
}

func (p *PaymentIntent) CreatedAt() time.Time {
	return p.createdAt
}

func (p *PaymentIntent) UpdatedAt() time.Time {
	return p.updatedAt
}

// IntentReconstructParams carries persisted state back into the entity.
type IntentReconstructParams struct {
	ID            uint
	PaymentCode   string
	OrderID       uint
	Amount        vo.Amount
	BankPrefix    string
	PaymentMethod string
	Status        vo.IntentStatus
	TransactionID *string
	Note          *string
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReconstructPaymentIntent rebuilds an intent from storage without
// touching timestamps or version.
func ReconstructPaymentIntent(params IntentReconstructParams) *PaymentIntent {
	return &PaymentIntent{
		id:            params.ID,
		paymentCode:   params.PaymentCode,
		orderID:       params.OrderID,
		amount:        params.Amount,
		bankPrefix:    params.BankPrefix,
		paymentMethod: params.PaymentMethod,
		status:        params.Status,
		transactionID: params.TransactionID,
		note:          params.Note,
		version:       params.Version,
		createdAt:     params.CreatedAt,
		updatedAt:     params.UpdatedAt,
	}
}
