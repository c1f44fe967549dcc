// Package order defines the port to the host platform's order storage.
// The reconciliation core never constructs or destroys orders; it reads
// billing fields and the total, and requests status transitions through
// the Store interface.
package order

import "context"

// Status mirrors the host platform's order lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusOnHold     Status = "on-hold"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Order is a read snapshot of a host-platform order. Mutations go
// through the Store, never through this struct.
type Order struct {
	ID               uint
	Number           string
	BillingName      string
	BillingEmail     string
	BillingPhone     string
	TotalCents       int64
	Currency         string
	Status           Status
	TransactionID    string
	InventoryReduced bool
}

// IsPaid reports whether the order has already been settled.
func (o *Order) IsPaid() bool {
	return o.Status == StatusProcessing || o.Status == StatusCompleted
}

// Store is the external collaborator owning order state. Implementations
// must apply each mutation durably before returning.
type Store interface {
	FindByID(ctx context.Context, id uint) (*Order, error)
	FindByPaymentCode(ctx context.Context, paymentCode string) (*Order, error)

	TransitionStatus(ctx context.Context, orderID uint, status Status, note string) error
	// MarkPaymentComplete runs the platform's payment-complete accounting
	// hook (order paid, transaction recorded).
	MarkPaymentComplete(ctx context.Context, orderID uint, transactionID string) error
	AppendAuditNote(ctx context.Context, orderID uint, note string) error

	// DecrementInventory reduces stock for the order's lines. Callers are
	// responsible for invoking it at most once per order; implementations
	// additionally no-op when stock was already reduced.
	DecrementInventory(ctx context.Context, orderID uint) error
	// RestoreInventory compensates a prior decrement.
	RestoreInventory(ctx context.Context, orderID uint) error
}
