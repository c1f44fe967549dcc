package payment

import (
	"context"

	vo "payrelay/internal/domain/payment/valueobjects"
)

// PaymentIntentRepository persists payment intents. The conditional
// transition methods execute as single atomic updates against storage:
// they apply only when the current status permits the transition and
// report whether this call was the one that applied it. That boolean is
// the exactly-once guard for inventory and accounting side effects when
// webhook and redirect events race.
type PaymentIntentRepository interface {
	Create(ctx context.Context, intent *PaymentIntent) error
	GetByPaymentCode(ctx context.Context, paymentCode string) (*PaymentIntent, error)
	ListRecent(ctx context.Context, limit int) ([]*PaymentIntent, error)

	// MarkPendingFromCreated transitions created → pending.
	MarkPendingFromCreated(ctx context.Context, paymentCode string) (applied bool, err error)
	// CompleteIfNotTerminal transitions created/pending → completed and
	// records the transaction id when non-empty.
	CompleteIfNotTerminal(ctx context.Context, paymentCode, transactionID string) (applied bool, err error)
	// FailIfNotTerminal transitions created/pending → failed or
	// unauthorized with a reason note.
	FailIfNotTerminal(ctx context.Context, paymentCode string, status vo.IntentStatus, reason string) (applied bool, err error)
}
