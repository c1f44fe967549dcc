package valueobjects

// IntentStatus tracks a payment attempt from initiation to settlement.
// Transitions are monotonic: terminal statuses never regress.
type IntentStatus string

const (
	IntentStatusCreated      IntentStatus = "created"
	IntentStatusPending      IntentStatus = "pending"
	IntentStatusCompleted    IntentStatus = "completed"
	IntentStatusFailed       IntentStatus = "failed"
	IntentStatusUnauthorized IntentStatus = "unauthorized"
)

func (s IntentStatus) IsValid() bool {
	switch s {
	case IntentStatusCreated, IntentStatusPending, IntentStatusCompleted,
		IntentStatusFailed, IntentStatusUnauthorized:
		return true
	default:
		return false
	}
}

func (s IntentStatus) IsPaid() bool {
	return s == IntentStatusCompleted
}

func (s IntentStatus) IsTerminal() bool {
	return s == IntentStatusCompleted || s == IntentStatusFailed || s == IntentStatusUnauthorized
}

func (s IntentStatus) String() string {
	return string(s)
}
