package checkout

type State string

const (
	StateIdle            State = "IDLE"
	StateLocationPending State = "LOCATION_PENDING"
	StatePaymentPending  State = "PAYMENT_PENDING"
	StateProcessing      State = "PROCESSING"
	StateCommitted       State = "COMMITTED"
)

// Processing -> PaymentPending covers a failed commit (store error);
// everything else -> Idle is cancellation or the post-commit reset.
var validNext = map[State]map[State]bool{
	StateIdle:            {StateLocationPending: true, StatePaymentPending: true},
	StateLocationPending: {StatePaymentPending: true, StateIdle: true},
	StatePaymentPending:  {StateProcessing: true, StateIdle: true},
	StateProcessing:      {StateCommitted: true, StatePaymentPending: true},
	StateCommitted:       {StateIdle: true},
}

func CanTransition(from, to State) bool {
	return validNext[from][to]
}
