package payme

import "github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"

// State is the provider's integer transaction state.
type State int

const (
	StateUnknown                 State = 0
	StatePending                 State = 1
	StatePerformed               State = 2
	StateCancelled               State = -1
	StateCancelledAfterPerformed State = -2
)

// StateOf maps a ledger status to the state reported by CheckTransaction and
// GetStatement. All cancelled statuses report -1.
func StateOf(s payment.Status) State {
	switch s {
	case payment.StatusPending:
		return StatePending
	case payment.StatusSucceeded:
		return StatePerformed
	case payment.StatusFailed, payment.StatusCancelled, payment.StatusCancelledWithRevert:
		return StateCancelled
	default:
		return StateUnknown
	}
}

// CancelStateOf maps a cancelled status to the state returned as the result
// of CancelTransaction, where a reversed transaction is reported as -2.
func CancelStateOf(s payment.Status) State {
	switch s {
	case payment.StatusCancelledWithRevert:
		return StateCancelledAfterPerformed
	case payment.StatusFailed, payment.StatusCancelled:
		return StateCancelled
	case payment.StatusPending, payment.StatusSucceeded:
		return StateOf(s)
	default:
		return StateUnknown
	}
}
