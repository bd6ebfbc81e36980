package payment

// Status is the lifecycle status of a provider transaction as persisted in
// the ledger. The set is closed: every switch over Status must handle all
// values listed here.
type Status string

const (
	StatusPending             Status = "PENDING"
	StatusSucceeded           Status = "SUCCEEDED"
	StatusFailed              Status = "FAILED"
	StatusCancelled           Status = "CANCELLED"
	StatusCancelledWithRevert Status = "CANCELLED_WITH_REVERT"
)

// Statuses lists every valid status.
var Statuses = []Status{
	StatusPending,
	StatusSucceeded,
	StatusFailed,
	StatusCancelled,
	StatusCancelledWithRevert,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSucceeded, StatusFailed, StatusCancelled, StatusCancelledWithRevert:
		return true
	}
	return false
}

// Cancelled reports whether the status is one of the terminal
// failed/cancelled statuses.
func (s Status) Cancelled() bool {
	switch s {
	case StatusFailed, StatusCancelled, StatusCancelledWithRevert:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
