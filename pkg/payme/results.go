package payme

import "time"

// CheckPerformResult is the result of CheckPerformTransaction.
type CheckPerformResult struct {
	Allow bool `json:"allow"`
}

// CreateResult is the result of CreateTransaction.
type CreateResult struct {
	CreateTime  int64  `json:"create_time"`
	Transaction string `json:"transaction"`
	State       State  `json:"state"`
}

// PerformResult is the result of PerformTransaction.
type PerformResult struct {
	PerformTime int64  `json:"perform_time"`
	Transaction string `json:"transaction"`
	State       State  `json:"state"`
}

// CancelResult is the result of CancelTransaction.
type CancelResult struct {
	CancelTime  int64  `json:"cancel_time"`
	Transaction string `json:"transaction"`
	State       State  `json:"state"`
}

// CheckResult is the result of CheckTransaction.
type CheckResult struct {
	CreateTime  int64  `json:"create_time"`
	PerformTime int64  `json:"perform_time"`
	CancelTime  int64  `json:"cancel_time"`
	Transaction string `json:"transaction"`
	State       State  `json:"state"`
	Reason      *int   `json:"reason"`
}

// StatementAccount is the account object inside a statement entry.
type StatementAccount struct {
	UserID string `json:"user_id"`
}

// StatementTransaction is one entry of GetStatement.
type StatementTransaction struct {
	ID          string           `json:"id"`
	Time        int64            `json:"time"`
	Amount      int64            `json:"amount"`
	Account     StatementAccount `json:"account"`
	CreateTime  int64            `json:"create_time"`
	PerformTime int64            `json:"perform_time"`
	CancelTime  int64            `json:"cancel_time"`
	Transaction string           `json:"transaction"`
	State       State            `json:"state"`
	Reason      *int             `json:"reason"`
}

// StatementResult is the result of GetStatement.
type StatementResult struct {
	Transactions []StatementTransaction `json:"transactions"`
}

// Millis converts an optional timestamp to the provider's millisecond time,
// with 0 standing for "not set".
func Millis(t *time.Time) int64 {
	if t == nil || t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
