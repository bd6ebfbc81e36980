package reconciliation

import (
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
)

func createResult(tx *payment.Transaction) *payme.CreateResult {
	return &payme.CreateResult{
		CreateTime:  tx.CreatedAt.UnixMilli(),
		Transaction: formatID(tx.ID),
		State:       payme.StateOf(tx.Status),
	}
}

func performResult(tx *payment.Transaction) *payme.PerformResult {
	return &payme.PerformResult{
		PerformTime: payme.Millis(tx.PerformedAt),
		Transaction: formatID(tx.ID),
		State:       payme.StateOf(tx.Status),
	}
}

func cancelResult(tx *payment.Transaction) *payme.CancelResult {
	return &payme.CancelResult{
		CancelTime:  payme.Millis(tx.CancelledAt),
		Transaction: formatID(tx.ID),
		State:       payme.CancelStateOf(tx.Status),
	}
}

// checkResult reports perform_time only while the credit stands and
// cancel_time only once the transaction is cancelled.
func checkResult(tx *payment.Transaction) *payme.CheckResult {
	res := &payme.CheckResult{
		CreateTime:  tx.CreatedAt.UnixMilli(),
		Transaction: formatID(tx.ID),
		State:       payme.StateOf(tx.Status),
		Reason:      tx.Reason,
	}
	if tx.Status == payment.StatusSucceeded {
		res.PerformTime = payme.Millis(tx.PerformedAt)
	}
	if tx.Status.Cancelled() {
		res.CancelTime = payme.Millis(tx.CancelledAt)
	}
	return res
}

func statementEntry(tx *payment.Transaction) payme.StatementTransaction {
	check := checkResult(tx)
	return payme.StatementTransaction{
		ID:          tx.ProviderTransactionID,
		Time:        tx.ProviderTime,
		Amount:      tx.AmountMinorUnits,
		Account:     payme.StatementAccount{UserID: formatID(tx.AccountID)},
		CreateTime:  check.CreateTime,
		PerformTime: check.PerformTime,
		CancelTime:  check.CancelTime,
		Transaction: check.Transaction,
		State:       check.State,
		Reason:      check.Reason,
	}
}
