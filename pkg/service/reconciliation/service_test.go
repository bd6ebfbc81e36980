package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/events"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createParams(t *testing.T, id string, amount int64) *payme.CreateTransactionParams {
	return params[payme.CreateTransactionParams](t, fmt.Sprintf(
		`{"id":%q,"time":1714557600000,"amount":%d,"account":{"user_id":"%d"}}`, id, amount, testAccountID))
}

func performParams(t *testing.T, id string) *payme.PerformTransactionParams {
	return params[payme.PerformTransactionParams](t, fmt.Sprintf(`{"id":%q,"time":1714557600000}`, id))
}

func cancelParams(t *testing.T, id string, reason int) *payme.CancelTransactionParams {
	return params[payme.CancelTransactionParams](t, fmt.Sprintf(`{"id":%q,"reason":%d}`, id, reason))
}

func checkParams(t *testing.T, id string) *payme.CheckTransactionParams {
	return params[payme.CheckTransactionParams](t, fmt.Sprintf(`{"id":%q}`, id))
}

func TestCheckPerformTransaction(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		raw      string
		wantCode int
		wantData string
	}{
		{"within bounds", `{"amount":500000,"account":{"user_id":"17"}}`, 0, ""},
		{"numeric user id", `{"amount":1000,"account":{"user_id":17}}`, 0, ""},
		{"at max", `{"amount":10000000,"account":{"user_id":"17"}}`, 0, ""},
		{"below min", `{"amount":500,"account":{"user_id":"17"}}`, payme.CodeInvalidAmount, "amount"},
		{"above max", `{"amount":10000001,"account":{"user_id":"17"}}`, payme.CodeInvalidAmount, "amount"},
		{"missing amount", `{"account":{"user_id":"17"}}`, payme.CodeInvalidAmount, "amount"},
		{"non numeric account", `{"amount":500000,"account":{"user_id":"abc"}}`, payme.CodeInvalidAccount, "user_id"},
		{"missing account", `{"amount":500000}`, payme.CodeInvalidAccount, "user_id"},
		{"unknown account", `{"amount":500000,"account":{"user_id":"99"}}`, payme.CodeAccountNotFound, "user_id"},
		{"account checked before amount", `{"amount":1,"account":{"user_id":"x"}}`, payme.CodeInvalidAccount, "user_id"},
		{"account id past int64", `{"amount":500000,"account":{"user_id":"18446744073709551633"}}`, payme.CodeInvalidAccount, "user_id"},
		{"amount past int64", `{"amount":18446744073709601616,"account":{"user_id":"17"}}`, payme.CodeInvalidAmount, "amount"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			res, err := f.svc.CheckPerformTransaction(ctx, params[payme.CheckPerformTransactionParams](t, tc.raw))
			if tc.wantCode == 0 {
				require.NoError(t, err)
				assert.True(t, res.Allow)
				return
			}
			pe := requirePaymeError(t, err, tc.wantCode)
			assert.Equal(t, tc.wantData, pe.Data)
			assert.Nil(t, res)
			assert.Zero(t, f.store.Writes())
		})
	}
}

func TestCreateTransaction_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateTransaction(ctx, createParams(t, "p-1", 500000))
	require.NoError(t, err)
	second, err := f.svc.CreateTransaction(ctx, createParams(t, "p-1", 500000))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, payme.StatePending, first.State)
	assert.Equal(t, "1", first.Transaction)
	assert.Len(t, f.store.Transactions(), 1)
	assert.Len(t, f.bus.Published(), 1, "an echoed create must not emit")
	_, ok := f.bus.Published()[0].(*events.TransactionCreated)
	assert.True(t, ok)
}

func TestCreateTransaction_StoresPendingRow(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateTransaction(context.Background(), createParams(t, "p-1", 500000))
	require.NoError(t, err)

	txs := f.store.Transactions()
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, "p-1", tx.ProviderTransactionID)
	assert.Equal(t, int64(testAccountID), tx.AccountID)
	assert.Equal(t, int64(500000), tx.AmountMinorUnits)
	assert.Equal(t, int64(1714557600000), tx.ProviderTime)
	assert.Equal(t, payment.StatusPending, tx.Status)
	assert.Equal(t, tx.CreatedAt.UnixMilli(), res.CreateTime)
	assert.True(t, decimal.NewFromInt(250).Equal(f.store.Balance(testAccountID)), "create must not touch the balance")
}

func TestCreateTransaction_RejectsInvalidInputWithoutWriting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTransaction(ctx, createParams(t, "p-low", 500))
	requirePaymeError(t, err, payme.CodeInvalidAmount)

	bad := params[payme.CreateTransactionParams](t,
		`{"id":"p-acc","time":1,"amount":500000,"account":{"user_id":"404"}}`)
	_, err = f.svc.CreateTransaction(ctx, bad)
	requirePaymeError(t, err, payme.CodeAccountNotFound)

	assert.Empty(t, f.store.Transactions())
	assert.Empty(t, f.bus.Published())
}

func TestCreateTransaction_FinalizedDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTransaction(ctx, createParams(t, "p-1", 500000))
	require.NoError(t, err)
	_, err = f.svc.CancelTransaction(ctx, cancelParams(t, "p-1", 3))
	require.NoError(t, err)

	_, err = f.svc.CreateTransaction(ctx, createParams(t, "p-1", 500000))
	requirePaymeError(t, err, payme.CodeCantPerform)
	assert.Len(t, f.store.Transactions(), 1)
}

func TestPerformTransaction_NoDoubleCredit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTransaction(ctx, createParams(t, "p-1", 500000))
	require.NoError(t, err)

	first, err := f.svc.PerformTransaction(ctx, performParams(t, "p-1"))
	require.NoError(t, err)
	second, err := f.svc.PerformTransaction(ctx, performParams(t, "p-1"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, payme.StatePerformed, first.State)
	assert.NotZero(t, first.PerformTime)
	assert.Equal(t, 1, f.store.Adjustments())
	assert.True(t, decimal.NewFromInt(5250).Equal(f.store.Balance(testAccountID)))
	assert.Len(t, f.bus.Published(), 2)
}

func TestPerformTransaction_CancelledCannotBePerformed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTransaction(ctx, createParams(t, "p-1", 500000))
	require.NoError(t, err)
	_, err = f.svc.CancelTransaction(ctx, cancelParams(t, "p-1", 4))
	require.NoError(t, err)

	_, err = f.svc.PerformTransaction(ctx, performParams(t, "p-1"))
	requirePaymeError(t, err, payme.CodeCantPerform)
	assert.Zero(t, f.store.Adjustments())
}

func TestReversalSymmetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	opening := f.store.Balance(testAccountID)

	_, err := f.svc.CreateTransaction(ctx, createParams(t, "p-big", 10_000_000))
	require.NoError(t, err)
	_, err = f.svc.PerformTransaction(ctx, performParams(t, "p-big"))
	require.NoError(t, err)
	assert.True(t, opening.Add(decimal.NewFromInt(100_000)).Equal(f.store.Balance(testAccountID)))

	cancelled, err := f.svc.CancelTransaction(ctx, cancelParams(t, "p-big", 5))
	require.NoError(t, err)
	assert.Equal(t, payme.StateCancelledAfterPerformed, cancelled.State)
	assert.NotZero(t, cancelled.CancelTime)
	assert.True(t, opening.Equal(f.store.Balance(testAccountID)))

	tx := f.store.Transactions()[0]
	assert.Equal(t, payment.StatusCancelledWithRevert, tx.Status)
	require.NotNil(t, tx.Reason)
	assert.Equal(t, 5, *tx.Reason)

	again, err := f.svc.CancelTransaction(ctx, cancelParams(t, "p-big", 5))
	require.NoError(t, err)
	assert.Equal(t, cancelled, again)
	assert.Equal(t, 2, f.store.Adjustments(), "one credit and one reversal")

	check, err := f.svc.CheckTransaction(ctx, checkParams(t, "p-big"))
	require.NoError(t, err)
	assert.Equal(t, payme.StateCancelled, check.State)
	assert.Zero(t, check.PerformTime)
	assert.Equal(t, cancelled.CancelTime, check.CancelTime)
	require.NotNil(t, check.Reason)
	assert.Equal(t, 5, *check.Reason)

	published := f.bus.Published()
	require.Len(t, published, 3)
	cancelEvt, ok := published[2].(*events.TransactionCancelled)
	require.True(t, ok)
	assert.True(t, cancelEvt.Reverted)
}

func TestCancelPending_NoBalanceEffect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	opening := f.store.Balance(testAccountID)

	_, err := f.svc.CreateTransaction(ctx, createParams(t, "p-1", 500000))
	require.NoError(t, err)

	res, err := f.svc.CancelTransaction(ctx, cancelParams(t, "p-1", 3))
	require.NoError(t, err)
	assert.Equal(t, payme.StateCancelled, res.State)
	assert.True(t, opening.Equal(f.store.Balance(testAccountID)))
	assert.Zero(t, f.store.Adjustments())
	assert.Equal(t, payment.StatusFailed, f.store.Transactions()[0].Status)

	again, err := f.svc.CancelTransaction(ctx, cancelParams(t, "p-1", 3))
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestCheckTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTransaction(ctx, createParams(t, "p-1", 500000))
	require.NoError(t, err)

	check, err := f.svc.CheckTransaction(ctx, checkParams(t, "p-1"))
	require.NoError(t, err)
	assert.Equal(t, created.CreateTime, check.CreateTime)
	assert.Equal(t, payme.StatePending, check.State)
	assert.Zero(t, check.PerformTime)
	assert.Zero(t, check.CancelTime)
	assert.Nil(t, check.Reason)

	performed, err := f.svc.PerformTransaction(ctx, performParams(t, "p-1"))
	require.NoError(t, err)

	check, err = f.svc.CheckTransaction(ctx, checkParams(t, "p-1"))
	require.NoError(t, err)
	assert.Equal(t, payme.StatePerformed, check.State)
	assert.Equal(t, performed.PerformTime, check.PerformTime)
	assert.Zero(t, check.CancelTime)
}

func TestUnknownTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CheckTransaction(ctx, checkParams(t, "missing"))
	requirePaymeError(t, err, payme.CodeTransactionNotFound)
	assert.Nil(t, res)

	_, err = f.svc.PerformTransaction(ctx, performParams(t, "missing"))
	requirePaymeError(t, err, payme.CodeTransactionNotFound)

	_, err = f.svc.CancelTransaction(ctx, cancelParams(t, "missing", 1))
	requirePaymeError(t, err, payme.CodeTransactionNotFound)
}

func TestPerformTransaction_RollsBackCreditWhenStatusWriteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	opening := f.store.Balance(testAccountID)

	_, err := f.svc.CreateTransaction(ctx, createParams(t, "p-1", 500000))
	require.NoError(t, err)

	f.store.UpdateErr = errors.New("connection reset")
	_, err = f.svc.PerformTransaction(ctx, performParams(t, "p-1"))
	require.Error(t, err)
	assert.Equal(t, payme.ErrSystem, payme.AsError(err))

	assert.True(t, opening.Equal(f.store.Balance(testAccountID)))
	assert.Equal(t, payment.StatusPending, f.store.Transactions()[0].Status)
	assert.Len(t, f.bus.Published(), 1, "no performed event for a rolled back transition")

	f.store.UpdateErr = nil
	_, err = f.svc.PerformTransaction(ctx, performParams(t, "p-1"))
	require.NoError(t, err)
	assert.True(t, opening.Add(decimal.NewFromInt(5000)).Equal(f.store.Balance(testAccountID)))
}

func TestConcurrentDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const callers = 25
	create := createParams(t, "p-race", 500000)
	perform := performParams(t, "p-race")
	cancel := cancelParams(t, "p-race", 5)

	var wg sync.WaitGroup
	results := make([]*payme.CreateResult, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.CreateTransaction(ctx, create)
		}(i)
	}
	wg.Wait()
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
	assert.Len(t, f.store.Transactions(), 1)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.PerformTransaction(ctx, perform)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, f.store.Adjustments())
	assert.True(t, decimal.NewFromInt(5250).Equal(f.store.Balance(testAccountID)))

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CancelTransaction(ctx, cancel)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 2, f.store.Adjustments())
	assert.True(t, decimal.NewFromInt(250).Equal(f.store.Balance(testAccountID)))
}

func TestGetStatement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateTransaction(ctx, createParams(t, "p-1", 500000))
	require.NoError(t, err)
	second, err := f.svc.CreateTransaction(ctx, createParams(t, "p-2", 700000))
	require.NoError(t, err)
	_, err = f.svc.PerformTransaction(ctx, performParams(t, "p-2"))
	require.NoError(t, err)

	all, err := f.svc.GetStatement(ctx, params[payme.GetStatementParams](t,
		fmt.Sprintf(`{"from":%d,"to":%d}`, first.CreateTime, second.CreateTime)))
	require.NoError(t, err)
	require.Len(t, all.Transactions, 2)
	assert.Equal(t, "p-1", all.Transactions[0].ID)
	assert.Equal(t, int64(1714557600000), all.Transactions[0].Time)
	assert.Equal(t, "17", all.Transactions[0].Account.UserID)
	assert.Equal(t, payme.StatePending, all.Transactions[0].State)
	assert.Equal(t, "p-2", all.Transactions[1].ID)
	assert.Equal(t, payme.StatePerformed, all.Transactions[1].State)
	assert.NotZero(t, all.Transactions[1].PerformTime)

	onlyFirst, err := f.svc.GetStatement(ctx, params[payme.GetStatementParams](t,
		fmt.Sprintf(`{"from":%d,"to":%d}`, first.CreateTime, first.CreateTime)))
	require.NoError(t, err)
	require.Len(t, onlyFirst.Transactions, 1)

	none, err := f.svc.GetStatement(ctx, params[payme.GetStatementParams](t, `{"from":10,"to":1}`))
	require.NoError(t, err)
	assert.NotNil(t, none.Transactions)
	assert.Empty(t, none.Transactions)
}

func TestGetStatement_InclusiveAtSubMillisecondCreateTime(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC)
	f.svc = NewService(config.Deps{
		Uow:    f.store,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, WithLimits(Limits{MinAmount: testMinAmount, MaxAmount: testMaxAmount}),
		WithClock(func() time.Time { return at }))
	ctx := context.Background()

	created, err := f.svc.CreateTransaction(ctx, createParams(t, "p-sub-ms", 500000))
	require.NoError(t, err)
	require.Equal(t, int64(1714557600123), created.CreateTime)

	stmt, err := f.svc.GetStatement(ctx, params[payme.GetStatementParams](t,
		fmt.Sprintf(`{"from":%d,"to":%d}`, created.CreateTime, created.CreateTime)))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, created.CreateTime, stmt.Transactions[0].CreateTime)

	txs := f.store.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, at.Truncate(time.Millisecond), txs[0].CreatedAt)
}

func TestCreateTransaction_AccountIDPastInt64(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTransaction(context.Background(), params[payme.CreateTransactionParams](t,
		`{"id":"p-wrap","time":1,"amount":500000,"account":{"user_id":"18446744073709551633"}}`))
	pe := requirePaymeError(t, err, payme.CodeInvalidAccount)
	assert.Equal(t, "user_id", pe.Data)
	assert.Zero(t, f.store.Writes())
	assert.Empty(t, f.store.Transactions())
}
