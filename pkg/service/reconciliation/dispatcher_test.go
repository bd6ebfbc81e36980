package reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatch(t *testing.T, d *Dispatcher, body string) map[string]any {
	t.Helper()
	req, perr := payme.DecodeRequest([]byte(body))
	require.Nil(t, perr)

	raw, err := json.Marshal(d.Dispatch(context.Background(), req))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func errorCode(t *testing.T, resp map[string]any) float64 {
	t.Helper()
	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", resp)
	return errObj["code"].(float64)
}

func TestDispatcher_RoutesAllMethods(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.svc, nil)

	resp := dispatch(t, d, `{"method":"CheckPerformTransaction","params":{"amount":500000,"account":{"user_id":"17"}},"id":1}`)
	assert.Equal(t, "2.0", resp["jsonrpc"])
	assert.Equal(t, map[string]any{"allow": true}, resp["result"])
	assert.EqualValues(t, 1, resp["id"])

	resp = dispatch(t, d, `{"method":"CreateTransaction","params":{"id":"p-1","time":1714557600000,"amount":500000,"account":{"user_id":"17"}},"id":"abc"}`)
	result := resp["result"].(map[string]any)
	assert.EqualValues(t, 1, result["state"])
	assert.Equal(t, "1", result["transaction"])
	assert.Equal(t, "abc", resp["id"])

	resp = dispatch(t, d, `{"method":"PerformTransaction","params":{"id":"p-1","time":1714557600000},"id":2}`)
	assert.EqualValues(t, 2, resp["result"].(map[string]any)["state"])

	resp = dispatch(t, d, `{"method":"CheckTransaction","params":{"id":"p-1"},"id":3}`)
	check := resp["result"].(map[string]any)
	assert.EqualValues(t, 2, check["state"])
	assert.Nil(t, check["reason"])
	assert.Contains(t, check, "reason")

	resp = dispatch(t, d, `{"method":"CancelTransaction","params":{"id":"p-1","reason":5},"id":4}`)
	assert.EqualValues(t, -2, resp["result"].(map[string]any)["state"])

	resp = dispatch(t, d, `{"method":"GetStatement","params":{"from":0,"to":9999999999999},"id":5}`)
	txs := resp["result"].(map[string]any)["transactions"].([]any)
	assert.Len(t, txs, 1)
}

func TestDispatcher_Errors(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.svc, nil)

	testCases := []struct {
		name     string
		body     string
		wantCode int
		wantData string
	}{
		{"unknown method", `{"method":"ChargeEverything","params":{},"id":1}`, payme.CodeMethodNotFound, "method"},
		{"method is case sensitive", `{"method":"checktransaction","params":{"id":"x"},"id":1}`, payme.CodeMethodNotFound, "method"},
		{"missing id param", `{"method":"CheckTransaction","params":{},"id":1}`, payme.CodeInvalidRequest, "id"},
		{"missing reason", `{"method":"CancelTransaction","params":{"id":"x"},"id":1}`, payme.CodeInvalidRequest, "reason"},
		{"missing statement bound", `{"method":"GetStatement","params":{"from":1},"id":1}`, payme.CodeInvalidRequest, "to"},
		{"params not an object", `{"method":"CheckTransaction","params":[1,2],"id":1}`, payme.CodeInvalidRequest, "params"},
		{"unknown transaction", `{"method":"CheckTransaction","params":{"id":"nope"},"id":1}`, payme.CodeTransactionNotFound, ""},
		{"amount below bounds", `{"method":"CheckPerformTransaction","params":{"amount":500,"account":{"user_id":"17"}},"id":1}`, payme.CodeInvalidAmount, "amount"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := dispatch(t, d, tc.body)
			assert.Nil(t, resp["result"])
			assert.EqualValues(t, tc.wantCode, errorCode(t, resp))

			errObj := resp["error"].(map[string]any)
			message := errObj["message"].(map[string]any)
			assert.Len(t, message, 3)
			assert.Contains(t, message, "uz")
			assert.Contains(t, message, "ru")
			assert.Contains(t, message, "en")
			if tc.wantData == "" {
				assert.NotContains(t, errObj, "data")
			} else {
				assert.Equal(t, tc.wantData, errObj["data"])
			}
		})
	}
}

func TestDispatcher_EchoesNullID(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.svc, nil)

	resp := dispatch(t, d, `{"method":"CheckTransaction","params":{"id":"nope"},"id":null}`)
	assert.Contains(t, resp, "id")
	assert.Nil(t, resp["id"])

	resp = dispatch(t, d, `{"method":"CheckTransaction","params":{"id":"nope"}}`)
	assert.Contains(t, resp, "id")
	assert.Nil(t, resp["id"])
}

func TestDispatcher_InternalErrorsBecomeSystemError(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.svc, nil)

	dispatch(t, d, `{"method":"CreateTransaction","params":{"id":"p-1","time":1,"amount":500000,"account":{"user_id":"17"}},"id":1}`)
	f.store.UpdateErr = errors.New("deadlock detected")

	resp := dispatch(t, d, `{"method":"PerformTransaction","params":{"id":"p-1","time":1},"id":7}`)
	assert.EqualValues(t, payme.CodeSystemError, errorCode(t, resp))
	assert.EqualValues(t, 7, resp["id"])
}

func TestDispatcher_RecoversFromPanics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// A service without a unit of work panics on first use.
	svc := NewService(config.Deps{Logger: logger}, WithLimits(Limits{MinAmount: 1, MaxAmount: 10}))
	d := NewDispatcher(svc, logger)

	resp := dispatch(t, d, `{"method":"CheckTransaction","params":{"id":"x"},"id":"req-9"}`)
	assert.EqualValues(t, payme.CodeSystemError, errorCode(t, resp))
	assert.Equal(t, "req-9", resp["id"])
}
