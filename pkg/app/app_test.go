package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	infraeventbus "github.com/my-workj-ob/kelishamiz-backend-sub000/infra/eventbus"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/internal/fixtures/memstore"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WiresServiceAndAuditLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	store := memstore.New()
	store.AddAccount(17, decimal.Zero)

	a := New(&Deps{
		Uow:      store,
		EventBus: infraeventbus.NewWithMemory(logger),
		Logger:   logger,
	}, &config.App{Payme: &config.Payme{MinAmount: 1000, MaxAmount: 10_000_000}})
	require.NotNil(t, a.Dispatcher)

	req, perr := payme.DecodeRequest([]byte(
		`{"method":"CreateTransaction","params":{"id":"p-1","time":1,"amount":5000,"account":{"user_id":"17"}},"id":1}`))
	require.Nil(t, perr)
	resp := a.Dispatcher.Dispatch(context.Background(), req)
	require.Nil(t, resp.Error)

	assert.Contains(t, buf.String(), "event_type=payme.transaction.created")
	assert.Contains(t, buf.String(), "provider_tx_id=p-1")
}
