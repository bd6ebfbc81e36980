package reconciliation

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/infra/eventbus"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/internal/fixtures/memstore"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testAccountID = 17
	testMinAmount = 1000
	testMaxAmount = 10_000_000
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	svc   *Service
	store *memstore.Store
	bus   *eventbus.MemoryEventBus
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()
	store.AddAccount(testAccountID, decimal.NewFromInt(250))
	bus := eventbus.NewWithMemory(logger)
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}

	svc := NewService(config.Deps{
		Uow:      store,
		EventBus: bus,
		Logger:   logger,
		Config: &config.App{Payme: &config.Payme{
			MinAmount: testMinAmount,
			MaxAmount: testMaxAmount,
		}},
	}, WithClock(clock.Now))

	return &fixture{svc: svc, store: store, bus: bus, clock: clock}
}

func params[T any](t *testing.T, raw string) *T {
	t.Helper()
	p, perr := payme.DecodeParams[T](json.RawMessage(raw))
	require.Nil(t, perr)
	return p
}

func requirePaymeError(t *testing.T, err error, code int) *payme.Error {
	t.Helper()
	require.Error(t, err)
	var pe *payme.Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, code, pe.Code)
	return pe
}
