package initializer

import (
	"io"
	"log/slog"
	"testing"
	"time"

	infra_eventbus "github.com/my-workj-ob/kelishamiz-backend-sub000/infra/eventbus"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitEventBus_DefaultsToMemoryWhenNoExplicitDriver(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.App{
		Redis:    &config.Redis{URL: "redis://localhost:6379/0"},
		EventBus: &config.EventBus{Driver: ""},
	}

	bus, err := initEventBus(cfg, logger)
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_NilConfigDefaultsToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	bus, err := initEventBus(&config.App{}, logger)
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_ExplicitRedisRequiresURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.App{
		Redis:    &config.Redis{URL: ""},
		EventBus: &config.EventBus{Driver: "redis", RedisURL: ""},
	}

	_, err := initEventBus(cfg, logger)
	require.Error(t, err)
}

func TestInitEventBus_RedisConnectionErrorFallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "redis", RedisURL: "redis://127.0.0.1:1"},
	}

	bus, err := initEventBus(cfg, logger)
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_ExplicitKafkaRequiresBrokers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "kafka", KafkaBrokers: ""},
	}

	_, err := initEventBus(cfg, logger)
	require.Error(t, err)
}

func TestInitEventBus_KafkaConnectionErrorFallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "kafka", KafkaBrokers: "127.0.0.1:1"},
	}

	bus, err := initEventBus(cfg, logger)
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_UnsupportedDriverErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "nope"},
	}

	_, err := initEventBus(cfg, logger)
	require.Error(t, err)
}

func TestRedisClientOptions_AppliesConfig(t *testing.T) {
	cfg := &config.Redis{
		URL:          "redis://localhost:6379/0",
		PoolSize:     7,
		DialTimeout:  4 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: time.Second,
	}

	opt := &redis.Options{}
	for _, apply := range redisClientOptions(cfg) {
		apply(opt)
	}
	assert.Equal(t, 7, opt.PoolSize)
	assert.Equal(t, 4*time.Second, opt.DialTimeout)
	assert.Equal(t, 2*time.Second, opt.ReadTimeout)
	assert.Equal(t, time.Second, opt.WriteTimeout)

	assert.Empty(t, redisClientOptions(nil))
}
