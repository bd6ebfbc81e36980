package initializer

import (
	"fmt"
	"log/slog"
	"strings"

	infra_eventbus "github.com/my-workj-ob/kelishamiz-backend-sub000/infra/eventbus"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/eventbus"
)

// initEventBus selects the lifecycle event bus. Misconfiguration is an
// error; an unreachable broker falls back to the in-memory bus so that
// payment callbacks keep being served.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	ebCfg := cfg.EventBus
	if ebCfg == nil {
		ebCfg = &config.EventBus{}
	}

	switch driver := strings.ToLower(strings.TrimSpace(ebCfg.Driver)); driver {
	case "", "memory":
		return infra_eventbus.NewWithMemory(logger), nil

	case "redis":
		url := ebCfg.RedisURL
		if url == "" && cfg.Redis != nil {
			url = cfg.Redis.URL
		}
		if url == "" {
			return nil, fmt.Errorf("event bus driver redis requires EVENT_BUS_REDIS_URL or REDIS_URL")
		}
		bus, err := infra_eventbus.NewWithRedis(url, ebCfg.Topic, groupID(ebCfg), logger, redisClientOptions(cfg.Redis)...)
		if err != nil {
			logger.Warn("Redis event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil

	case "kafka":
		if strings.TrimSpace(ebCfg.KafkaBrokers) == "" {
			return nil, fmt.Errorf("event bus driver kafka requires EVENT_BUS_KAFKA_BROKERS")
		}
		bus, err := infra_eventbus.NewWithKafka(ebCfg.KafkaBrokers, logger, &infra_eventbus.KafkaEventBusConfig{
			GroupID:     groupID(ebCfg),
			TopicPrefix: ebCfg.Topic,
		})
		if err != nil {
			logger.Warn("Kafka event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil

	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", driver)
	}
}

func redisClientOptions(cfg *config.Redis) []infra_eventbus.RedisOption {
	if cfg == nil {
		return nil
	}
	return []infra_eventbus.RedisOption{
		infra_eventbus.WithRedisPoolSize(cfg.PoolSize),
		infra_eventbus.WithRedisTimeouts(cfg.DialTimeout, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func groupID(cfg *config.EventBus) string {
	if cfg.GroupID != "" {
		return cfg.GroupID
	}
	return "payme-engine"
}
