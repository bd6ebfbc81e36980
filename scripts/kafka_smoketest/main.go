package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/my-workj-ob/kelishamiz-backend-sub000/infra/eventbus"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/events"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/payment"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/eventbus"
)

// RunSmokeTest publishes one event of every lifecycle type through the
// Kafka event bus and waits until each comes back through its consumer.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9093,localhost:9092"
	}
	topic := strings.TrimSpace(os.Getenv("TOPIC"))
	if topic == "" {
		topic = "payme.transactions"
	}

	bus, err := infra_eventbus.NewWithKafka(brokers, logger, &infra_eventbus.KafkaEventBusConfig{
		GroupID:     fmt.Sprintf("payme-smoketest-%d", time.Now().UnixNano()),
		TopicPrefix: topic,
	})
	if err != nil {
		logger.Error("kafka unavailable", "error", err)
		return err
	}
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	received := make(chan string, len(events.EventTypes))
	for eventType := range events.EventTypes {
		bus.Register(eventType.String(), func(_ context.Context, e eventbus.Event) error {
			received <- e.Type()
			return nil
		})
	}

	now := time.Now()
	tx, err := payment.NewTransaction(fmt.Sprintf("smoke-%d", now.UnixNano()), 1, 100000, now.UnixMilli(), now)
	if err != nil {
		return err
	}
	base := events.NewTransactionEvent(tx, now)
	for _, e := range []eventbus.Event{
		&events.TransactionCreated{TransactionEvent: base},
		&events.TransactionPerformed{TransactionEvent: base},
		&events.TransactionCancelled{TransactionEvent: base},
	} {
		if err := bus.Emit(ctx, e); err != nil {
			logger.Error("emit failed", "event_type", e.Type(), "error", err)
			return err
		}
		logger.Info("produced", "event_type", e.Type())
	}

	for range events.EventTypes {
		select {
		case t := <-received:
			logger.Info("consumed", "event_type", t)
		case <-ctx.Done():
			logger.Error("timed out waiting for events", "error", ctx.Err())
			return ctx.Err()
		}
	}

	logger.Info("kafka smoke test passed")
	return nil
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
