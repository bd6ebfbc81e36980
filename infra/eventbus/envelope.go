package eventbus

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/domain/events"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/eventbus"
)

const defaultPrefix = "payme.events"

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func encodeEnvelope(event eventbus.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal failed: %w", err)
	}
	envBytes, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return nil, fmt.Errorf("envelope marshal failed: %w", err)
	}
	return envBytes, nil
}

func decodeEnvelope(raw []byte) (eventbus.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	constructor, ok := events.EventTypes[events.EventType(env.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
	evt := constructor()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		return nil, fmt.Errorf("unmarshal payload for %s: %w", env.Type, err)
	}
	return evt, nil
}

// streamNameFor maps payme.transaction.created to
// <prefix>:payme:transaction:created.
func streamNameFor(prefix, eventType string) string {
	return nameFor(prefix, ":", eventType)
}

func topicNameFor(prefix, eventType string) string {
	return nameFor(prefix, ".", eventType)
}

func dlqNameFor(name string) string {
	return name + "-DLQ"
}

func nameFor(prefix, sep, eventType string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	parts := strings.Split(strings.ToLower(eventType), ".")
	return prefix + sep + strings.Join(parts, sep)
}
