package eventbus

import (
	"context"
)

// Event is anything that can be published on a Bus.
type Event interface {
	Type() string
}

// HandlerFunc handles a single event delivered by a Bus.
type HandlerFunc func(ctx context.Context, e Event) error

// Bus defines the contract for publishing and subscribing to domain events.
type Bus interface {
	Emit(ctx context.Context, event Event) error
	Register(eventType string, handler HandlerFunc)
}
