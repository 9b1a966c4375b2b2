// Package subscriber abstracts the message transport that delivers
// telemetry events. The daemon only ever consumes; publishing lives with
// the meters (and the simulate tool).
package subscriber

import (
	"context"
)

// MessageHandler is a function that processes incoming messages. Handlers
// for a given subscriber are invoked one message at a time, in arrival
// order.
type MessageHandler func(ctx context.Context, topic string, data []byte) error

// Subscriber defines the interface for message subscription
type Subscriber interface {
	// Subscribe subscribes to a topic with the given handler
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error

	// Unsubscribe unsubscribes from a topic
	Unsubscribe(topic string) error

	// Close closes the subscriber and releases resources
	Close() error
}
