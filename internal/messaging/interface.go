package messaging

import "context"

// EventPublisher defines the contract for event publishing.
// This allows for easy mocking in tests.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, eventData interface{}) error
	Close() error
}

// Ensure Publisher implements EventPublisher
var _ EventPublisher = (*Publisher)(nil)
