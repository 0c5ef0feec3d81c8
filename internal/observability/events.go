package observability

import (
	"context"

	"go.uber.org/zap"
)

// EventBus publishes orchestration events through the structured logger.
type EventBus struct{}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Publish publishes an event with the given type and data.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]any) {
	logger := FromContext(ctx)

	fields := make([]zap.Field, 0, len(data))
	for k, v := range data {
		fields = append(fields, zap.Any(k, v))
	}

	logger.Info(eventType, fields...)
}
