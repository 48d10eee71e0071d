package ports

import (
	"context"

	"github.com/board-system/board-api/internal/core/domain"
)

// EventPublisher delivers a domain event to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// EventDispatcher accepts events for asynchronous publication.
type EventDispatcher interface {
	Enqueue(event domain.Event)
}
