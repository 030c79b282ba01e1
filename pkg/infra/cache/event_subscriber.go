package cache

import (
	"context"
)

// EventSubscriber reacts to one concrete event type delivered by an
// EventListener.
type EventSubscriber[T any] interface {
	OnEvent(ctx context.Context, ev T) error
}
