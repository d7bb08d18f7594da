package ports

import (
	"context"

	"returns/internal/core/domain/model/order"
)

// EventPublisher is the outbound port for domain events. Status change events
// are published after the owning transaction commits; publish failures are
// logged and never roll back the state change.
type EventPublisher interface {
	// PublishStatusChanged emits the given status change events in order.
	PublishStatusChanged(ctx context.Context, events []order.StatusChangedEvent) error
}
