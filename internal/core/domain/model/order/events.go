package order

import (
	"time"

	"returns/internal/core/domain/model/kernel"
)

// StatusChangedEvent is emitted for every successful lifecycle transition.
// Events are collected on the aggregate during a unit of work and published
// after commit; downstream consumers (notification dispatcher etc.) react to
// them outside this engine.
type StatusChangedEvent struct {
	OrderID kernel.UUID
	From    Status
	To      Status
	At      time.Time
}
