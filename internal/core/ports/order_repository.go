// Package ports defines the contracts between the core of the returns
// marketplace and its infrastructure adapters. Repository interfaces cover
// persistence, the remaining ports cover the payment processor, the distance
// provider, and event publishing, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Concurrency model: every mutation is per-order and conditional. Update uses
// an optimistic version check and Accept uses a compare-and-swap on the
// (status, driver) pair, so concurrent writers against the same order never
// silently overwrite each other.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, guarded by the
	// aggregate's version. Returns an error unwrapping to
	// errs.ErrVersionConflict when the stored version moved since the
	// aggregate was loaded.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns an error unwrapping to errs.ErrObjectNotFound when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByTrackingNumber retrieves an order by its customer-facing tracking
	// number.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*order.Order, error)

	// GetAvailable retrieves the assignable pool: orders in confirmed status
	// with no driver, oldest first. Distance filtering and ordering happen
	// in the caller because they depend on the requesting driver's location.
	GetAvailable(ctx context.Context) ([]*order.Order, error)

	// Accept atomically claims the order for the given driver. Succeeds only
	// if the stored row still has confirmed status and no driver; exactly one
	// concurrent caller wins. Losers receive an error unwrapping to
	// order.ErrAlreadyAssigned.
	Accept(ctx context.Context, orderID kernel.UUID, driverID kernel.UUID) (*order.Order, error)
}
