package ports

import (
	"context"

	"returns/internal/core/domain/model/driver"
	"returns/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
type DriverRepository interface {
	// Add persists a new driver aggregate to storage.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver aggregate.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Claim atomically records orderID as the driver's exclusive active
	// order. The write succeeds only while the driver has no active order;
	// a driver already carrying an assignment gets an error unwrapping to
	// driver.ErrDriverBusy. This conditional write, not the in-memory
	// aggregate guard, is what enforces one active order per driver when
	// the same driver accepts different orders concurrently.
	Claim(ctx context.Context, driverID, orderID kernel.UUID) error

	// Get retrieves a driver aggregate by its unique identifier.
	// Returns an error unwrapping to errs.ErrObjectNotFound when absent.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)
}
