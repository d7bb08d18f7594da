// Package queries contains read-only operations of the CQRS architecture.
// Query handlers read directly from the database, bypassing aggregates and
// the unit of work, and return plain response structs.
package queries

import (
	"errors"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/guard"
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// defaultServiceRadiusMiles bounds how far from a driver the available pool
// reaches when the caller does not override the radius.
const defaultServiceRadiusMiles = 25.0

// GetAvailableOrdersQuery retrieves the assignable pool for a driver:
// confirmed orders without a driver, within the service radius of the
// driver's position, nearest first.
//
// Example:
//
//	query, err := NewGetAvailableOrdersQuery(driverLocation, 0)
//	if err != nil {
//	    return err
//	}
//	available, err := handler.Handle(ctx, query)
type GetAvailableOrdersQuery struct { //nolint:recvcheck //using for validation
	driverLocation kernel.GeoPoint
	radiusMiles    float64

	guard guard.ConstructorGuard
}

// NewGetAvailableOrdersQuery creates a query for the available pool around
// the given driver position. A non-positive radius selects the default
// service radius.
func NewGetAvailableOrdersQuery(driverLocation kernel.GeoPoint, radiusMiles float64) (GetAvailableOrdersQuery, error) {
	if err := driverLocation.Validate(); err != nil {
		return GetAvailableOrdersQuery{}, err
	}
	if radiusMiles <= 0 {
		radiusMiles = defaultServiceRadiusMiles
	}

	return GetAvailableOrdersQuery{
		driverLocation: driverLocation,
		radiusMiles:    radiusMiles,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

// DriverLocation returns the position the pool is centered on.
func (q GetAvailableOrdersQuery) DriverLocation() kernel.GeoPoint {
	return q.driverLocation
}

// RadiusMiles returns the effective service radius.
func (q GetAvailableOrdersQuery) RadiusMiles() float64 {
	return q.radiusMiles
}

// GetAvailableOrdersQueryResponse is one assignable order as shown to a
// browsing driver.
type GetAvailableOrdersQueryResponse struct {
	ID             kernel.UUID
	TrackingNumber string
	PickupAddress  string
	Retailer       string
	BoxCount       int
	Rush           bool
	Total          kernel.Money
	DistanceMiles  float64
	CreatedAt      time.Time
}
