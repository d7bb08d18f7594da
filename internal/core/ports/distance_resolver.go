package ports

import (
	"context"
	"errors"

	"returns/internal/core/domain/model/kernel"
)

// ErrPricingUnavailable indicates the distance between pickup and dropoff
// could not be resolved. Order creation must not proceed on this error
// because the price cannot be computed.
var ErrPricingUnavailable = errors.New("pricing unavailable: distance could not be resolved")

// DistanceResolver is the outbound port to the geocoding/distance provider.
type DistanceResolver interface {
	// ResolveMiles returns the driving distance in miles between the pickup
	// address and the retailer dropoff. Failures surface as errors
	// unwrapping to ErrPricingUnavailable.
	ResolveMiles(ctx context.Context, pickupAddress string, dropoffAddress string) (float64, error)

	// Geocode resolves a street address to coordinates, used to anchor the
	// order's pickup location for the available-pool distance ordering.
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}
