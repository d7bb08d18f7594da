package queries

import (
	"context"
	"sort"
	"strings"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetAvailableOrdersQueryHandler retrieves the assignable pool from the
// database and orders it for the requesting driver.
//
// The status/driver filter runs in SQL over the partial index on the pool;
// the distance from the driver is computed in the handler because it depends
// on the caller's position, then used to filter by radius and sort
// (ascending distance, createdAt as the tie-break).
type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableOrdersQueryHandler creates a handler for available pool queries.
func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

// Handle executes the query and returns the pool nearest-first.
func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) ([]GetAvailableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	responses := make([]GetAvailableOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tracking_number,
			pickup_address,
			retailer,
			pickup_lat,
			pickup_lon,
			boxes,
			rush,
			total_price,
			created_at
		FROM orders
		WHERE status = ? AND driver_id IS NULL
		ORDER BY created_at
	`, order.StatusConfirmed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id             uuid.UUID
			trackingNumber string
			pickupAddress  string
			retailer       string
			lat, lon       float64
			boxes          string
			rush           bool
			total          decimal.Decimal
			createdAt      time.Time
		)

		if err = rows.Scan(
			&id,
			&trackingNumber,
			&pickupAddress,
			&retailer,
			&lat,
			&lon,
			&boxes,
			&rush,
			&total,
			&createdAt,
		); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		pickup, locErr := kernel.NewGeoPoint(lat, lon)
		if locErr != nil {
			return nil, locErr
		}

		distance := query.DriverLocation().DistanceMilesTo(pickup)
		if distance > query.RadiusMiles() {
			continue
		}

		responses = append(responses, GetAvailableOrdersQueryResponse{
			ID:             orderID,
			TrackingNumber: trackingNumber,
			PickupAddress:  pickupAddress,
			Retailer:       retailer,
			BoxCount:       len(strings.Split(boxes, ",")),
			Rush:           rush,
			Total:          kernel.MoneyFromDecimal(total),
			DistanceMiles:  distance,
			CreatedAt:      createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(responses, func(i, j int) bool {
		if responses[i].DistanceMiles != responses[j].DistanceMiles {
			return responses[i].DistanceMiles < responses[j].DistanceMiles
		}
		return responses[i].CreatedAt.Before(responses[j].CreatedAt)
	})

	return responses, nil
}
