package queries

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order straight from the database,
// without going through the aggregate.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. A missing order yields ObjectNotFoundError.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tracking_number,
			customer_id,
			driver_id,
			pickup_address,
			retailer,
			boxes,
			distance_miles,
			rush,
			promo_code,
			tip,
			base_price,
			distance_fee,
			size_fee,
			multi_box_fee,
			discount,
			service_fee,
			rush_fee,
			total_price,
			status,
			payment_status,
			customer_paid,
			refunded_to_date,
			driver_earning,
			platform_fee,
			settled,
			needs_reconciliation,
			created_at,
			scheduled_pickup_at,
			actual_delivery_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id                                         uuid.UUID
		trackingNumber                             string
		customerID                                 uuid.UUID
		driverID                                   *uuid.UUID
		pickupAddress, retailer, boxes             string
		distanceMiles                              float64
		rush                                       bool
		promoCode                                  *string
		tip                                        decimal.Decimal
		basePrice, distanceFee, sizeFee            decimal.Decimal
		multiBoxFee, discount, serviceFee, rushFee decimal.Decimal
		totalPrice                                 decimal.Decimal
		status, paymentStatus                      string
		customerPaid, refundedToDate               decimal.Decimal
		driverEarning, platformFee                 decimal.Decimal
		settled, needsReconciliation               bool
		createdAt, updatedAt                       time.Time
		scheduledPickupAt, actualDeliveryAt        *time.Time
	)

	err := row.Scan(
		&id,
		&trackingNumber,
		&customerID,
		&driverID,
		&pickupAddress,
		&retailer,
		&boxes,
		&distanceMiles,
		&rush,
		&promoCode,
		&tip,
		&basePrice,
		&distanceFee,
		&sizeFee,
		&multiBoxFee,
		&discount,
		&serviceFee,
		&rushFee,
		&totalPrice,
		&status,
		&paymentStatus,
		&customerPaid,
		&refundedToDate,
		&driverEarning,
		&platformFee,
		&settled,
		&needsReconciliation,
		&createdAt,
		&scheduledPickupAt,
		&actualDeliveryAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	custID, err := kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	var driverRef *kernel.UUID
	if driverID != nil {
		dID, dErr := kernel.UUIDFromBytes((*driverID)[:])
		if dErr != nil {
			return GetOrderQueryResponse{}, dErr
		}
		driverRef = &dID
	}

	return GetOrderQueryResponse{
		ID:             orderID,
		TrackingNumber: trackingNumber,
		CustomerID:     custID,
		DriverID:       driverRef,
		PickupAddress:  pickupAddress,
		Retailer:       retailer,
		Boxes:          strings.Split(boxes, ","),
		DistanceMiles:  distanceMiles,
		Rush:           rush,
		PromoCode:      promoCode,
		Tip:            kernel.MoneyFromDecimal(tip),
		Price: PriceBreakdownResponse{
			BasePrice:   kernel.MoneyFromDecimal(basePrice),
			DistanceFee: kernel.MoneyFromDecimal(distanceFee),
			SizeFee:     kernel.MoneyFromDecimal(sizeFee),
			MultiBoxFee: kernel.MoneyFromDecimal(multiBoxFee),
			Discount:    kernel.MoneyFromDecimal(discount),
			ServiceFee:  kernel.MoneyFromDecimal(serviceFee),
			RushFee:     kernel.MoneyFromDecimal(rushFee),
			Total:       kernel.MoneyFromDecimal(totalPrice),
		},
		Status:              status,
		PaymentStatus:       paymentStatus,
		CustomerPaid:        kernel.MoneyFromDecimal(customerPaid),
		RefundedToDate:      kernel.MoneyFromDecimal(refundedToDate),
		DriverEarning:       kernel.MoneyFromDecimal(driverEarning),
		PlatformFee:         kernel.MoneyFromDecimal(platformFee),
		Settled:             settled,
		NeedsReconciliation: needsReconciliation,
		CreatedAt:           createdAt,
		ScheduledPickupAt:   scheduledPickupAt,
		ActualDeliveryAt:    actualDeliveryAt,
		UpdatedAt:           updatedAt,
	}, nil
}
