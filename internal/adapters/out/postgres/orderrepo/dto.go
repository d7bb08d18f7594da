// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, including the optimistic version check and the atomic
// compare-and-swap used for driver acceptance.
package orderrepo

import (
	"strings"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Monetary amounts are stored as numeric(12,2); the box sizes are stored as a
// comma-separated list of tier names. The partial index on (status, driver_id)
// serves the available pool query.
type OrderDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingNumber string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	DriverID       *uuid.UUID `gorm:"type:uuid;index"`

	PickupAddress string  `gorm:"type:varchar(512);not null"`
	Retailer      string  `gorm:"type:varchar(255);not null"`
	PickupLat     float64 `gorm:"type:double precision;not null"`
	PickupLon     float64 `gorm:"type:double precision;not null"`

	Boxes         string  `gorm:"type:varchar(255);not null"`
	DistanceMiles float64 `gorm:"type:double precision;not null"`
	Rush          bool
	PromoCode     *string         `gorm:"type:varchar(64)"`
	Tip           decimal.Decimal `gorm:"type:numeric(12,2)"`

	BasePrice   decimal.Decimal `gorm:"type:numeric(12,2)"`
	DistanceFee decimal.Decimal `gorm:"type:numeric(12,2)"`
	SizeFee     decimal.Decimal `gorm:"type:numeric(12,2)"`
	MultiBoxFee decimal.Decimal `gorm:"type:numeric(12,2)"`
	Discount    decimal.Decimal `gorm:"type:numeric(12,2)"`
	ServiceFee  decimal.Decimal `gorm:"type:numeric(12,2)"`
	RushFee     decimal.Decimal `gorm:"type:numeric(12,2)"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2)"`

	Status        string `gorm:"type:varchar(32);index;not null"`
	PaymentStatus string `gorm:"type:varchar(32);not null"`

	PaymentIntentID string          `gorm:"type:varchar(255)"`
	CustomerPaid    decimal.Decimal `gorm:"type:numeric(12,2)"`
	RefundedToDate  decimal.Decimal `gorm:"type:numeric(12,2)"`

	DriverEarning       decimal.Decimal `gorm:"type:numeric(12,2)"`
	PlatformFee         decimal.Decimal `gorm:"type:numeric(12,2)"`
	Settled             bool
	NeedsReconciliation bool

	Version int64 `gorm:"not null"`

	CreatedAt         time.Time `gorm:"not null"`
	ScheduledPickupAt *time.Time
	ActualPickupAt    *time.Time
	ActualDeliveryAt  *time.Time
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	price := aggregate.Price()

	return OrderDTO{
		ID:             aggregate.ID().Bytes(),
		TrackingNumber: aggregate.TrackingNumber(),
		CustomerID:     aggregate.CustomerID().Bytes(),
		DriverID:       driverID,

		PickupAddress: aggregate.PickupAddress(),
		Retailer:      aggregate.Retailer(),
		PickupLat:     aggregate.PickupLocation().Latitude(),
		PickupLon:     aggregate.PickupLocation().Longitude(),

		Boxes:         boxesToColumn(aggregate.Boxes()),
		DistanceMiles: aggregate.DistanceMiles(),
		Rush:          aggregate.Rush(),
		PromoCode:     aggregate.PromoCode(),
		Tip:           aggregate.Tip().Decimal(),

		BasePrice:   price.BasePrice.Decimal(),
		DistanceFee: price.DistanceFee.Decimal(),
		SizeFee:     price.SizeFee.Decimal(),
		MultiBoxFee: price.MultiBoxFee.Decimal(),
		Discount:    price.Discount.Decimal(),
		ServiceFee:  price.ServiceFee.Decimal(),
		RushFee:     price.RushFee.Decimal(),
		TotalPrice:  price.Total.Decimal(),

		Status:        aggregate.Status().String(),
		PaymentStatus: aggregate.PaymentStatus().String(),

		PaymentIntentID: aggregate.PaymentIntentID(),
		CustomerPaid:    aggregate.CustomerPaid().Decimal(),
		RefundedToDate:  aggregate.RefundedToDate().Decimal(),

		DriverEarning:       aggregate.DriverEarning().Decimal(),
		PlatformFee:         aggregate.PlatformFee().Decimal(),
		Settled:             aggregate.Settled(),
		NeedsReconciliation: aggregate.NeedsReconciliation(),

		Version: aggregate.Version(),

		CreatedAt:         aggregate.CreatedAt(),
		ScheduledPickupAt: aggregate.ScheduledPickupAt(),
		ActualPickupAt:    aggregate.ActualPickupAt(),
		ActualDeliveryAt:  aggregate.ActualDeliveryAt(),
		UpdatedAt:         aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder, which re-validates the stored state.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	pickupLocation, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLon)
	if err != nil {
		return nil, err
	}

	boxes, err := boxesFromColumn(dto.Boxes)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:             id,
		TrackingNumber: dto.TrackingNumber,
		CustomerID:     customerID,
		DriverID:       driverID,
		PickupAddress:  dto.PickupAddress,
		Retailer:       dto.Retailer,
		PickupLocation: pickupLocation,
		Boxes:          boxes,
		DistanceMiles:  dto.DistanceMiles,
		Rush:           dto.Rush,
		PromoCode:      dto.PromoCode,
		Tip:            kernel.MoneyFromDecimal(dto.Tip),
		Price: order.PriceBreakdown{
			BasePrice:   kernel.MoneyFromDecimal(dto.BasePrice),
			DistanceFee: kernel.MoneyFromDecimal(dto.DistanceFee),
			SizeFee:     kernel.MoneyFromDecimal(dto.SizeFee),
			MultiBoxFee: kernel.MoneyFromDecimal(dto.MultiBoxFee),
			Discount:    kernel.MoneyFromDecimal(dto.Discount),
			ServiceFee:  kernel.MoneyFromDecimal(dto.ServiceFee),
			RushFee:     kernel.MoneyFromDecimal(dto.RushFee),
			Total:       kernel.MoneyFromDecimal(dto.TotalPrice),
		},
		Status:              status,
		PaymentStatus:       paymentStatus,
		PaymentIntentID:     dto.PaymentIntentID,
		CustomerPaid:        kernel.MoneyFromDecimal(dto.CustomerPaid),
		RefundedToDate:      kernel.MoneyFromDecimal(dto.RefundedToDate),
		DriverEarning:       kernel.MoneyFromDecimal(dto.DriverEarning),
		PlatformFee:         kernel.MoneyFromDecimal(dto.PlatformFee),
		Settled:             dto.Settled,
		NeedsReconciliation: dto.NeedsReconciliation,
		Version:             dto.Version,
		CreatedAt:           dto.CreatedAt,
		ScheduledPickupAt:   dto.ScheduledPickupAt,
		ActualPickupAt:      dto.ActualPickupAt,
		ActualDeliveryAt:    dto.ActualDeliveryAt,
		UpdatedAt:           dto.UpdatedAt,
	})
}

// boxesToColumn serializes box sizes as a comma-separated list ("M,L,XL").
func boxesToColumn(boxes []order.BoxSize) string {
	names := make([]string, 0, len(boxes))
	for _, b := range boxes {
		names = append(names, b.String())
	}
	return strings.Join(names, ",")
}

// boxesFromColumn parses the comma-separated box size list.
func boxesFromColumn(column string) ([]order.BoxSize, error) {
	parts := strings.Split(column, ",")
	boxes := make([]order.BoxSize, 0, len(parts))
	for _, part := range parts {
		box, err := order.BoxSizeFromString(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}
	return boxes, nil
}
