package queries

import (
	"errors"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full detail of a single order, including the
// frozen price breakdown, payment state, and settlement figures.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the order with the given ID.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the ID of the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// PriceBreakdownResponse itemizes the frozen price of an order.
type PriceBreakdownResponse struct {
	BasePrice   kernel.Money
	DistanceFee kernel.Money
	SizeFee     kernel.Money
	MultiBoxFee kernel.Money
	Discount    kernel.Money
	ServiceFee  kernel.Money
	RushFee     kernel.Money
	Total       kernel.Money
}

// GetOrderQueryResponse is the full read model of one order.
type GetOrderQueryResponse struct {
	ID             kernel.UUID
	TrackingNumber string
	CustomerID     kernel.UUID
	DriverID       *kernel.UUID
	PickupAddress  string
	Retailer       string
	Boxes          []string
	DistanceMiles  float64
	Rush           bool
	PromoCode      *string
	Tip            kernel.Money

	Price PriceBreakdownResponse

	Status        string
	PaymentStatus string

	CustomerPaid   kernel.Money
	RefundedToDate kernel.Money

	DriverEarning       kernel.Money
	PlatformFee         kernel.Money
	Settled             bool
	NeedsReconciliation bool

	CreatedAt         time.Time
	ScheduledPickupAt *time.Time
	ActualDeliveryAt  *time.Time
	UpdatedAt         time.Time
}
