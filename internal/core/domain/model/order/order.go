package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"
	"returns/internal/pkg/guard"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrAlreadyAssigned is returned when a driver tries to accept an order
	// that already has a driver. Maps to HTTP 409 at the boundary.
	ErrAlreadyAssigned = errors.New("order is already assigned to a driver")

	// ErrNotAssigned is returned when unassigning an order that has no driver.
	ErrNotAssigned = errors.New("order has no assigned driver")

	// ErrRefundExceedsBalance is returned when a refund request exceeds the
	// refundable balance (customerPaid - refundedToDate).
	ErrRefundExceedsBalance = errors.New("refund amount exceeds refundable balance")

	// ErrRefundInFlight is returned when requesting a refund while a previous
	// refund is still awaiting a terminal processor response.
	ErrRefundInFlight = errors.New("a refund is already being processed for this order")

	// ErrNotCharged is returned when requesting a refund against an order
	// whose charge never completed.
	ErrNotCharged = errors.New("order has no completed charge to refund")
)

// Order is the aggregate root of the pickup/return lifecycle. It owns the
// status state machine, the frozen price breakdown, driver assignment,
// settlement figures, and refund bookkeeping.
//
// Invariants maintained by the aggregate:
//   - status only ever changes along the transition table in status.go
//   - at most one non-nil driver reference at a time
//   - the price breakdown is frozen at construction and never recomputed
//   - refundedToDate never exceeds customerPaid
//   - settlement fields are populated only on the delivered -> completed edge
//
// All mutating methods validate against the currently held state; persistence
// adapters additionally guard against lost updates with a version check, so a
// stale aggregate can never blindly overwrite a newer one.
type Order struct {
	id             kernel.UUID
	trackingNumber string
	customerID     kernel.UUID
	driverID       *kernel.UUID

	pickupAddress  string
	retailer       string
	pickupLocation kernel.GeoPoint

	boxes         []BoxSize
	distanceMiles float64
	rush          bool
	promoCode     *string
	tip           kernel.Money

	price PriceBreakdown

	status        Status
	paymentStatus PaymentStatus

	paymentIntentID string
	customerPaid    kernel.Money
	refundedToDate  kernel.Money

	driverEarning       kernel.Money
	platformFee         kernel.Money
	settled             bool
	needsReconciliation bool

	version int64

	createdAt         time.Time
	scheduledPickupAt *time.Time
	actualPickupAt    *time.Time
	actualDeliveryAt  *time.Time
	updatedAt         time.Time

	events []StatusChangedEvent

	guard guard.ConstructorGuard
}

// NewOrderParams carries the attributes needed to book a new order.
// The price breakdown must already be computed (and therefore frozen) by the
// pricing calculator before the aggregate is constructed.
type NewOrderParams struct {
	ID             kernel.UUID
	CustomerID     kernel.UUID
	PickupAddress  string
	Retailer       string
	PickupLocation kernel.GeoPoint
	Boxes          []BoxSize
	DistanceMiles  float64
	Rush           bool
	PromoCode      *string
	Tip            kernel.Money
	Price          PriceBreakdown
	Now            time.Time
}

// NewOrder creates a freshly booked order in created status with a pending
// payment. The tracking number is derived from the order ID.
func NewOrder(p NewOrderParams) (*Order, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.CustomerID.Validate(),
		p.PickupLocation.Validate(),
		p.Price.Validate(),
		validateAddress(p.PickupAddress),
		validateRetailer(p.Retailer),
		validateBoxes(p.Boxes),
		validateDistance(p.DistanceMiles),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:             p.ID,
		trackingNumber: trackingNumberFor(p.ID),
		customerID:     p.CustomerID,
		pickupAddress:  p.PickupAddress,
		retailer:       p.Retailer,
		pickupLocation: p.PickupLocation,
		boxes:          append([]BoxSize(nil), p.Boxes...),
		distanceMiles:  p.DistanceMiles,
		rush:           p.Rush,
		promoCode:      p.PromoCode,
		tip:            p.Tip,
		price:          p.Price,
		status:         StatusCreated,
		paymentStatus:  PaymentPending,
		createdAt:      p.Now,
		updatedAt:      p.Now,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// RestoreOrderParams carries the full persisted state of an order.
type RestoreOrderParams struct {
	ID                  kernel.UUID
	TrackingNumber      string
	CustomerID          kernel.UUID
	DriverID            *kernel.UUID
	PickupAddress       string
	Retailer            string
	PickupLocation      kernel.GeoPoint
	Boxes               []BoxSize
	DistanceMiles       float64
	Rush                bool
	PromoCode           *string
	Tip                 kernel.Money
	Price               PriceBreakdown
	Status              Status
	PaymentStatus       PaymentStatus
	PaymentIntentID     string
	CustomerPaid        kernel.Money
	RefundedToDate      kernel.Money
	DriverEarning       kernel.Money
	PlatformFee         kernel.Money
	Settled             bool
	NeedsReconciliation bool
	Version             int64
	CreatedAt           time.Time
	ScheduledPickupAt   *time.Time
	ActualPickupAt      *time.Time
	ActualDeliveryAt    *time.Time
	UpdatedAt           time.Time
}

// RestoreOrder reconstructs an order aggregate from persistence, validating
// the stored state against the same invariants NewOrder enforces.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.CustomerID.Validate(),
		p.Status.Validate(),
		p.PaymentStatus.Validate(),
		p.PickupLocation.Validate(),
		validateBoxes(p.Boxes),
		validateDistance(p.DistanceMiles),
	); err != nil {
		return nil, err
	}
	if p.DriverID != nil {
		if err := p.DriverID.Validate(); err != nil {
			return nil, err
		}
	}
	if p.RefundedToDate.GreaterThan(p.CustomerPaid) {
		return nil, errs.NewValueIsInvalidError("refundedToDate exceeds customerPaid")
	}

	return &Order{
		id:                  p.ID,
		trackingNumber:      p.TrackingNumber,
		customerID:          p.CustomerID,
		driverID:            p.DriverID,
		pickupAddress:       p.PickupAddress,
		retailer:            p.Retailer,
		pickupLocation:      p.PickupLocation,
		boxes:               append([]BoxSize(nil), p.Boxes...),
		distanceMiles:       p.DistanceMiles,
		rush:                p.Rush,
		promoCode:           p.PromoCode,
		tip:                 p.Tip,
		price:               p.Price,
		status:              p.Status,
		paymentStatus:       p.PaymentStatus,
		paymentIntentID:     p.PaymentIntentID,
		customerPaid:        p.CustomerPaid,
		refundedToDate:      p.RefundedToDate,
		driverEarning:       p.DriverEarning,
		platformFee:         p.PlatformFee,
		settled:             p.Settled,
		needsReconciliation: p.NeedsReconciliation,
		version:             p.Version,
		createdAt:           p.CreatedAt,
		scheduledPickupAt:   p.ScheduledPickupAt,
		actualPickupAt:      p.ActualPickupAt,
		actualDeliveryAt:    p.ActualDeliveryAt,
		updatedAt:           p.UpdatedAt,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Order was created via NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// Accessors.

func (o *Order) ID() kernel.UUID                 { return o.id }
func (o *Order) TrackingNumber() string          { return o.trackingNumber }
func (o *Order) CustomerID() kernel.UUID         { return o.customerID }
func (o *Order) Driver() *kernel.UUID            { return o.driverID }
func (o *Order) PickupAddress() string           { return o.pickupAddress }
func (o *Order) Retailer() string                { return o.retailer }
func (o *Order) PickupLocation() kernel.GeoPoint { return o.pickupLocation }
func (o *Order) Boxes() []BoxSize                { return append([]BoxSize(nil), o.boxes...) }
func (o *Order) DistanceMiles() float64          { return o.distanceMiles }
func (o *Order) Rush() bool                      { return o.rush }
func (o *Order) PromoCode() *string              { return o.promoCode }
func (o *Order) Tip() kernel.Money               { return o.tip }
func (o *Order) Price() PriceBreakdown           { return o.price }
func (o *Order) Status() Status                  { return o.status }
func (o *Order) PaymentStatus() PaymentStatus    { return o.paymentStatus }
func (o *Order) PaymentIntentID() string         { return o.paymentIntentID }
func (o *Order) CustomerPaid() kernel.Money      { return o.customerPaid }
func (o *Order) RefundedToDate() kernel.Money    { return o.refundedToDate }
func (o *Order) DriverEarning() kernel.Money     { return o.driverEarning }
func (o *Order) PlatformFee() kernel.Money       { return o.platformFee }
func (o *Order) Settled() bool                   { return o.settled }
func (o *Order) NeedsReconciliation() bool       { return o.needsReconciliation }
func (o *Order) Version() int64                  { return o.version }
func (o *Order) CreatedAt() time.Time            { return o.createdAt }
func (o *Order) ScheduledPickupAt() *time.Time   { return o.scheduledPickupAt }
func (o *Order) ActualPickupAt() *time.Time      { return o.actualPickupAt }
func (o *Order) ActualDeliveryAt() *time.Time    { return o.actualDeliveryAt }
func (o *Order) UpdatedAt() time.Time            { return o.updatedAt }

// RefundableBalance returns customerPaid - refundedToDate.
func (o *Order) RefundableBalance() kernel.Money {
	return o.customerPaid.Sub(o.refundedToDate)
}

// Events returns the lifecycle events accumulated since construction or the
// last ClearEvents call.
func (o *Order) Events() []StatusChangedEvent {
	return append([]StatusChangedEvent(nil), o.events...)
}

// ClearEvents discards accumulated events after they have been published.
func (o *Order) ClearEvents() {
	o.events = nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// transition applies a status change through the transition table, recording
// a StatusChangedEvent on success. Illegal transitions leave the order
// unmodified.
func (o *Order) transition(target Status, at time.Time) error {
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.events = append(o.events, StatusChangedEvent{
		OrderID: o.id,
		From:    o.status,
		To:      next,
		At:      at,
	})
	o.status = next
	o.updatedAt = at
	return nil
}

// Confirm moves a booked order into the assignable pool.
func (o *Order) Confirm(at time.Time) error {
	return o.transition(StatusConfirmed, at)
}

// Cancel terminates the order before pickup.
func (o *Order) Cancel(at time.Time) error {
	return o.transition(StatusCancelled, at)
}

// Assign gives the order to a driver. It succeeds only from confirmed status
// with no driver attached; a second concurrent acceptor receives
// ErrAlreadyAssigned. Note that the persistence layer performs the
// authoritative compare-and-swap; this method guards in-memory use.
func (o *Order) Assign(driverID kernel.UUID, at time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID != nil || o.status == StatusAssigned {
		return ErrAlreadyAssigned
	}
	if err := o.transition(StatusAssigned, at); err != nil {
		return err
	}

	o.driverID = &driverID
	return nil
}

// Unassign releases the driver and returns the order to the assignable pool.
// Valid from assigned and pickup_scheduled; any scheduled pickup window is
// discarded.
func (o *Order) Unassign(at time.Time) error {
	if o.driverID == nil {
		return ErrNotAssigned
	}
	if err := o.transition(StatusConfirmed, at); err != nil {
		return err
	}

	o.driverID = nil
	o.scheduledPickupAt = nil
	return nil
}

// SchedulePickup records the agreed pickup window.
func (o *Order) SchedulePickup(pickupAt time.Time, at time.Time) error {
	if err := o.transition(StatusPickupScheduled, at); err != nil {
		return err
	}

	o.scheduledPickupAt = &pickupAt
	return nil
}

// MarkPickedUp records that the driver collected the package and the realized
// pickup time that the settlement formula depends on. An order may take the
// assigned -> picked_up edge without ever scheduling a window, so settlement
// must never rely on scheduledPickupAt.
func (o *Order) MarkPickedUp(at time.Time) error {
	if err := o.transition(StatusPickedUp, at); err != nil {
		return err
	}

	o.actualPickupAt = &at
	return nil
}

// MarkInTransit records that the package is on its way to the retailer.
func (o *Order) MarkInTransit(at time.Time) error {
	return o.transition(StatusInTransit, at)
}

// MarkDelivered records arrival at the retailer and the realized delivery time
// that the settlement formula depends on.
func (o *Order) MarkDelivered(at time.Time) error {
	if err := o.transition(StatusDelivered, at); err != nil {
		return err
	}

	o.actualDeliveryAt = &at
	return nil
}

// RefuseReturn terminates the order because the retailer refused the package.
func (o *Order) RefuseReturn(at time.Time) error {
	return o.transition(StatusReturnRefused, at)
}

// Complete settles the order: it fixes the driver earning and platform fee
// computed by the settlement engine and moves delivered -> completed. This is
// the only place settlement figures are ever written.
func (o *Order) Complete(driverEarning, platformFee kernel.Money, at time.Time) error {
	if err := o.transition(StatusCompleted, at); err != nil {
		return err
	}

	o.driverEarning = driverEarning
	o.platformFee = platformFee
	o.settled = true
	return nil
}

// MarkCharged records a successful charge of the frozen total.
func (o *Order) MarkCharged(paymentIntentID string, amount kernel.Money) error {
	if paymentIntentID == "" {
		return errs.NewValueIsRequiredError("paymentIntentID")
	}

	o.paymentIntentID = paymentIntentID
	o.customerPaid = amount
	o.paymentStatus = PaymentCompleted
	return nil
}

// MarkChargeFailed records a terminally declined charge.
func (o *Order) MarkChargeFailed() {
	o.paymentStatus = PaymentFailed
}

// RequestRefund validates a refund request against the refundable balance and
// moves the payment status to refund_processing. The actual processor
// submission happens outside the aggregate; the status is resolved only by
// ApplyRefundSuccess or ApplyRefundFailure once the processor answers
// terminally.
func (o *Order) RequestRefund(amount kernel.Money) error {
	if amount.IsNegative() || amount.IsZero() {
		return errs.NewValueIsInvalidError("refund amount must be positive")
	}
	if o.paymentStatus == RefundProcessing {
		return ErrRefundInFlight
	}
	if o.paymentStatus != PaymentCompleted && o.paymentStatus != PaymentRefunded {
		return ErrNotCharged
	}
	if amount.GreaterThan(o.RefundableBalance()) {
		return fmt.Errorf("%w: requested %s, refundable %s",
			ErrRefundExceedsBalance, amount, o.RefundableBalance())
	}

	o.paymentStatus = RefundProcessing
	return nil
}

// ApplyRefundSuccess records a processor-confirmed refund. When the order is
// now fully refunded, the lifecycle follows the refund edges of the
// transition table: an unsettled order is forced to refunded, while a settled
// one also moves to refunded but is flagged for manual reconciliation instead
// of clawing back the driver payout.
func (o *Order) ApplyRefundSuccess(amount kernel.Money, at time.Time) error {
	newRefunded := o.refundedToDate.Add(amount)
	if newRefunded.GreaterThan(o.customerPaid) {
		return fmt.Errorf("%w: applying %s would exceed amount paid %s",
			ErrRefundExceedsBalance, amount, o.customerPaid)
	}

	o.refundedToDate = newRefunded
	o.paymentStatus = PaymentRefunded
	o.updatedAt = at

	fullyRefunded := o.refundedToDate.IsEqual(o.customerPaid)
	if fullyRefunded && o.status.CanTransitionTo(StatusRefunded) {
		if err := o.transition(StatusRefunded, at); err != nil {
			return err
		}
		if o.settled {
			o.needsReconciliation = true
		}
	}
	return nil
}

// ApplyRefundFailure records a terminal processor rejection; the case needs
// manual intervention.
func (o *Order) ApplyRefundFailure(at time.Time) {
	o.paymentStatus = RefundFailed
	o.updatedAt = at
}

// trackingNumberFor derives a customer-facing tracking number from the order ID.
func trackingNumberFor(id kernel.UUID) string {
	return "RET-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:10])
}

func validateAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("pickupAddress")
	}
	return nil
}

func validateRetailer(retailer string) error {
	if strings.TrimSpace(retailer) == "" {
		return errs.NewValueIsRequiredError("retailer")
	}
	return nil
}

func validateBoxes(boxes []BoxSize) error {
	if len(boxes) == 0 {
		return errs.NewValueIsRequiredError("boxes")
	}
	for _, b := range boxes {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validateDistance(miles float64) error {
	if miles < 0 {
		return errs.NewValueIsInvalidError("distanceMiles must not be negative")
	}
	return nil
}
