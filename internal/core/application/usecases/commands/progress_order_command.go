package commands

import (
	"errors"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/pkg/guard"
)

var (
	ErrProgressOrderCommandIsNotConstructed = errors.New(
		"ProgressOrderCommand must be created via NewProgressOrderCommand constructor",
	)
	ErrUnsupportedProgressTarget = errors.New(
		"target status is not a progress step",
	)
	ErrPickupWindowIsRequired = errors.New(
		"a pickup time is required to schedule a pickup",
	)
)

// progressTargets enumerates the statuses a driver (or admin acting for one)
// may move an order to through the generic progress endpoint. Assignment,
// cancellation, settlement, and refunds have dedicated commands.
var progressTargets = map[order.Status]bool{
	order.StatusPickupScheduled: true,
	order.StatusPickedUp:        true,
	order.StatusInTransit:       true,
	order.StatusDelivered:       true,
	order.StatusReturnRefused:   true,
}

// ProgressOrderCommand represents a request to advance an order one step
// along the fulfillment path: scheduling the pickup window, confirming
// pickup, transit, delivery, or a refused return.
type ProgressOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	target   order.Status
	pickupAt *time.Time

	guard guard.ConstructorGuard
}

// NewProgressOrderCommand creates a command to advance an order's status.
// pickupAt is required when the target is pickup_scheduled and ignored
// otherwise.
func NewProgressOrderCommand(orderID kernel.UUID, target order.Status, pickupAt *time.Time) (ProgressOrderCommand, error) {
	cmd := ProgressOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target, pickupAt),
	); err != nil {
		return ProgressOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ProgressOrderCommand) Validate() error {
	return c.guard.Validate(ErrProgressOrderCommandIsNotConstructed)
}

// OrderID returns the order being advanced.
func (c ProgressOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c ProgressOrderCommand) Target() order.Status {
	return c.target
}

// PickupAt returns the agreed pickup window when scheduling, nil otherwise.
func (c ProgressOrderCommand) PickupAt() *time.Time {
	return c.pickupAt
}

func (c *ProgressOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ProgressOrderCommand) setTarget(target order.Status, pickupAt *time.Time) error {
	if !progressTargets[target] {
		return ErrUnsupportedProgressTarget
	}
	if target == order.StatusPickupScheduled {
		if pickupAt == nil {
			return ErrPickupWindowIsRequired
		}
		c.pickupAt = pickupAt
	}

	c.target = target
	return nil
}
