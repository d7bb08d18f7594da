package commands

import (
	"errors"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/pkg/guard"
)

var (
	ErrBulkTransitionCommandIsNotConstructed = errors.New(
		"BulkTransitionCommand must be created via NewBulkTransitionCommand constructor",
	)
	ErrOrderIDsAreRequired = errors.New("at least one order id is required")
)

// BulkTransitionCommand represents an admin request to move a set of orders
// to the same target status.
type BulkTransitionCommand struct { //nolint:recvcheck //using for validation
	orderIDs []kernel.UUID
	target   order.Status

	guard guard.ConstructorGuard
}

// NewBulkTransitionCommand creates a command for an admin bulk transition.
func NewBulkTransitionCommand(orderIDs []kernel.UUID, target order.Status) (BulkTransitionCommand, error) {
	cmd := BulkTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderIDs(orderIDs),
		cmd.setTarget(target),
	); err != nil {
		return BulkTransitionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c BulkTransitionCommand) Validate() error {
	return c.guard.Validate(ErrBulkTransitionCommandIsNotConstructed)
}

// OrderIDs returns the orders to transition.
func (c BulkTransitionCommand) OrderIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.orderIDs...)
}

// Target returns the requested status.
func (c BulkTransitionCommand) Target() order.Status {
	return c.target
}

func (c *BulkTransitionCommand) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return ErrOrderIDsAreRequired
	}
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.orderIDs = append([]kernel.UUID(nil), orderIDs...)
	return nil
}

func (c *BulkTransitionCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
