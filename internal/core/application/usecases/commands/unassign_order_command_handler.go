package commands

import (
	"context"
	"time"

	"returns/internal/core/ports"
)

// UnassignOrderCommandHandler releases an order's driver, returning the order
// to the assignable pool and freeing the driver for new work. Valid only from
// assigned and pickup_scheduled; terminal orders are rejected by the state
// machine.
type UnassignOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewUnassignOrderCommandHandler creates a handler for unassign operations.
func NewUnassignOrderCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) UnassignOrderCommandHandler {
	return UnassignOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the unassign command.
func (h UnassignOrderCommandHandler) Handle(ctx context.Context, cmd UnassignOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	releasedDriverID := aggregate.Driver()

	if err = aggregate.Unassign(now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if releasedDriverID != nil {
		assignedDriver, err := uow.DriverRepository().Get(ctx, *releasedDriverID)
		if err != nil {
			return err
		}
		if err = assignedDriver.ClearOrder(aggregate.ID()); err != nil {
			return err
		}
		if err = uow.DriverRepository().Update(ctx, assignedDriver); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishEvents(ctx, h.publisher, aggregate)
	return nil
}
