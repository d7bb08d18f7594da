package commands

import (
	"context"
	"time"

	"returns/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order before pickup. When the order
// held a driver, the driver is freed as part of the same transaction.
// Cancellation after pickup is rejected by the state machine.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for cancel operations.
func NewCancelOrderCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the cancel command.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	heldDriverID := aggregate.Driver()

	if err = aggregate.Cancel(now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if heldDriverID != nil {
		assignedDriver, err := uow.DriverRepository().Get(ctx, *heldDriverID)
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
