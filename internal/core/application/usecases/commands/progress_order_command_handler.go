package commands

import (
	"context"
	"time"

	"returns/internal/core/domain/model/order"
	"returns/internal/core/ports"
)

// ProgressOrderCommandHandler advances an order along the fulfillment path.
// Every step is validated by the state machine against the currently stored
// status, and the write is guarded by the aggregate version, so a stale
// client (or two racing drivers on the same account) cannot replay or skip
// steps.
type ProgressOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewProgressOrderCommandHandler creates a handler for progress operations.
func NewProgressOrderCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) ProgressOrderCommandHandler {
	return ProgressOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the progress command.
func (h ProgressOrderCommandHandler) Handle(ctx context.Context, cmd ProgressOrderCommand) error {
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

	switch cmd.Target() {
	case order.StatusPickupScheduled:
		err = aggregate.SchedulePickup(*cmd.PickupAt(), now)
	case order.StatusPickedUp:
		err = aggregate.MarkPickedUp(now)
	case order.StatusInTransit:
		err = aggregate.MarkInTransit(now)
	case order.StatusDelivered:
		err = aggregate.MarkDelivered(now)
	case order.StatusReturnRefused:
		err = aggregate.RefuseReturn(now)
	default:
		err = ErrUnsupportedProgressTarget
	}
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	// A refused return ends the job, so the driver is freed here. Delivered
	// orders keep their driver until settlement.
	if cmd.Target() == order.StatusReturnRefused && aggregate.Driver() != nil {
		assignedDriver, err := uow.DriverRepository().Get(ctx, *aggregate.Driver())
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
