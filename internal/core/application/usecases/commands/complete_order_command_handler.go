package commands

import (
	"context"
	"time"

	"returns/internal/core/domain/services"
	"returns/internal/core/ports"
)

// CompleteOrderCommandHandler settles a delivered order. The settlement
// engine computes the driver earning from realized work (distance, boxes,
// job duration, tip); the figures are fixed on the order exactly once, at the
// delivered to completed transition, and the driver is freed for new work.
type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewCompleteOrderCommandHandler creates a handler for settlement operations.
func NewCompleteOrderCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the settlement command.
func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) error {
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

	var jobDuration time.Duration
	if aggregate.ActualPickupAt() != nil && aggregate.ActualDeliveryAt() != nil {
		jobDuration = aggregate.ActualDeliveryAt().Sub(*aggregate.ActualPickupAt())
	}

	settlement := services.NewSettlementEngine().Settle(services.SettlementInput{
		Total:         aggregate.Price().Total,
		Tip:           aggregate.Tip(),
		Boxes:         aggregate.Boxes(),
		DistanceMiles: aggregate.DistanceMiles(),
		JobDuration:   jobDuration,
	})

	if err = aggregate.Complete(settlement.DriverEarning, settlement.PlatformFee, now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if aggregate.Driver() != nil {
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
