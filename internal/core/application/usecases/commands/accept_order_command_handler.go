package commands

import (
	"context"
	"time"

	"returns/internal/core/domain/model/order"
	"returns/internal/core/ports"
)

// AcceptOrderCommandHandler handles a driver claiming an order.
//
// Two compare-and-swaps guard the two exclusivity invariants, both inside
// one transaction. The order repository updates the order row only if it
// still has confirmed status and no driver, so concurrent accepts of the
// same order admit exactly one winner (losers get order.ErrAlreadyAssigned).
// The driver repository then claims the order only if the driver row has no
// active order, so the same driver racing accepts on different orders lands
// exactly one assignment (losers get driver.ErrDriverBusy and their order
// claim rolls back with the transaction).
//
// Example:
//
//	handler := NewAcceptOrderCommandHandler(uowFactory, publisher)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrAlreadyAssigned) {
//	    // another driver won the race; respond 409
//	}
type AcceptOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewAcceptOrderCommandHandler creates a handler for order accept operations.
func NewAcceptOrderCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the accept command.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	claimingDriver, err := uow.DriverRepository().Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	// The conditional update on (status, driver) is the linearization point:
	// losers fail here without touching the row.
	claimed, err := uow.OrderRepository().Accept(ctx, cmd.OrderID(), cmd.DriverID())
	if err != nil {
		return err
	}

	// In-memory guard rejects offline and already-busy drivers from the
	// snapshot before the row-level claim below settles races.
	if err = claimingDriver.AssignOrder(claimed.ID()); err != nil {
		return err
	}

	if err = uow.DriverRepository().Claim(ctx, cmd.DriverID(), claimed.ID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// The compare-and-swap transitions the row directly, so the event is
	// emitted here rather than collected on the aggregate.
	if h.publisher != nil {
		_ = h.publisher.PublishStatusChanged(ctx, []order.StatusChangedEvent{{
			OrderID: claimed.ID(),
			From:    order.StatusConfirmed,
			To:      order.StatusAssigned,
			At:      time.Now().UTC(),
		}})
	}
	return nil
}
