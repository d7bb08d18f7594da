package commands

import (
	"context"
	"time"

	"returns/internal/core/ports"
)

// ResolveRefundCommandHandler applies a terminal processor response to the
// refund ledger and the order. On success the refunded running total grows
// and a fully refunded order follows the refund edge of the state machine;
// on failure the order is marked refund_failed for manual intervention.
// Resolving an already resolved refund is a no-op, so webhook redeliveries
// are harmless.
type ResolveRefundCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewResolveRefundCommandHandler creates a handler for refund resolutions.
func NewResolveRefundCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) ResolveRefundCommandHandler {
	return ResolveRefundCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the refund resolution command.
func (h ResolveRefundCommandHandler) Handle(ctx context.Context, cmd ResolveRefundCommand) error {
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

	entry, err := uow.RefundRepository().GetByProcessorID(ctx, cmd.ProcessorRefundID())
	if err != nil {
		return err
	}

	if !entry.IsPending() {
		// Already resolved; redelivered webhooks land here.
		return nil
	}

	aggregate, err := uow.OrderRepository().Get(ctx, entry.OrderID())
	if err != nil {
		return err
	}

	if cmd.Succeeded() {
		if err = entry.MarkSucceeded(now); err != nil {
			return err
		}
		if err = aggregate.ApplyRefundSuccess(entry.Amount(), now); err != nil {
			return err
		}
	} else {
		if err = entry.MarkFailed(now); err != nil {
			return err
		}
		aggregate.ApplyRefundFailure(now)
	}

	if err = uow.RefundRepository().Update(ctx, entry); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishEvents(ctx, h.publisher, aggregate)
	return nil
}
