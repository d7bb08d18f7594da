package commands

import (
	"context"
	"errors"
	"time"

	"returns/internal/core/domain/model/refund"
	"returns/internal/core/ports"
)

// ReconcileRefundsCommandHandler sweeps pending refunds and drives them to a
// terminal state.
//
// For each pending entry:
//   - requested entries (the original submission timed out) are resubmitted
//     with the original idempotency key, so the processor deduplicates
//   - processing entries are polled; a terminal answer is applied to the
//     ledger and the order
//
// Each refund runs in its own unit of work; a failure on one entry never
// blocks the rest of the sweep. Processor timeouts leave the entry pending
// for the next sweep, by design of the refund contract: an outcome is never
// fabricated locally.
type ReconcileRefundsCommandHandler struct {
	uowFactory UoWFactory
	processor  ports.PaymentProcessor
	publisher  ports.EventPublisher
}

// NewReconcileRefundsCommandHandler creates a handler for refund
// reconciliation sweeps.
func NewReconcileRefundsCommandHandler(
	uowFactory UoWFactory,
	processor ports.PaymentProcessor,
	publisher ports.EventPublisher,
) ReconcileRefundsCommandHandler {
	return ReconcileRefundsCommandHandler{
		uowFactory: uowFactory,
		processor:  processor,
		publisher:  publisher,
	}
}

// Handle processes one reconciliation sweep. The returned error reports only
// sweep-level failures; per-entry failures are skipped and retried on the
// next run.
func (h ReconcileRefundsCommandHandler) Handle(ctx context.Context, cmd ReconcileRefundsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	listUoW := h.uowFactory.Create()
	if err := listUoW.Begin(ctx); err != nil {
		return err
	}
	pending, err := listUoW.RefundRepository().ListPending(ctx)
	rollbackErr := listUoW.Rollback(ctx)
	if err != nil {
		return err
	}
	if rollbackErr != nil {
		return rollbackErr
	}

	for _, entry := range pending {
		// Per-entry isolation: one stuck refund must not stall the sweep.
		_ = h.reconcileOne(ctx, entry)
	}

	return nil
}

func (h ReconcileRefundsCommandHandler) reconcileOne(ctx context.Context, stale *refund.Refund) error {
	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	// Reload inside the transaction; the webhook may have resolved it since
	// the sweep listed it.
	entry, err := uow.RefundRepository().Get(ctx, stale.ID())
	if err != nil {
		return err
	}
	if !entry.IsPending() {
		return nil
	}

	aggregate, err := uow.OrderRepository().Get(ctx, entry.OrderID())
	if err != nil {
		return err
	}

	if entry.Status() == refund.StatusRequested {
		submission, submitErr := h.processor.SubmitRefund(
			ctx, aggregate.PaymentIntentID(), entry.Amount(), entry.IdempotencyKey())
		switch {
		case submitErr == nil:
			if err = entry.MarkProcessing(submission.ProcessorRefundID); err != nil {
				return err
			}
		case errors.Is(submitErr, ports.ErrProcessorTimeout):
			return nil
		case errors.Is(submitErr, ports.ErrProcessorRejected):
			if err = entry.MarkFailed(now); err != nil {
				return err
			}
			aggregate.ApplyRefundFailure(now)
		default:
			return submitErr
		}
	} else {
		state, pollErr := h.processor.RefundStatus(ctx, entry.ProcessorRefundID())
		if pollErr != nil {
			return pollErr
		}
		switch state {
		case ports.RefundStateSucceeded:
			if err = entry.MarkSucceeded(now); err != nil {
				return err
			}
			if err = aggregate.ApplyRefundSuccess(entry.Amount(), now); err != nil {
				return err
			}
		case ports.RefundStateFailed:
			if err = entry.MarkFailed(now); err != nil {
				return err
			}
			aggregate.ApplyRefundFailure(now)
		default:
			return nil
		}
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
