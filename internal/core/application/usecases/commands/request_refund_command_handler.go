package commands

import (
	"context"
	"errors"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/refund"
	"returns/internal/core/ports"
	"returns/internal/pkg/errs"
)

// RequestRefundCommandHandler records a refund request and submits it to the
// payment processor.
//
// Idempotency: the deterministic key over (order, amount, reason) is checked
// against the refund ledger first; a replay returns the existing entry's
// outcome without touching the order or the processor, so the same request
// can never refund twice.
//
// Asynchrony: the order's payment status moves to refund_processing
// synchronously. It resolves to refunded or refund_failed only when the
// processor answers terminally, via webhook (ResolveRefundCommand) or the
// reconciliation job. A processor timeout leaves the refund pending; it is
// never assumed successful.
type RequestRefundCommandHandler struct {
	uowFactory UoWFactory
	processor  ports.PaymentProcessor
}

// NewRequestRefundCommandHandler creates a handler for refund requests.
func NewRequestRefundCommandHandler(uowFactory UoWFactory, processor ports.PaymentProcessor) RequestRefundCommandHandler {
	return RequestRefundCommandHandler{
		uowFactory: uowFactory,
		processor:  processor,
	}
}

// Handle processes the refund request command.
func (h RequestRefundCommandHandler) Handle(ctx context.Context, cmd RequestRefundCommand) error {
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

	key := refund.IdempotencyKeyFor(cmd.OrderID(), cmd.Amount(), cmd.Reason())

	existing, err := uow.RefundRepository().GetByIdempotencyKey(ctx, key)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if existing != nil {
		// Replay of a known request: report the recorded outcome.
		if existing.Status() == refund.StatusFailed {
			return ports.ErrProcessorRejected
		}
		return nil
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.RequestRefund(cmd.Amount()); err != nil {
		return err
	}

	entry, err := refund.NewRefund(kernel.NewUUID(), aggregate.ID(), cmd.Amount(), cmd.Reason(), now)
	if err != nil {
		return err
	}

	submission, submitErr := h.processor.SubmitRefund(ctx, aggregate.PaymentIntentID(), cmd.Amount(), key)
	switch {
	case submitErr == nil:
		if err = entry.MarkProcessing(submission.ProcessorRefundID); err != nil {
			return err
		}
	case errors.Is(submitErr, ports.ErrProcessorTimeout):
		// Outcome unknown: the entry stays requested and the reconciliation
		// job resubmits with the same idempotency key.
	case errors.Is(submitErr, ports.ErrProcessorRejected):
		if err = entry.MarkFailed(now); err != nil {
			return err
		}
		aggregate.ApplyRefundFailure(now)
	default:
		return submitErr
	}

	if err = uow.RefundRepository().Add(ctx, entry); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if errors.Is(submitErr, ports.ErrProcessorRejected) {
		return ports.ErrProcessorRejected
	}
	return nil
}
