package commands

import (
	"context"
	"sync"

	"returns/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// BulkRefundCommandHandler fans a refund out over many orders. Each order
// reuses the single-order refund logic (idempotency key, balance check,
// async processor submission) in its own unit of work; a failed item is
// reported in the result and never blocks the batch.
type BulkRefundCommandHandler struct {
	refundHandler RequestRefundCommandHandler
}

// NewBulkRefundCommandHandler creates a handler for bulk refunds.
func NewBulkRefundCommandHandler(uowFactory UoWFactory, processor ports.PaymentProcessor) BulkRefundCommandHandler {
	return BulkRefundCommandHandler{
		refundHandler: NewRequestRefundCommandHandler(uowFactory, processor),
	}
}

// Handle processes the bulk refund command, returning the per-order outcome.
func (h BulkRefundCommandHandler) Handle(ctx context.Context, cmd BulkRefundCommand) (BulkResult, error) {
	if err := cmd.Validate(); err != nil {
		return BulkResult{}, err
	}

	var (
		mu     sync.Mutex
		result BulkResult
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(bulkConcurrencyLimit)

	for _, item := range cmd.Items() {
		group.Go(func() error {
			itemCmd, err := NewRequestRefundCommand(item.OrderID, item.Amount, cmd.Reason())
			if err == nil {
				err = h.refundHandler.Handle(groupCtx, itemCmd)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, BulkFailure{OrderID: item.OrderID, Reason: err.Error()})
			} else {
				result.Succeeded = append(result.Succeeded, item.OrderID)
			}
			return nil
		})
	}

	_ = group.Wait()
	return result, nil
}
