package commands

import (
	"context"
	"errors"
	"sync"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// bulkConcurrencyLimit bounds the fan-out of bulk operations so a large
// batch cannot exhaust the connection pool.
const bulkConcurrencyLimit = 8

// BulkFailure describes one order that could not be processed in a bulk
// operation.
type BulkFailure struct {
	OrderID kernel.UUID
	Reason  string
}

// BulkResult is the partial-success outcome of a bulk operation.
type BulkResult struct {
	Succeeded []kernel.UUID
	Failed    []BulkFailure
}

// BulkTransitionCommandHandler applies a status transition to many orders as
// a best-effort fan-out. Each order runs the single-order logic in its own
// unit of work, concurrently and without shared mutable state, so one
// illegal transition or version conflict never aborts the batch.
type BulkTransitionCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewBulkTransitionCommandHandler creates a handler for bulk transitions.
func NewBulkTransitionCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) BulkTransitionCommandHandler {
	return BulkTransitionCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the bulk transition command, returning the per-order
// outcome. The error return reports only invalid commands; item failures are
// carried in the result.
func (h BulkTransitionCommandHandler) Handle(ctx context.Context, cmd BulkTransitionCommand) (BulkResult, error) {
	if err := cmd.Validate(); err != nil {
		return BulkResult{}, err
	}

	var (
		mu     sync.Mutex
		result BulkResult
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(bulkConcurrencyLimit)

	for _, orderID := range cmd.OrderIDs() {
		group.Go(func() error {
			err := h.transitionOne(groupCtx, orderID, cmd.Target())

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, BulkFailure{OrderID: orderID, Reason: err.Error()})
			} else {
				result.Succeeded = append(result.Succeeded, orderID)
			}
			// Item errors are recorded, never propagated, so the group
			// context stays live for the remaining orders.
			return nil
		})
	}

	_ = group.Wait()
	return result, nil
}

// transitionOne runs the single-order transition inside its own transaction.
func (h BulkTransitionCommandHandler) transitionOne(ctx context.Context, orderID kernel.UUID, target order.Status) error {
	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}

	switch target {
	case order.StatusConfirmed:
		if aggregate.Driver() != nil {
			err = aggregate.Unassign(now)
		} else {
			err = aggregate.Confirm(now)
		}
	case order.StatusCancelled:
		err = aggregate.Cancel(now)
	case order.StatusPickedUp:
		err = aggregate.MarkPickedUp(now)
	case order.StatusInTransit:
		err = aggregate.MarkInTransit(now)
	case order.StatusDelivered:
		err = aggregate.MarkDelivered(now)
	case order.StatusReturnRefused:
		err = aggregate.RefuseReturn(now)
	default:
		err = errors.Join(order.ErrIllegalTransition, errors.New("status requires its dedicated operation"))
	}
	if err != nil {
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
