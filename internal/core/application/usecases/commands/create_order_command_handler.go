package commands

import (
	"context"
	"errors"
	"time"

	"returns/internal/core/domain/model/order"
	"returns/internal/core/domain/model/promo"
	"returns/internal/core/domain/services"
	"returns/internal/core/ports"
	"returns/internal/pkg/errs"
)

// ErrInvalidPromo is returned when the supplied promo code does not exist, is
// expired, or has exhausted its usage limit. Booking does not proceed.
var ErrInvalidPromo = errors.New("promo code is invalid")

// CreateOrderCommandHandler handles the business logic for booking a pickup
// order: distance resolution, pricing, the customer charge, and persistence.
//
// Booking sequence:
//  1. resolve distance and pickup coordinates (failure aborts with
//     ports.ErrPricingUnavailable, nothing is persisted)
//  2. resolve and validate the promo code if one was supplied
//  3. compute the frozen price breakdown
//  4. persist the order in created status, then charge the customer
//  5. on charge success confirm the order into the assignable pool; on
//     terminal decline record the failed payment and keep the order out of
//     the pool
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, resolver, processor, publisher)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("booking failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	distance   ports.DistanceResolver
	processor  ports.PaymentProcessor
	publisher  ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order booking operations.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	distance ports.DistanceResolver,
	processor ports.PaymentProcessor,
	publisher ports.EventPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		distance:   distance,
		processor:  processor,
		publisher:  publisher,
	}
}

// Handle processes the order booking command.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	miles, err := h.distance.ResolveMiles(ctx, cmd.PickupAddress(), cmd.Retailer())
	if err != nil {
		return err
	}

	location, err := h.distance.Geocode(ctx, cmd.PickupAddress())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var appliedPromo *promo.Promo
	if code := cmd.PromoCode(); code != nil {
		appliedPromo, err = uow.PromoRepository().GetByCode(ctx, *code)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ErrInvalidPromo
		}
		if err != nil {
			return err
		}
		if err = appliedPromo.MarkUsed(now); err != nil {
			return errors.Join(ErrInvalidPromo, err)
		}
		if err = uow.PromoRepository().Update(ctx, appliedPromo); err != nil {
			return err
		}
	}

	price, err := services.NewPricingCalculator().Calculate(services.PricingInput{
		Boxes:         cmd.Boxes(),
		DistanceMiles: miles,
		Rush:          cmd.Rush(),
		Promo:         appliedPromo,
		At:            now,
	})
	if err != nil {
		return err
	}

	newOrder, err := order.NewOrder(order.NewOrderParams{
		ID:             cmd.OrderID(),
		CustomerID:     cmd.CustomerID(),
		PickupAddress:  cmd.PickupAddress(),
		Retailer:       cmd.Retailer(),
		PickupLocation: location,
		Boxes:          cmd.Boxes(),
		DistanceMiles:  miles,
		Rush:           cmd.Rush(),
		PromoCode:      cmd.PromoCode(),
		Tip:            cmd.Tip(),
		Price:          price,
		Now:            now,
	})
	if err != nil {
		return err
	}

	charge, chargeErr := h.processor.Charge(ctx, newOrder.ID(), price.Total)
	switch {
	case chargeErr == nil:
		if err = newOrder.MarkCharged(charge.PaymentIntentID, price.Total); err != nil {
			return err
		}
		if err = newOrder.Confirm(now); err != nil {
			return err
		}
	case errors.Is(chargeErr, ports.ErrProcessorRejected):
		// The booking is kept with a failed payment so the customer can
		// retry; it never enters the assignable pool.
		newOrder.MarkChargeFailed()
	default:
		return chargeErr
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishEvents(ctx, h.publisher, newOrder)
	return nil
}

// publishEvents emits accumulated status change events after commit. Publish
// failures never undo the committed state change; the publisher is expected
// to log and drop.
func publishEvents(ctx context.Context, publisher ports.EventPublisher, aggregate *order.Order) {
	if publisher == nil {
		return
	}
	events := aggregate.Events()
	if len(events) == 0 {
		return
	}
	_ = publisher.PublishStatusChanged(ctx, events)
	aggregate.ClearEvents()
}
