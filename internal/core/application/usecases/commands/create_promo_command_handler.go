package commands

import (
	"context"

	"returns/internal/core/domain/model/promo"
)

// CreatePromoCommandHandler registers a new promo code.
type CreatePromoCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreatePromoCommandHandler creates a handler for promo creation.
func NewCreatePromoCommandHandler(uowFactory UoWFactory) CreatePromoCommandHandler {
	return CreatePromoCommandHandler{uowFactory: uowFactory}
}

// Handle processes the create promo command.
func (h CreatePromoCommandHandler) Handle(ctx context.Context, cmd CreatePromoCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := promo.NewPromo(
		cmd.PromoID(),
		cmd.Code(),
		cmd.Kind(),
		cmd.Value(),
		cmd.ExpiresAt(),
		cmd.UsageLimit(),
	)
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

	if err = uow.PromoRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
