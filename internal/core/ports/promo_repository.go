package ports

import (
	"context"

	"returns/internal/core/domain/model/promo"
)

// PromoRepository defines the persistence contract for promo codes.
type PromoRepository interface {
	// Add persists a new promo code.
	Add(ctx context.Context, aggregate *promo.Promo) error

	// GetByCode retrieves a promo by its customer-facing code.
	// Returns an error unwrapping to errs.ErrObjectNotFound when absent.
	GetByCode(ctx context.Context, code string) (*promo.Promo, error)

	// Update persists changes to a promo, most notably its usage counter.
	Update(ctx context.Context, aggregate *promo.Promo) error
}
