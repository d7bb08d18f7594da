package promorepo

import (
	"context"
	"errors"

	"returns/internal/core/domain/model/promo"
	"returns/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPromoRepository implements PromoRepository using GORM.
type GormPromoRepository struct {
	db *gorm.DB
}

// NewGormPromoRepository creates a new GORM promo repository.
func NewGormPromoRepository(db *gorm.DB) *GormPromoRepository {
	return &GormPromoRepository{db: db}
}

// Add saves a new promo code to the database.
func (r *GormPromoRepository) Add(ctx context.Context, aggregate *promo.Promo) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByCode retrieves a promo by its customer-facing code.
func (r *GormPromoRepository) GetByCode(ctx context.Context, code string) (*promo.Promo, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}

	var dto PromoDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("promo", code)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Update saves an existing promo, most notably its usage counter.
func (r *GormPromoRepository) Update(ctx context.Context, aggregate *promo.Promo) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PromoDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("promo", aggregate.Code())
	}

	return nil
}
