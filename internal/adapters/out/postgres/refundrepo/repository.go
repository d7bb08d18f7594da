package refundrepo

import (
	"context"
	"errors"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/refund"
	"returns/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRefundRepository implements RefundRepository using GORM.
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GORM refund repository.
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// Add saves a new refund ledger entry to the database.
func (r *GormRefundRepository) Add(ctx context.Context, aggregate *refund.Refund) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing refund ledger entry to the database.
func (r *GormRefundRepository) Update(ctx context.Context, aggregate *refund.Refund) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RefundDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("refund", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a refund by ID.
func (r *GormRefundRepository) Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RefundDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("refund", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByIdempotencyKey retrieves the refund recorded under the given
// deduplication key.
func (r *GormRefundRepository) GetByIdempotencyKey(ctx context.Context, key string) (*refund.Refund, error) {
	if key == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}

	var dto RefundDTO
	if err := r.db.WithContext(ctx).First(&dto, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("refund", key)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByProcessorID retrieves the refund assigned the given processor-side
// identifier. Used to match webhook callbacks to ledger entries.
func (r *GormRefundRepository) GetByProcessorID(ctx context.Context, processorRefundID string) (*refund.Refund, error) {
	if processorRefundID == "" {
		return nil, errs.NewValueIsRequiredError("processorRefundID")
	}

	var dto RefundDTO
	if err := r.db.WithContext(ctx).First(&dto, "processor_refund_id = ?", processorRefundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("refund", processorRefundID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListPending retrieves refunds still awaiting a terminal processor response,
// oldest first.
func (r *GormRefundRepository) ListPending(ctx context.Context) ([]*refund.Refund, error) {
	var dtos []RefundDTO
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			refund.StatusRequested.String(),
			refund.StatusProcessing.String(),
		}).
		Order("requested_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	refunds := make([]*refund.Refund, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		refunds = append(refunds, entry)
	}

	return refunds, nil
}
