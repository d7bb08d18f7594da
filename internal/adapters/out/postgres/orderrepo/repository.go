package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
//
// Two conditional writes protect against concurrent mutation: Update checks
// the optimistic version column, and Accept performs a compare-and-swap on the
// (status, driver_id) pair so that exactly one of any number of concurrent
// acceptors wins.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing order, guarded by the version the aggregate was
// loaded with. A row whose version moved in the meantime is not touched and
// the caller receives a VersionConflictError to reload and retry.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loadedVersion := dto.Version
	dto.Version = loadedVersion + 1

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, loadedVersion).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionConflictError("order", aggregate.ID().String())
	}

	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackingNumber retrieves an order by its customer-facing tracking number.
func (r *GormOrderRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*order.Order, error) {
	if trackingNumber == "" {
		return nil, errs.NewValueIsRequiredError("trackingNumber")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "tracking_number = ?", trackingNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", trackingNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAvailable retrieves the assignable pool, oldest first.
func (r *GormOrderRepository) GetAvailable(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND driver_id IS NULL", order.StatusConfirmed.String()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// Accept atomically claims the order for a driver with a single conditional
// UPDATE. The WHERE clause re-checks the assignable state inside the database,
// so among concurrent acceptors exactly one row update succeeds; everyone else
// gets ErrAlreadyAssigned (or not-found if the order does not exist).
func (r *GormOrderRepository) Accept(
	ctx context.Context,
	orderID kernel.UUID,
	driverID kernel.UUID,
) (*order.Order, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND driver_id IS NULL",
			orderID.Bytes(), order.StatusConfirmed.String()).
		Updates(map[string]any{
			"driver_id":  driverID.Bytes(),
			"status":     order.StatusAssigned.String(),
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		var dto OrderDTO
		if err := r.db.WithContext(ctx).First(&dto, "id = ?", orderID.Bytes()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errs.NewObjectNotFoundError("order", orderID.String())
			}
			return nil, err
		}
		return nil, fmt.Errorf("%w: order %s is %s", order.ErrAlreadyAssigned, orderID, dto.Status)
	}

	return r.Get(ctx, orderID)
}
