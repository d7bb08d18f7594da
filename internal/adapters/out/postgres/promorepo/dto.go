// Package promorepo provides data transfer objects and mapping functions for
// promo code persistence.
package promorepo

import (
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/promo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromoDTO represents the database structure for persisting promo codes.
// The code is unique; the usage counter is what Update persists after a
// booking consumes the promo.
type PromoDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code       string          `gorm:"type:varchar(64);uniqueIndex;not null"`
	Kind       string          `gorm:"type:varchar(16);not null"`
	Value      decimal.Decimal `gorm:"type:numeric(12,2)"`
	ExpiresAt  time.Time       `gorm:"not null"`
	UsageLimit int             `gorm:"not null"`
	UsedCount  int             `gorm:"not null"`
}

// TableName specifies the database table name for promo entities.
func (PromoDTO) TableName() string {
	return "promos"
}

// fromDomain converts a promo domain entity to its database representation.
func fromDomain(aggregate *promo.Promo) PromoDTO {
	return PromoDTO{
		ID:         aggregate.ID().Bytes(),
		Code:       aggregate.Code(),
		Kind:       aggregate.Kind().String(),
		Value:      aggregate.Value().Decimal(),
		ExpiresAt:  aggregate.ExpiresAt(),
		UsageLimit: aggregate.UsageLimit(),
		UsedCount:  aggregate.UsedCount(),
	}
}

// toDomain converts a database DTO to a promo domain entity.
func toDomain(dto PromoDTO) (*promo.Promo, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	kind, err := promo.KindFromString(dto.Kind)
	if err != nil {
		return nil, err
	}

	return promo.RestorePromo(
		id,
		dto.Code,
		kind,
		kernel.MoneyFromDecimal(dto.Value),
		dto.ExpiresAt,
		dto.UsageLimit,
		dto.UsedCount,
	)
}
