// Package refundrepo provides data transfer objects and mapping functions for
// the refund ledger.
package refundrepo

import (
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/refund"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundDTO represents the database structure for persisting refund ledger
// entries. The unique idempotency key makes duplicate submissions collide at
// the database level as well, not just in the handler.
type RefundDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2)"`
	Reason            string          `gorm:"type:varchar(512);not null"`
	IdempotencyKey    string          `gorm:"type:varchar(64);uniqueIndex;not null"`
	Status            string          `gorm:"type:varchar(16);index;not null"`
	ProcessorRefundID string          `gorm:"type:varchar(255);index"`
	RequestedAt       time.Time       `gorm:"not null"`
	ResolvedAt        *time.Time
}

// TableName specifies the database table name for refund entities.
func (RefundDTO) TableName() string {
	return "refunds"
}

// fromDomain converts a refund domain entity to its database representation.
func fromDomain(aggregate *refund.Refund) RefundDTO {
	return RefundDTO{
		ID:                aggregate.ID().Bytes(),
		OrderID:           aggregate.OrderID().Bytes(),
		Amount:            aggregate.Amount().Decimal(),
		Reason:            aggregate.Reason(),
		IdempotencyKey:    aggregate.IdempotencyKey(),
		Status:            aggregate.Status().String(),
		ProcessorRefundID: aggregate.ProcessorRefundID(),
		RequestedAt:       aggregate.RequestedAt(),
		ResolvedAt:        aggregate.ResolvedAt(),
	}
}

// toDomain converts a database DTO to a refund domain entity.
func toDomain(dto RefundDTO) (*refund.Refund, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	status, err := refund.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return refund.RestoreRefund(
		id,
		orderID,
		kernel.MoneyFromDecimal(dto.Amount),
		dto.Reason,
		dto.IdempotencyKey,
		status,
		dto.ProcessorRefundID,
		dto.RequestedAt,
		dto.ResolvedAt,
	)
}
