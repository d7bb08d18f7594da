// Package driverrepo provides data transfer objects and mapping functions for
// driver persistence.
package driverrepo

import (
	"returns/internal/core/domain/model/driver"
	"returns/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver aggregates.
type DriverDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Online        bool
	Rating        float64    `gorm:"type:double precision;not null"`
	Lat           float64    `gorm:"type:double precision;not null"`
	Lon           float64    `gorm:"type:double precision;not null"`
	ActiveOrderID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver domain aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	var activeOrderID *uuid.UUID
	if id := aggregate.ActiveOrder(); id != nil {
		raw := id.Bytes()
		activeOrderID = &raw
	}

	return DriverDTO{
		ID:            aggregate.ID().Bytes(),
		Name:          aggregate.Name(),
		Online:        aggregate.Online(),
		Rating:        aggregate.Rating(),
		Lat:           aggregate.Location().Latitude(),
		Lon:           aggregate.Location().Longitude(),
		ActiveOrderID: activeOrderID,
	}
}

// toDomain converts a database DTO to a driver domain aggregate.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	var activeOrderID *kernel.UUID
	if dto.ActiveOrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.ActiveOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		activeOrderID = &oID
	}

	return driver.RestoreDriver(id, dto.Name, dto.Online, dto.Rating, location, activeOrderID)
}
