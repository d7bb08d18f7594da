// Package driver contains the Driver aggregate: the courier-side counterpart
// of an order. Its single hard invariant is assignment exclusivity, a driver
// holds at most one active order at a time.
package driver

import (
	"errors"
	"strings"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"
	"returns/internal/pkg/guard"
)

const (
	ratingMin = 0.0
	ratingMax = 5.0
)

// Domain errors for driver operations.
var (
	// ErrDriverIsNotConstructed is returned when using an improperly
	// initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver")

	// ErrDriverBusy is returned when assigning an order to a driver that
	// already holds an active one.
	ErrDriverBusy = errors.New("driver already has an active order")

	// ErrDriverOffline is returned when an offline driver tries to accept work.
	ErrDriverOffline = errors.New("driver is offline")

	// ErrOrderMismatch is returned when clearing an assignment the driver
	// does not actually hold.
	ErrOrderMismatch = errors.New("driver is not assigned to this order")
)

// Driver is an aggregate root representing a pickup driver.
//
// Business rules:
//   - a driver holds at most one active order (assignment exclusivity)
//   - only online drivers can accept orders
//   - rating stays within [0, 5]
type Driver struct {
	id            kernel.UUID
	name          string
	online        bool
	rating        float64
	location      kernel.GeoPoint
	activeOrderID *kernel.UUID
	guard         guard.ConstructorGuard
}

// NewDriver creates a driver that starts offline with no active order and a
// neutral rating.
func NewDriver(id kernel.UUID, name string, location kernel.GeoPoint) (*Driver, error) {
	d := &Driver{
		rating: ratingMax,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setLocation(location),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a driver aggregate from persistence.
func RestoreDriver(
	id kernel.UUID,
	name string,
	online bool,
	rating float64,
	location kernel.GeoPoint,
	activeOrderID *kernel.UUID,
) (*Driver, error) {
	d := &Driver{
		online: online,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setLocation(location),
		d.setRating(rating),
	); err != nil {
		return nil, err
	}

	if activeOrderID != nil {
		if err := activeOrderID.Validate(); err != nil {
			return nil, err
		}
		d.activeOrderID = activeOrderID
	}

	return d, nil
}

// Validate ensures the Driver was created via a constructor.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID { return d.id }

// Name returns the driver's display name.
func (d *Driver) Name() string { return d.name }

// Online reports whether the driver is currently accepting work.
func (d *Driver) Online() bool { return d.online }

// Rating returns the driver's rating in [0, 5].
func (d *Driver) Rating() float64 { return d.rating }

// Location returns the driver's last reported position.
func (d *Driver) Location() kernel.GeoPoint { return d.location }

// ActiveOrder returns the currently held order ID, or nil.
func (d *Driver) ActiveOrder() *kernel.UUID { return d.activeOrderID }

// SetOnline flips the driver's availability.
func (d *Driver) SetOnline(online bool) {
	d.online = online
}

// UpdateLocation records the driver's latest reported position.
func (d *Driver) UpdateLocation(location kernel.GeoPoint) error {
	return d.setLocation(location)
}

// UpdateRating sets the driver's rating, validating the [0, 5] range.
func (d *Driver) UpdateRating(rating float64) error {
	return d.setRating(rating)
}

// AssignOrder records the driver's exclusive active order. Fails when the
// driver is offline or already busy.
func (d *Driver) AssignOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if !d.online {
		return ErrDriverOffline
	}
	if d.activeOrderID != nil {
		return ErrDriverBusy
	}

	d.activeOrderID = &orderID
	return nil
}

// ClearOrder releases the driver's active assignment. The order ID must match
// the held assignment to guard against races between stale callers.
func (d *Driver) ClearOrder(orderID kernel.UUID) error {
	if d.activeOrderID == nil || !d.activeOrderID.IsEqual(orderID) {
		return ErrOrderMismatch
	}

	d.activeOrderID = nil
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	d.name = name
	return nil
}

func (d *Driver) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = location
	return nil
}

func (d *Driver) setRating(rating float64) error {
	if rating < ratingMin || rating > ratingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, ratingMin, ratingMax)
	}
	d.rating = rating
	return nil
}
