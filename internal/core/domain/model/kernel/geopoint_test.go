package kernel_test

import (
	"testing"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid_coordinates", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(37.7749, -122.4194)

		require.NoError(t, err)
		assert.InDelta(t, 37.7749, p.Latitude(), 1e-9)
		assert.InDelta(t, -122.4194, p.Longitude(), 1e-9)
		require.NoError(t, p.Validate())
	})

	t.Run("latitude_out_of_range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 0)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("longitude_out_of_range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -181)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var p kernel.GeoPoint

		require.Error(t, p.Validate())
	})
}

func TestGeoPoint_DistanceMilesTo(t *testing.T) {
	t.Run("distance_to_self_is_zero", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(40.7128, -74.0060)
		require.NoError(t, err)

		assert.InDelta(t, 0, p.DistanceMilesTo(p), 1e-9)
	})

	t.Run("new_york_to_los_angeles", func(t *testing.T) {
		nyc, err := kernel.NewGeoPoint(40.7128, -74.0060)
		require.NoError(t, err)
		la, err := kernel.NewGeoPoint(34.0522, -118.2437)
		require.NoError(t, err)

		// Great-circle distance is roughly 2445 miles.
		assert.InDelta(t, 2445, nyc.DistanceMilesTo(la), 15)
	})

	t.Run("distance_is_symmetric", func(t *testing.T) {
		a, err := kernel.NewGeoPoint(47.6062, -122.3321)
		require.NoError(t, err)
		b, err := kernel.NewGeoPoint(45.5152, -122.6784)
		require.NoError(t, err)

		assert.InDelta(t, a.DistanceMilesTo(b), b.DistanceMilesTo(a), 1e-9)
	})
}
