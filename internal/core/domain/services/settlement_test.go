package services_test

import (
	"testing"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func TestSettlementEngine_Settle(t *testing.T) {
	engine := services.NewSettlementEngine()

	t.Run("base_plus_mileage_plus_box_bonus", func(t *testing.T) {
		s := engine.Settle(services.SettlementInput{
			Total:         kernel.MustMoneyFromString("7.46"),
			Boxes:         []order.BoxSize{order.BoxSizeM},
			DistanceMiles: 5,
		})

		// 2.50 + 5*0.60 + 0.50 = 6.00
		assert.Equal(t, "6.00", s.DriverEarning.String())
		assert.Equal(t, "1.46", s.PlatformFee.String())
	})

	t.Run("time_component_accrues_per_minute", func(t *testing.T) {
		s := engine.Settle(services.SettlementInput{
			Total:         kernel.MustMoneyFromString("19.54"),
			Boxes:         []order.BoxSize{order.BoxSizeL, order.BoxSizeL, order.BoxSizeL},
			DistanceMiles: 8,
			JobDuration:   30 * time.Minute,
		})

		// 2.50 + 4.80 + 3*1.00 + 3.00 = 13.30
		assert.Equal(t, "13.30", s.DriverEarning.String())
		assert.Equal(t, "6.24", s.PlatformFee.String())
	})

	t.Run("time_component_is_capped", func(t *testing.T) {
		short := engine.Settle(services.SettlementInput{
			Total:         kernel.MustMoneyFromString("50.00"),
			Boxes:         []order.BoxSize{order.BoxSizeM},
			DistanceMiles: 5,
			JobDuration:   time.Hour,
		})
		long := engine.Settle(services.SettlementInput{
			Total:         kernel.MustMoneyFromString("50.00"),
			Boxes:         []order.BoxSize{order.BoxSizeM},
			DistanceMiles: 5,
			JobDuration:   6 * time.Hour,
		})

		assert.True(t, short.DriverEarning.IsEqual(long.DriverEarning),
			"time component must cap out: %s vs %s", short.DriverEarning, long.DriverEarning)
		// 2.50 + 3.00 + 0.50 + 6.00 = 12.00
		assert.Equal(t, "12.00", long.DriverEarning.String())
	})

	t.Run("tip_passes_through_without_touching_platform_fee", func(t *testing.T) {
		withoutTip := engine.Settle(services.SettlementInput{
			Total:         kernel.MustMoneyFromString("7.46"),
			Boxes:         []order.BoxSize{order.BoxSizeM},
			DistanceMiles: 5,
		})
		withTip := engine.Settle(services.SettlementInput{
			Total:         kernel.MustMoneyFromString("7.46"),
			Tip:           kernel.MustMoneyFromString("2.00"),
			Boxes:         []order.BoxSize{order.BoxSizeM},
			DistanceMiles: 5,
		})

		assert.Equal(t, "8.00", withTip.DriverEarning.String())
		assert.True(t, withoutTip.PlatformFee.IsEqual(withTip.PlatformFee),
			"tips must not reduce the platform fee")
	})

	t.Run("negative_duration_contributes_nothing", func(t *testing.T) {
		s := engine.Settle(services.SettlementInput{
			Total:         kernel.MustMoneyFromString("7.46"),
			Boxes:         []order.BoxSize{order.BoxSizeM},
			DistanceMiles: 5,
			JobDuration:   -time.Hour,
		})

		assert.Equal(t, "6.00", s.DriverEarning.String())
	})
}
