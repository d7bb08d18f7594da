package kernel_test

import (
	"testing"

	"returns/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyConstruction(t *testing.T) {
	t.Run("from_string", func(t *testing.T) {
		m, err := kernel.MoneyFromString("3.99")
		require.NoError(t, err)
		assert.Equal(t, "3.99", m.String())
	})

	t.Run("from_invalid_string", func(t *testing.T) {
		_, err := kernel.MoneyFromString("three dollars")
		require.Error(t, err)
	})

	t.Run("from_cents", func(t *testing.T) {
		m := kernel.MoneyFromCents(649)
		assert.Equal(t, "6.49", m.String())
		assert.Equal(t, int64(649), m.Cents())
	})

	t.Run("zero_value_is_zero_dollars", func(t *testing.T) {
		var m kernel.Money
		assert.True(t, m.IsZero())
		assert.Equal(t, "0.00", m.String())
	})
}

func TestMoneyRoundToCent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"rounds_half_up", "0.9735", "0.97"},
		{"rounds_half_up_at_midpoint", "2.545", "2.55"},
		{"rounds_half_up_service_fee", "2.5485", "2.55"},
		{"rounds_down_below_midpoint", "1.234", "1.23"},
		{"exact_cents_unchanged", "19.54", "19.54"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := kernel.MustMoneyFromString(tt.input)
			assert.Equal(t, tt.want, m.RoundToCent().String())
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	base := kernel.MustMoneyFromString("3.99")
	distance := kernel.MustMoneyFromString("2.50")

	t.Run("add", func(t *testing.T) {
		assert.Equal(t, "6.49", base.Add(distance).String())
	})

	t.Run("sub", func(t *testing.T) {
		assert.Equal(t, "1.49", base.Sub(distance).String())
	})

	t.Run("mul", func(t *testing.T) {
		subtotal := kernel.MustMoneyFromString("6.49")
		fee := subtotal.Mul(decimal.NewFromFloat(0.15)).RoundToCent()
		assert.Equal(t, "0.97", fee.String())
	})

	t.Run("comparisons", func(t *testing.T) {
		assert.True(t, distance.LessThan(base))
		assert.True(t, base.GreaterThan(distance))
		assert.True(t, base.IsEqual(kernel.MoneyFromCents(399)))
		assert.False(t, base.IsNegative())
		assert.True(t, distance.Sub(base).IsNegative())
	})
}
