package tests

import (
	"testing"

	"quickbite/internal/domain"
	"quickbite/internal/pricing"

	"github.com/stretchr/testify/assert"
)

func TestPricing_LineTotalIncludesOptions(t *testing.T) {
	item := domain.CartItem{
		UnitPriceCents: 1000,
		Quantity:       2,
		SelectedOptions: []domain.SelectedOption{
			{PriceCents: 200, Quantity: 1},
		},
	}

	assert.Equal(t, int64(1200), pricing.EffectiveUnitPrice(item))
	assert.Equal(t, int64(2400), pricing.LineTotal(item))
}

func TestPricing_OptionQuantityMultiplies(t *testing.T) {
	item := domain.CartItem{
		UnitPriceCents: 500,
		Quantity:       1,
		SelectedOptions: []domain.SelectedOption{
			{PriceCents: 150, Quantity: 3},
		},
	}
	assert.Equal(t, int64(950), pricing.EffectiveUnitPrice(item))
}

func TestPricing_DeliveryFeeTiers(t *testing.T) {
	tests := []struct {
		name          string
		subtotalCents int64
		expectedFee   int64
	}{
		{"low_tier", 2400, 599},
		{"boundary_stays_low", 2500, 599},
		{"just_above_boundary", 2501, 499},
		{"high_tier", 3000, 499},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expectedFee, pricing.DeliveryFee(testCase.subtotalCents))
		})
	}
}

func TestPricing_OrderTotal(t *testing.T) {
	// Subtotal 2400 gets the 599 fee, subtotal 3000 gets 499.
	lowCart := []domain.CartItem{{UnitPriceCents: 1200, Quantity: 2}}
	assert.Equal(t, int64(2999), pricing.OrderTotal(lowCart))

	highCart := []domain.CartItem{{UnitPriceCents: 1500, Quantity: 2}}
	assert.Equal(t, int64(3499), pricing.OrderTotal(highCart))
}

func TestPricing_EmptyCartSubtotalIsZero(t *testing.T) {
	assert.Equal(t, int64(0), pricing.CartSubtotal(nil))
}
