// Package pricing computes per-item and order-level totals. Everything is
// integer cents; no float arithmetic is allowed in this package.
package pricing

import "quickbite/internal/domain"

// feeTier maps a subtotal threshold to the delivery fee charged above it.
// Tiers are checked top-down, first match wins. The zero threshold is the
// catch-all. Replace this table to change the fee schedule.
type feeTier struct {
	AboveCents int64
	FeeCents   int64
}

var deliveryFeeTiers = []feeTier{
	{AboveCents: 2500, FeeCents: 499},
	{AboveCents: 0, FeeCents: 599},
}

// EffectiveUnitPrice is the unit price of one item including its selected
// add-ons: unit + sum(option price * option quantity).
func EffectiveUnitPrice(item domain.CartItem) int64 {
	price := item.UnitPriceCents
	for _, opt := range item.SelectedOptions {
		price += opt.PriceCents * int64(opt.Quantity)
	}
	return price
}

// LineTotal is the effective unit price times the line quantity.
func LineTotal(item domain.CartItem) int64 {
	return EffectiveUnitPrice(item) * int64(item.Quantity)
}

func CartSubtotal(items []domain.CartItem) int64 {
	var subtotal int64
	for _, item := range items {
		subtotal += LineTotal(item)
	}
	return subtotal
}

// DeliveryFee returns the flat fee for a given cart subtotal per the tier
// table above.
func DeliveryFee(subtotalCents int64) int64 {
	for _, tier := range deliveryFeeTiers {
		if subtotalCents > tier.AboveCents {
			return tier.FeeCents
		}
	}
	return deliveryFeeTiers[len(deliveryFeeTiers)-1].FeeCents
}

func OrderTotal(items []domain.CartItem) int64 {
	subtotal := CartSubtotal(items)
	return subtotal + DeliveryFee(subtotal)
}
