package booking

import (
	"math"

	"github.com/bookmyhall/banquet-booking-backend/internal/hall"
)

const (
	comboDiscountRate = 0.05 // applies only when more than one hall is booked
	taxRate           = 0.18
)

// ComputePrice computes the pricing snapshot for a set of halls, a slot and
// optional add-ons. It is pure and deterministic; every state-changing
// operation that touches halls, slot or add-ons must call it again rather
// than reuse stale fields.
//
// A hall without a configured price for the slot is a configuration error,
// never silently treated as zero.
func ComputePrice(halls []*hall.Hall, slot Slot, addOns []AddOn) (Pricing, error) {
	var basePrice int64
	for _, h := range halls {
		price, err := h.PriceForSlot(string(slot))
		if err != nil {
			return Pricing{}, err
		}
		basePrice += price
	}

	var addOnsTotal int64
	for _, a := range addOns {
		if a.Price > 0 {
			addOnsTotal += a.Price
		}
	}

	subtotal := basePrice + addOnsTotal

	var discount int64
	if len(halls) > 1 {
		discount = roundCurrency(float64(subtotal) * comboDiscountRate)
	}

	taxableAmount := subtotal - discount
	taxes := roundCurrency(float64(taxableAmount) * taxRate)

	return Pricing{
		BasePrice:   basePrice,
		Discount:    discount,
		Taxes:       taxes,
		TotalAmount: taxableAmount + taxes,
	}, nil
}

// roundCurrency rounds to the nearest whole currency unit.
func roundCurrency(v float64) int64 {
	return int64(math.Round(v))
}
