package cart

import "math"

// Item is one cart line. Name and price are captured when the dish is
// added so the order keeps the menu values from that moment.
type Item struct {
	DishID   uint    `json:"dishId"`
	DishName string  `json:"dishName"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func (i Item) Subtotal() float64 {
	return round2(i.Price * float64(i.Quantity))
}

type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

// ComputeTotals derives the review totals from a cart snapshot. The
// delivery fee is waived on an empty cart.
func ComputeTotals(items []Item, deliveryFee, taxRate float64) Totals {
	subtotal := 0.0
	for _, it := range items {
		subtotal += it.Subtotal()
	}
	subtotal = round2(subtotal)

	fee := 0.0
	if subtotal > 0 {
		fee = deliveryFee
	}
	tax := round2(subtotal * taxRate)

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       round2(subtotal + fee + tax),
	}
}

// Validate checks the shape constraints on a cart snapshot before it is
// turned into an order.
func Validate(items []Item) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if it.Price < 0 {
			return ErrNegativePrice
		}
	}
	return nil
}

// Snapshot returns an independent copy so later cart edits cannot leak
// into an in-flight submission.
func Snapshot(items []Item) []Item {
	cp := make([]Item, len(items))
	copy(cp, items)
	return cp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
