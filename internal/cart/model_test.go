package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	t.Run("Single line with fee and tax", func(t *testing.T) {
		items := []Item{
			{DishID: 1, DishName: "Margherita", Price: 12.50, Quantity: 2},
		}

		totals := ComputeTotals(items, 2.99, 0.10)

		assert.Equal(t, 25.00, totals.Subtotal)
		assert.Equal(t, 2.99, totals.DeliveryFee)
		assert.Equal(t, 2.50, totals.Tax)
		assert.Equal(t, 30.49, totals.Total)
	})

	t.Run("Empty cart waives the delivery fee", func(t *testing.T) {
		totals := ComputeTotals(nil, 2.99, 0.10)

		assert.Equal(t, 0.0, totals.Subtotal)
		assert.Equal(t, 0.0, totals.DeliveryFee)
		assert.Equal(t, 0.0, totals.Tax)
		assert.Equal(t, 0.0, totals.Total)
	})

	t.Run("Rounds to cents", func(t *testing.T) {
		items := []Item{
			{DishID: 3, DishName: "Tiramisu", Price: 3.33, Quantity: 3},
		}

		totals := ComputeTotals(items, 2.99, 0.10)

		assert.Equal(t, 9.99, totals.Subtotal)
		assert.Equal(t, 1.00, totals.Tax)
		assert.Equal(t, 13.98, totals.Total)
	})
}

func TestValidate(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.ErrorIs(t, Validate(nil), ErrNoItems)
	})

	t.Run("Zero quantity", func(t *testing.T) {
		err := Validate([]Item{{DishID: 1, Quantity: 0, Price: 5}})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("Negative price", func(t *testing.T) {
		err := Validate([]Item{{DishID: 1, Quantity: 1, Price: -1}})
		assert.ErrorIs(t, err, ErrNegativePrice)
	})

	t.Run("Valid", func(t *testing.T) {
		err := Validate([]Item{{DishID: 1, Quantity: 1, Price: 9.50}})
		assert.NoError(t, err)
	})
}

func TestSnapshot(t *testing.T) {
	items := []Item{{DishID: 1, DishName: "Margherita", Quantity: 1, Price: 10}}
	snap := Snapshot(items)

	items[0].Quantity = 99

	assert.Equal(t, 1, snap[0].Quantity)
}
