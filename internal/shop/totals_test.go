package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oleastore/storefront/internal/api"
)

func item(price float64, qty uint) api.CartItem {
	return api.CartItem{Product: api.Product{Price: price}, Quantity: qty}
}

func TestTotals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		items        []api.CartItem
		wantSubtotal float64
		wantShipping float64
	}{
		{
			name:         "above threshold ships free",
			items:        []api.CartItem{item(500, 2), item(1600, 1)},
			wantSubtotal: 2600,
			wantShipping: 0,
		},
		{
			name:         "below threshold pays flat fee",
			items:        []api.CartItem{item(100, 1)},
			wantSubtotal: 100,
			wantShipping: ShippingFee,
		},
		{
			name:         "exactly at threshold still pays",
			items:        []api.CartItem{item(1000, 2)},
			wantSubtotal: 2000,
			wantShipping: ShippingFee,
		},
		{
			name:         "zero quantity counts as one",
			items:        []api.CartItem{item(250, 0), item(250, 1)},
			wantSubtotal: 500,
			wantShipping: ShippingFee,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			subtotal, shipping, grand := Totals(tt.items)
			assert.Equal(t, tt.wantSubtotal, subtotal)
			assert.Equal(t, tt.wantShipping, shipping)
			assert.Equal(t, tt.wantSubtotal+tt.wantShipping, grand)
		})
	}
}
