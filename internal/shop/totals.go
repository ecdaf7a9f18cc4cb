package shop

import "github.com/oleastore/storefront/internal/api"

// Shipping is free above the subtotal threshold, a flat fee otherwise.
const (
	FreeShippingThreshold = 2000.0
	ShippingFee           = 99.0
)

func Subtotal(items []api.CartItem) float64 {
	var total float64
	for _, it := range items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		total += it.Product.Price * float64(qty)
	}
	return total
}

// Totals computes subtotal, shipping fee and grand total for a cart.
func Totals(items []api.CartItem) (subtotal, shipping, grand float64) {
	subtotal = Subtotal(items)
	if subtotal > FreeShippingThreshold {
		shipping = 0
	} else {
		shipping = ShippingFee
	}
	return subtotal, shipping, subtotal + shipping
}
