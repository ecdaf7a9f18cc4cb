package api

import "context"

// CreatePaymentOrder delegates order creation to the payment gateway.
// method is "cash", "card" or "upi".
func (c *Client) CreatePaymentOrder(ctx context.Context, method string) (*PaymentOrder, error) {
	var out PaymentOrder
	body := map[string]string{"payment_method": method}
	if err := c.post(ctx, "/create-razorpay-order/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*Order, error) {
	var out Order
	if err := c.post(ctx, "/verify-razorpay-payment/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
