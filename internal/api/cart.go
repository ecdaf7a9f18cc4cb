package api

import (
	"context"
	"fmt"
)

func (c *Client) Cart(ctx context.Context) ([]CartItem, error) {
	var items []CartItem
	if err := c.get(ctx, "/cart/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) AddToCart(ctx context.Context, productID, quantity uint) (*CartItem, error) {
	var out CartItem
	body := map[string]uint{"product_id": productID, "quantity": quantity}
	if err := c.post(ctx, "/cart/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, id, quantity uint) (*CartItem, error) {
	var out CartItem
	body := map[string]uint{"quantity": quantity}
	if err := c.patch(ctx, fmt.Sprintf("/cart/%d/", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/cart/%d/", id))
}
