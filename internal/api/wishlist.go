package api

import (
	"context"
	"fmt"
)

func (c *Client) Wishlist(ctx context.Context) ([]WishlistItem, error) {
	var items []WishlistItem
	if err := c.get(ctx, "/wishlist/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) AddToWishlist(ctx context.Context, productID uint) (*WishlistItem, error) {
	var out WishlistItem
	body := map[string]uint{"product_id": productID}
	if err := c.post(ctx, "/wishlist/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveWishlistItem(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/wishlist/%d/", id))
}
