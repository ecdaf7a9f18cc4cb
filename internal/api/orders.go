package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Orders returns the calling user's orders.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.get(ctx, "/orders/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type OrderQuery struct {
	Page   int
	Status string
}

func (c *Client) ManageOrders(ctx context.Context, q OrderQuery) (*OrderPage, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	var out OrderPage
	if err := c.get(ctx, "/manage-orders/", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ManageOrder(ctx context.Context, id uint) (*Order, error) {
	var out Order
	if err := c.get(ctx, fmt.Sprintf("/manage-orders/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uint, status string) (*Order, error) {
	var out Order
	body := map[string]string{"status": status}
	if err := c.patch(ctx, fmt.Sprintf("/manage-orders/%d/", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
