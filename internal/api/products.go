package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ProductQuery narrows product listings. Zero values are omitted.
type ProductQuery struct {
	Page     int
	PageSize int
	Category string
	Search   string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

func (c *Client) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	var out ProductPage
	if err := c.get(ctx, "/products/", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Product(ctx context.Context, id uint) (*Product, error) {
	var out Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Admin variants live under /manage-products/.

func (c *Client) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	var out Product
	if err := c.post(ctx, "/manage-products/", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, p Product) (*Product, error) {
	var out Product
	if err := c.patch(ctx, fmt.Sprintf("/manage-products/%d/", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/manage-products/%d/", id))
}
