package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type UserQuery struct {
	Page int
	Role string
}

func (c *Client) Users(ctx context.Context, q UserQuery) (*UserPage, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Role != "" {
		v.Set("role", q.Role)
	}
	var out UserPage
	if err := c.get(ctx, "/users/", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserByID(ctx context.Context, id uint) (*User, error) {
	var out User
	if err := c.get(ctx, fmt.Sprintf("/users/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BlockUser toggles the soft block on an account.
func (c *Client) BlockUser(ctx context.Context, id uint) error {
	return c.patch(ctx, fmt.Sprintf("/block-user/%d/", id), nil, nil)
}
