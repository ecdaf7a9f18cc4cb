package api

import (
	"context"
	"net/url"
)

// Dashboard range values accepted by the backend.
const (
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
)

// Dashboard fetches the pre-aggregated admin figures for charting.
func (c *Client) Dashboard(ctx context.Context, timeRange string) (*DashboardStats, error) {
	v := url.Values{}
	if timeRange != "" {
		v.Set("range", timeRange)
	}
	var out DashboardStats
	if err := c.get(ctx, "/admin-dashboard/", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
