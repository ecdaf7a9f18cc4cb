package devserver

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/oleastore/storefront/internal/api"
	"github.com/oleastore/storefront/internal/logging"
)

type DashboardHandler struct {
	DB *gorm.DB
}

// Dashboard serves the pre-aggregated figures the admin charts consume.
// Aggregation happens in Go so the same code runs against sqlite and
// postgres.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_dashboard")

	timeRange := c.QueryParam("range")
	var since time.Time
	var bucket string
	now := time.Now().UTC()
	switch timeRange {
	case api.RangeWeek:
		since = now.AddDate(0, 0, -7)
		bucket = "2006-01-02"
	case api.RangeYear:
		since = now.AddDate(-1, 0, 0)
		bucket = "2006-01"
	case api.RangeMonth, "":
		since = now.AddDate(0, -1, 0)
		bucket = "2006-01-02"
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "range must be week, month or year")
	}

	var orders []Order
	if err := h.DB.Where("created_at >= ?", since).Find(&orders).Error; err != nil {
		l.Error("dashboard_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	stats := api.DashboardStats{}
	points := map[string]*api.SalesPoint{}
	orderIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		if o.Status == api.OrderCancelled {
			continue
		}
		stats.TotalRevenue += o.TotalAmount
		stats.TotalOrders++
		orderIDs = append(orderIDs, o.ID)

		key := o.CreatedAt.Format(bucket)
		p, ok := points[key]
		if !ok {
			p = &api.SalesPoint{Date: key}
			points[key] = p
		}
		p.Revenue += o.TotalAmount
		p.Orders++
	}

	stats.Sales = make([]api.SalesPoint, 0, len(points))
	for _, p := range points {
		stats.Sales = append(stats.Sales, *p)
	}
	sort.Slice(stats.Sales, func(i, j int) bool { return stats.Sales[i].Date < stats.Sales[j].Date })

	if err := h.DB.Model(&User{}).Count(&stats.TotalUsers).Error; err != nil {
		l.Error("dashboard_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if err := h.DB.Model(&Product{}).Count(&stats.TotalProducts).Error; err != nil {
		l.Error("dashboard_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	stats.CategoryBreakdown = []api.CategorySlice{}
	if len(orderIDs) > 0 {
		var items []OrderItem
		if err := h.DB.Where("order_id IN ?", orderIDs).Find(&items).Error; err != nil {
			l.Error("dashboard_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		byCategory := map[string]int64{}
		for _, it := range items {
			var p Product
			if err := h.DB.First(&p, it.ProductID).Error; err != nil {
				continue
			}
			category := p.Category
			if category == "" {
				category = "uncategorized"
			}
			byCategory[category] += int64(it.Quantity)
		}
		for category, count := range byCategory {
			stats.CategoryBreakdown = append(stats.CategoryBreakdown, api.CategorySlice{
				Category: category,
				Count:    count,
			})
		}
		sort.Slice(stats.CategoryBreakdown, func(i, j int) bool {
			return stats.CategoryBreakdown[i].Category < stats.CategoryBreakdown[j].Category
		})
	}

	return c.JSON(http.StatusOK, stats)
}
