package devserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/oleastore/storefront/internal/api"
	"github.com/oleastore/storefront/internal/logging"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *Producer
}

var validStatuses = map[string]bool{
	api.OrderPending:    true,
	api.OrderProcessing: true,
	api.OrderShipped:    true,
	api.OrderDelivered:  true,
	api.OrderCancelled:  true,
}

// GetOrders returns the calling user's orders, newest first.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_orders")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var orders []Order
	if err := h.DB.Where("user_id = ?", uid).Order("id DESC").Find(&orders).Error; err != nil {
		l.Error("get_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := make([]api.Order, 0, len(orders))
	for _, o := range orders {
		dto, err := orderDTO(h.DB, o)
		if err != nil {
			l.Error("get_orders_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		out = append(out, dto)
	}
	return c.JSON(http.StatusOK, out)
}

// ManageOrders is the admin listing: paginated, optional status filter.
func (h *OrderHandler) ManageOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "manage_orders")

	offset, limit := pageParams(c)

	q := h.DB.Model(&Order{})
	if status := c.QueryParam("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		l.Error("manage_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var orders []Order
	if err := q.Offset(offset).Limit(limit).Order("id DESC").Find(&orders).Error; err != nil {
		l.Error("manage_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := make([]api.Order, 0, len(orders))
	for _, o := range orders {
		dto, err := orderDTO(h.DB, o)
		if err != nil {
			l.Error("manage_orders_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		out = append(out, dto)
	}
	return c.JSON(http.StatusOK, api.OrderPage{Results: out, Count: count})
}

func (h *OrderHandler) ManageOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var order Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	dto, err := orderDTO(h.DB, order)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, dto)
}

// UpdateStatus transitions an order's status within the closed status set.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update_order_status")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !validStatuses[req.Status] {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var order Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("update_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	order.Status = req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		l.Error("update_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	dto, err := orderDTO(h.DB, order)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	l.Info("order_status_updated", "order_id", order.ID, "new_status", order.Status)
	return c.JSON(http.StatusOK, dto)
}
