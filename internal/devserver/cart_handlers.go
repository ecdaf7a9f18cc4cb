package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/oleastore/storefront/internal/api"
	"github.com/oleastore/storefront/internal/logging"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_cart")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var items []CartItem
	if err := h.DB.Where("user_id = ?", uid).Find(&items).Error; err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := make([]api.CartItem, 0, len(items))
	for _, it := range items {
		dto, err := cartItemDTO(h.DB, it)
		if err != nil {
			l.Error("get_cart_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		out = append(out, dto)
	}
	return c.JSON(http.StatusOK, out)
}

// AddToCart creates one line per product. A second add for the same product
// is answered with 400 "already in cart", matching the upstream contract
// the client downgrades to an informational notice.
func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add_to_cart")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var product Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var existing CartItem
	err = h.DB.Where("user_id = ? AND product_id = ?", uid, req.ProductID).First(&existing).Error
	if err == nil {
		l.Info("add_to_cart_duplicate", "status", 400, "product_id", req.ProductID)
		return echo.NewHTTPError(http.StatusBadRequest, "already in cart")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	item := CartItem{UserID: uid, ProductID: req.ProductID, Quantity: req.Quantity}
	if err := h.DB.Create(&item).Error; err != nil {
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(ctx, h.Producer, l, "cart_events", fmt.Sprint(uid), map[string]any{
		"type":      "cart_item_added",
		"userID":    uid,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
	})

	dto, err := cartItemDTO(h.DB, item)
	if err != nil {
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	l.Info("cart_item_added", "item_id", item.ID)
	return c.JSON(http.StatusCreated, dto)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update_cart_quantity")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	}

	var item CartItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, uid).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("update_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	item.Quantity = req.Quantity
	if err := h.DB.Save(&item).Error; err != nil {
		l.Error("update_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(ctx, h.Producer, l, "cart_events", fmt.Sprint(uid), map[string]any{
		"type":         "cart_quantity_updated",
		"userID":       uid,
		"itemID":       item.ID,
		"new_quantity": item.Quantity,
	})

	dto, err := cartItemDTO(h.DB, item)
	if err != nil {
		l.Error("update_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CartHandler) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_cart_item")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, uid).Delete(&CartItem{})
	if res.Error != nil {
		l.Error("delete_cart_error", "status", 500, "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}

	publish(ctx, h.Producer, l, "cart_events", fmt.Sprint(uid), map[string]any{
		"type":         "cart_item_deleted",
		"userID":       uid,
		"deleted_item": id,
	})

	l.Info("cart_item_deleted", "item_id", id)
	return c.NoContent(http.StatusNoContent)
}
