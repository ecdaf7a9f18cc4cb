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

type WishlistHandler struct {
	DB       *gorm.DB
	Producer *Producer
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_wishlist")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var items []WishlistItem
	if err := h.DB.Where("user_id = ?", uid).Find(&items).Error; err != nil {
		l.Error("get_wishlist_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := make([]api.WishlistItem, 0, len(items))
	for _, it := range items {
		dto, err := wishlistItemDTO(h.DB, it)
		if err != nil {
			l.Error("get_wishlist_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		out = append(out, dto)
	}
	return c.JSON(http.StatusOK, out)
}

// AddToWishlist enforces set semantics per (user, product); a duplicate add
// is a 400 "already in wishlist".
func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add_to_wishlist")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	var product Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_to_wishlist_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var existing WishlistItem
	err = h.DB.Where("user_id = ? AND product_id = ?", uid, req.ProductID).First(&existing).Error
	if err == nil {
		l.Info("add_to_wishlist_duplicate", "status", 400, "product_id", req.ProductID)
		return echo.NewHTTPError(http.StatusBadRequest, "already in wishlist")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("add_to_wishlist_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	item := WishlistItem{UserID: uid, ProductID: req.ProductID}
	if err := h.DB.Create(&item).Error; err != nil {
		l.Error("add_to_wishlist_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(ctx, h.Producer, l, "cart_events", fmt.Sprint(uid), map[string]any{
		"type":      "wishlist_item_added",
		"userID":    uid,
		"productID": req.ProductID,
	})

	dto, err := wishlistItemDTO(h.DB, item)
	if err != nil {
		l.Error("add_to_wishlist_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	l.Info("wishlist_item_added", "item_id", item.ID)
	return c.JSON(http.StatusCreated, dto)
}

func (h *WishlistHandler) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_wishlist_item")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, uid).Delete(&WishlistItem{})
	if res.Error != nil {
		l.Error("delete_wishlist_error", "status", 500, "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}

	publish(ctx, h.Producer, l, "cart_events", fmt.Sprint(uid), map[string]any{
		"type":         "wishlist_item_deleted",
		"userID":       uid,
		"deleted_item": id,
	})

	return c.NoContent(http.StatusNoContent)
}
