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

type UserHandler struct {
	DB *gorm.DB
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list_users")

	offset, limit := pageParams(c)

	q := h.DB.Model(&User{})
	if role := c.QueryParam("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		l.Error("list_users_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var users []User
	if err := q.Offset(offset).Limit(limit).Order("id").Find(&users).Error; err != nil {
		l.Error("list_users_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := make([]api.User, len(users))
	for i, u := range users {
		out[i] = userDTO(u)
	}
	return c.JSON(http.StatusOK, api.UserPage{Results: out, Count: count})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var u User
	if err := h.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, userDTO(u))
}

// BlockUser toggles the soft block flag on an account.
func (h *UserHandler) BlockUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "block_user")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var u User
	if err := h.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("block_user_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	u.Blocked = !u.Blocked
	if err := h.DB.Save(&u).Error; err != nil {
		l.Error("block_user_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("block_user_toggled", "user_id", u.ID, "blocked", u.Blocked)
	return c.JSON(http.StatusOK, echo.Map{"id": u.ID, "blocked": u.Blocked})
}
