package devserver

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/oleastore/storefront/internal/api"
	"github.com/oleastore/storefront/internal/hash"
	"github.com/oleastore/storefront/internal/logging"
)

const otpTTL = 10 * time.Minute

type AuthHandler struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		l.Warn("register_error", "status", 400, "reason", "missing_fields")
		return echo.NewHTTPError(http.StatusBadRequest, "username, email and password required")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var existing User
	err = h.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error
	if err == nil {
		l.Warn("register_failed", "status", 409, "reason", "user_exists")
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_error", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := h.DB.Create(&user).Error; err != nil {
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(ctx, h.Producer, l, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, userDTO(user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if user.Blocked {
		l.Warn("login_failed", "status", 403, "reason", "blocked")
		return echo.NewHTTPError(http.StatusForbidden, "account blocked")
	}

	access, err := signAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create token")
	}
	refresh, jti, err := signRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create token")
	}
	if err := saveRefreshToken(h.DB, refresh, jti, user.ID); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(ctx, h.Producer, l, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("login_success", "user_id", user.ID, "role", user.Role)
	return c.JSON(http.StatusOK, api.LoginResponse{
		Access:  access,
		Refresh: refresh,
		User:    userDTO(user),
	})
}

// Refresh exchanges a valid refresh token for a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.Bind(&req); err != nil || req.Refresh == "" {
		l.Warn("refresh_error", "status", 400)
		return echo.NewHTTPError(http.StatusBadRequest, "refresh token required")
	}

	claims, err := validateRefresh(h.DB, req.Refresh, h.RefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	sub, _ := claims["sub"].(float64)
	role, _ := claims["role"].(string)

	access, err := signAccessToken(uint(sub), role, h.JWTSecret)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create token")
	}

	l.Info("refresh_success", "user_id", uint(sub))
	return c.JSON(http.StatusOK, echo.Map{"access": access})
}

func newOTP() string {
	id := uuid.New()
	n := binary.BigEndian.Uint32(id[:4]) % 1000000
	return fmt.Sprintf("%06d", n)
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_forgot_password")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email required")
	}

	// Whether the address exists or not the answer is the same, so the
	// endpoint cannot be used to enumerate accounts.
	var user User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		reset := PasswordReset{
			Email:     req.Email,
			OTP:       newOTP(),
			ExpiresAt: time.Now().Add(otpTTL).Unix(),
		}
		if err := h.DB.Create(&reset).Error; err != nil {
			l.Error("forgot_password_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		// No mailer here: the OTP lands in the server log.
		l.Info("otp_issued", "email", req.Email, "otp", reset.OTP)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent if the address is registered"})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_reset_password")

	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email, otp and new_password required")
	}

	var reset PasswordReset
	err := h.DB.Where("email = ? AND otp = ? AND used = ? AND expires_at > ?",
		req.Email, req.OTP, false, time.Now().Unix()).
		Order("id DESC").First(&reset).Error
	if err != nil {
		l.Warn("reset_password_failed", "status", 400, "reason", "invalid_otp")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired OTP")
	}

	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		l.Error("reset_password_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&User{}).Where("email = ?", req.Email).
			Update("password_hash", pwHash).Error; err != nil {
			return err
		}
		return tx.Model(&reset).Update("used", true).Error
	})
	if txErr != nil {
		l.Error("reset_password_failed", "status", 500, "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("reset_password_success", "email", req.Email)
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
