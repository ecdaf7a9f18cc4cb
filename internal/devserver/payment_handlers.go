package devserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/oleastore/storefront/internal/api"
	"github.com/oleastore/storefront/internal/logging"
	"github.com/oleastore/storefront/internal/shop"
)

// PaymentHandler stands in for the Razorpay delegation endpoints. The
// signature scheme matches the real gateway (HMAC-SHA256 of
// "order_id|payment_id" with the key secret) so client-side verification
// flows can be exercised end to end.
type PaymentHandler struct {
	DB        *gorm.DB
	Producer  *Producer
	KeyID     string
	KeySecret string
}

func razorpaySignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreateOrder builds an order from the caller's cart. Cash orders are
// finalized immediately; card/upi orders wait for verification.
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_payment_order")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	switch req.PaymentMethod {
	case "cash", "card", "upi":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	var rows []CartItem
	if err := h.DB.Where("user_id = ?", uid).Find(&rows).Error; err != nil {
		l.Error("create_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if len(rows) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
	}

	items := make([]api.CartItem, 0, len(rows))
	for _, row := range rows {
		dto, err := cartItemDTO(h.DB, row)
		if err != nil {
			l.Error("create_order_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		items = append(items, dto)
	}
	_, _, grand := shop.Totals(items)

	cash := req.PaymentMethod == "cash"
	order := Order{
		UserID:      uid,
		Status:      api.OrderPending,
		TotalAmount: grand,
		CreatedAt:   time.Now().UTC(),
	}
	if cash {
		order.PaymentStatus = "cod"
	} else {
		order.PaymentStatus = "created"
		order.RazorpayOrderID = "order_" + uuid.NewString()
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i, row := range rows {
			oi := OrderItem{
				OrderID:   order.ID,
				UserID:    uid,
				ProductID: row.ProductID,
				Quantity:  row.Quantity,
				Price:     items[i].Product.Price,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
		}
		if cash {
			// Cash orders clear the cart immediately; gateway orders
			// keep it until the payment verifies.
			return tx.Where("user_id = ?", uid).Delete(&CartItem{}).Error
		}
		return nil
	})
	if txErr != nil {
		l.Error("create_order_error", "status", 500, "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(ctx, h.Producer, l, "cart_events", fmt.Sprint(uid), map[string]any{
		"type":    "order_created",
		"userID":  uid,
		"orderID": order.ID,
		"method":  req.PaymentMethod,
	})

	l.Info("order_created", "order_id", order.ID, "method", req.PaymentMethod)
	if cash {
		dto, err := orderDTO(h.DB, order)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		return c.JSON(http.StatusCreated, dto)
	}
	return c.JSON(http.StatusCreated, api.PaymentOrder{
		OrderID:         order.ID,
		RazorpayOrderID: order.RazorpayOrderID,
		Amount:          order.TotalAmount,
		Currency:        "INR",
		KeyID:           h.KeyID,
	})
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "verify_payment")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req api.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order id, payment id and signature required")
	}

	want := razorpaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, h.KeySecret)
	if !hmac.Equal([]byte(want), []byte(req.RazorpaySignature)) {
		l.Warn("verify_payment_failed", "status", 400, "reason", "bad_signature")
		return echo.NewHTTPError(http.StatusBadRequest, "signature mismatch")
	}

	var order Order
	if err := h.DB.Where("razorpay_order_id = ? AND user_id = ?", req.RazorpayOrderID, uid).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("verify_payment_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		order.PaymentStatus = "paid"
		order.Status = api.OrderProcessing
		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", uid).Delete(&CartItem{}).Error
	})
	if txErr != nil {
		l.Error("verify_payment_error", "status", 500, "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(ctx, h.Producer, l, "cart_events", fmt.Sprint(uid), map[string]any{
		"type":    "payment_verified",
		"userID":  uid,
		"orderID": order.ID,
	})

	dto, err := orderDTO(h.DB, order)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	l.Info("payment_verified", "order_id", order.ID)
	return c.JSON(http.StatusOK, dto)
}
