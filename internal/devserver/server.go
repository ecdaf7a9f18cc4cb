package devserver

import (
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/oleastore/storefront/internal/config"
	"github.com/oleastore/storefront/internal/logging"
)

type Deps struct {
	Auth      *AuthHandler
	Cart      *CartHandler
	Wishlist  *WishlistHandler
	Product   *ProductHandler
	Order     *OrderHandler
	User      *UserHandler
	Payment   *PaymentHandler
	Dashboard *DashboardHandler

	JWTSecret []byte
	Logger    *slog.Logger
}

// New wires a complete devserver around the given stores.
func New(cfg *config.ServerConfig, db *gorm.DB, producer *Producer, es *elasticsearch.Client, logger *slog.Logger) *echo.Echo {
	deps := &Deps{
		Auth:      &AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret, Producer: producer},
		Cart:      &CartHandler{DB: db, Producer: producer},
		Wishlist:  &WishlistHandler{DB: db, Producer: producer},
		Product:   &ProductHandler{DB: db, Producer: producer, ES: es},
		Order:     &OrderHandler{DB: db, Producer: producer},
		User:      &UserHandler{DB: db},
		Payment:   &PaymentHandler{DB: db, Producer: producer, KeyID: cfg.RazorpayKeyID, KeySecret: cfg.RazorpaySecret},
		Dashboard: &DashboardHandler{DB: db},
		JWTSecret: cfg.JWTSecret,
		Logger:    logger,
	}

	e := echo.New()
	e.HideBanner = true
	Register(e, deps)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	if d.Logger != nil {
		logger := d.Logger
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				req := c.Request()
				ctx := logging.IntoContext(req.Context(), logger)
				c.SetRequest(req.WithContext(ctx))
				return next(c)
			}
		})
	}

	// Public surface.
	e.POST("/login", d.Auth.Login)
	e.POST("/register", d.Auth.Register)
	e.POST("/token/refresh", d.Auth.Refresh)
	e.POST("/forgot-password", d.Auth.ForgotPassword)
	e.POST("/reset-password", d.Auth.ResetPassword)
	e.GET("/products", d.Product.ListProducts)
	e.GET("/products/:id", d.Product.GetProduct)

	// Authenticated user surface.
	authed := e.Group("", bearerAuth(d.JWTSecret))
	authed.GET("/cart", d.Cart.GetCart)
	authed.POST("/cart", d.Cart.AddToCart)
	authed.PATCH("/cart/:id", d.Cart.UpdateQuantity)
	authed.DELETE("/cart/:id", d.Cart.DeleteItem)
	authed.GET("/wishlist", d.Wishlist.GetWishlist)
	authed.POST("/wishlist", d.Wishlist.AddToWishlist)
	authed.DELETE("/wishlist/:id", d.Wishlist.DeleteItem)
	authed.GET("/orders", d.Order.GetOrders)
	authed.POST("/create-razorpay-order", d.Payment.CreateOrder)
	authed.POST("/verify-razorpay-payment", d.Payment.VerifyPayment)

	// Admin back-office.
	admin := e.Group("", bearerAuth(d.JWTSecret), requireAdmin())
	admin.POST("/manage-products", d.Product.CreateProduct)
	admin.PATCH("/manage-products/:id", d.Product.UpdateProduct)
	admin.DELETE("/manage-products/:id", d.Product.DeleteProduct)
	admin.GET("/manage-orders", d.Order.ManageOrders)
	admin.GET("/manage-orders/:id", d.Order.ManageOrder)
	admin.PATCH("/manage-orders/:id", d.Order.UpdateStatus)
	admin.GET("/users", d.User.ListUsers)
	admin.GET("/users/:id", d.User.GetUser)
	admin.PATCH("/block-user/:id", d.User.BlockUser)
	admin.GET("/admin-dashboard", d.Dashboard.Dashboard)
}
