package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/oleastore/storefront/internal/api"
	"github.com/oleastore/storefront/internal/config"
	"github.com/oleastore/storefront/internal/logging"
	"github.com/oleastore/storefront/internal/session"
	"github.com/oleastore/storefront/internal/shop"
)

const usage = `usage: storefront <command> [flags]

account:
  register -username U -email E -password P
  login -email E -password P
  logout
  whoami
  forgot-password -email E
  reset-password -email E -otp O -password P

catalog:
  products [-page N] [-category C] [-search Q]

cart:
  cart
  cart-add <product-id>
  cart-update <item-id> <quantity>
  cart-remove <item-id>
  cart-clear
  checkout -method cash|card|upi

wishlist:
  wishlist
  wishlist-add <product-id>
  wishlist-remove <item-id>
  wishlist-clear

orders:
  orders

admin:
  dashboard [-range week|month|year]
  manage-orders [-status S] [-page N]
  order-status <order-id> <status>
  users [-page N]
  block-user <user-id>
`

// terminalNotifier is the CLI's toast bar.
type terminalNotifier struct{}

func (terminalNotifier) Notify(level shop.Level, message string) {
	fmt.Printf("[%s] %s\n", level, message)
}

// terminalNavigator just tells the user where the app would send them.
type terminalNavigator struct{}

func (terminalNavigator) Navigate(route string) {
	switch route {
	case session.RouteLogin:
		fmt.Println("(session expired, please login again)")
	default:
		fmt.Println("(back to", route+")")
	}
}

type app struct {
	client  *api.Client
	session *session.Store
	shop    *shop.Store
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.LoadClient()
	logger := logging.New(cfg.LogLevel)

	ks, err := session.OpenKeystore(cfg.SessionDBPath)
	if err != nil {
		log.Fatalf("open session store: %v", err)
	}
	defer ks.Close()

	sess, err := session.NewStore(ks, terminalNavigator{}, logger)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}
	client := api.New(cfg.BaseURL, sess)
	store := shop.NewStore(client, sess, terminalNotifier{}, logger)

	a := &app{client: client, session: sess, shop: store}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	ctx = logging.IntoContext(ctx, logger)

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.session.Logout()
		return nil
	case "whoami":
		return a.whoami()
	case "forgot-password":
		return a.forgotPassword(ctx, args)
	case "reset-password":
		return a.resetPassword(ctx, args)
	case "products":
		return a.products(ctx, args)
	case "cart":
		return a.cart(ctx)
	case "cart-add":
		return a.cartAdd(ctx, args)
	case "cart-update":
		return a.cartUpdate(ctx, args)
	case "cart-remove":
		return a.cartRemove(ctx, args)
	case "cart-clear":
		a.shop.ClearCart(ctx)
		return nil
	case "checkout":
		return a.checkout(ctx, args)
	case "wishlist":
		return a.wishlist(ctx)
	case "wishlist-add":
		return a.wishlistAdd(ctx, args)
	case "wishlist-remove":
		return a.wishlistRemove(ctx, args)
	case "wishlist-clear":
		a.shop.ClearWishlist(ctx)
		return nil
	case "orders":
		return a.orders(ctx)
	case "dashboard":
		return a.dashboard(ctx, args)
	case "manage-orders":
		return a.manageOrders(ctx, args)
	case "order-status":
		return a.orderStatus(ctx, args)
	case "users":
		return a.users(ctx, args)
	case "block-user":
		return a.blockUser(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func argID(args []string, pos int, name string) (uint, error) {
	if len(args) <= pos {
		return 0, fmt.Errorf("%s required", name)
	}
	n, err := strconv.Atoi(args[pos])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, args[pos])
	}
	return uint(n), nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	user, err := a.client.Register(ctx, api.RegisterRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (#%d), you can login now\n", user.Username, user.ID)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	res, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.session.Login(res.User, res.Access, res.Refresh); err != nil {
		return err
	}
	fmt.Printf("welcome back, %s\n", res.User.Username)
	if a.session.IsAdmin() {
		fmt.Println("(admin commands available)")
	}
	return nil
}

func (a *app) forgotPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	fs.Parse(args)

	if err := a.client.ForgotPassword(ctx, *email); err != nil {
		return err
	}
	fmt.Println("if the address is registered, an OTP was issued")
	return nil
}

func (a *app) resetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	otp := fs.String("otp", "", "one-time code")
	password := fs.String("password", "", "new password")
	fs.Parse(args)

	if err := a.client.ResetPassword(ctx, *email, *otp, *password); err != nil {
		return err
	}
	fmt.Println("password updated, you can login now")
	return nil
}

func (a *app) whoami() error {
	user := a.session.User()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", user.Username, user.Email, user.Role)
	return nil
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	category := fs.String("category", "", "category filter")
	search := fs.String("search", "", "search query")
	fs.Parse(args)

	res, err := a.client.Products(ctx, api.ProductQuery{
		Page:     *page,
		Category: *category,
		Search:   *search,
	})
	if err != nil {
		return err
	}
	for _, p := range res.Results {
		fmt.Printf("#%-5d %-30s ₹%-10.2f %s\n", p.ID, p.Name, p.Price, p.Category)
	}
	fmt.Printf("(%d of %d products)\n", len(res.Results), res.Count)
	return nil
}

func (a *app) cart(ctx context.Context) error {
	items, err := a.client.Cart(ctx)
	if err != nil {
		return err
	}
	for _, it := range items {
		fmt.Printf("#%-5d %-30s ×%-3d ₹%.2f\n", it.ID, it.Product.Name, it.Quantity, it.Product.Price)
	}
	subtotal, shipping, grand := shop.Totals(items)
	fmt.Printf("subtotal ₹%.2f", subtotal)
	if shipping == 0 {
		fmt.Print("  shipping FREE")
	} else {
		fmt.Printf("  shipping ₹%.2f", shipping)
	}
	fmt.Printf("  total ₹%.2f\n", grand)
	return nil
}

func (a *app) cartAdd(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "product id")
	if err != nil {
		return err
	}
	a.shop.AddToCart(ctx, api.Product{ID: id})
	return nil
}

func (a *app) cartUpdate(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "item id")
	if err != nil {
		return err
	}
	qty, err := argID(args, 1, "quantity")
	if err != nil {
		return err
	}
	item, err := a.client.UpdateCartItem(ctx, id, qty)
	if err != nil {
		return err
	}
	fmt.Printf("updated: %s ×%d\n", item.Product.Name, item.Quantity)
	a.shop.LoadCartCount(ctx)
	return nil
}

func (a *app) cartRemove(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "item id")
	if err != nil {
		return err
	}
	if err := a.client.RemoveCartItem(ctx, id); err != nil {
		return err
	}
	a.shop.LoadCartCount(ctx)
	fmt.Println("removed")
	return nil
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	method := fs.String("method", "cash", "payment method: cash, card or upi")
	fs.Parse(args)

	order, err := a.client.CreatePaymentOrder(ctx, *method)
	if err != nil {
		return err
	}
	if *method == "cash" {
		fmt.Printf("order #%d placed, pay on delivery\n", order.OrderID)
		a.shop.ClearLocal()
		return nil
	}
	fmt.Printf("gateway order %s for ₹%.2f %s (key %s)\n",
		order.RazorpayOrderID, order.Amount, order.Currency, order.KeyID)
	fmt.Println("complete the payment in the gateway, then the backend verifies it")
	return nil
}

func (a *app) wishlist(ctx context.Context) error {
	a.shop.LoadWishlist(ctx)
	items := a.shop.WishlistItems()
	for _, it := range items {
		fmt.Printf("#%-5d %-30s ₹%.2f\n", it.ID, it.Product.Name, it.Product.Price)
	}
	fmt.Printf("(%d items)\n", a.shop.WishlistCount())
	return nil
}

func (a *app) wishlistAdd(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "product id")
	if err != nil {
		return err
	}
	a.shop.AddToWishlist(ctx, api.Product{ID: id})
	return nil
}

func (a *app) wishlistRemove(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "item id")
	if err != nil {
		return err
	}
	a.shop.RemoveFromWishlist(ctx, id)
	return nil
}

func (a *app) orders(ctx context.Context) error {
	orders, err := a.client.Orders(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		fmt.Printf("#%-5d %-12s %-10s ₹%-10.2f %s\n",
			o.OrderID, o.Status, o.PaymentStatus, o.TotalAmount, o.CreatedAt)
	}
	return nil
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	timeRange := fs.String("range", api.RangeMonth, "week, month or year")
	fs.Parse(args)

	stats, err := a.client.Dashboard(ctx, *timeRange)
	if err != nil {
		return err
	}
	fmt.Printf("revenue ₹%.2f  orders %d  users %d  products %d\n",
		stats.TotalRevenue, stats.TotalOrders, stats.TotalUsers, stats.TotalProducts)
	for _, p := range stats.Sales {
		fmt.Printf("  %s  ₹%-10.2f %d orders\n", p.Date, p.Revenue, p.Orders)
	}
	for _, s := range stats.CategoryBreakdown {
		fmt.Printf("  %-20s %d\n", s.Category, s.Count)
	}
	return nil
}

func (a *app) manageOrders(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("manage-orders", flag.ExitOnError)
	status := fs.String("status", "", "status filter")
	page := fs.Int("page", 1, "page number")
	fs.Parse(args)

	res, err := a.client.ManageOrders(ctx, api.OrderQuery{Page: *page, Status: *status})
	if err != nil {
		return err
	}
	for _, o := range res.Results {
		fmt.Printf("#%-5d %-12s %-10s ₹%.2f\n", o.OrderID, o.Status, o.PaymentStatus, o.TotalAmount)
	}
	fmt.Printf("(%d of %d orders)\n", len(res.Results), res.Count)
	return nil
}

func (a *app) orderStatus(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "order id")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("status required")
	}
	order, err := a.client.UpdateOrderStatus(ctx, id, args[1])
	if err != nil {
		return err
	}
	fmt.Printf("order #%d is now %s\n", order.OrderID, order.Status)
	return nil
}

func (a *app) users(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	fs.Parse(args)

	res, err := a.client.Users(ctx, api.UserQuery{Page: *page})
	if err != nil {
		return err
	}
	for _, u := range res.Results {
		fmt.Printf("#%-5d %-20s %-30s %s\n", u.ID, u.Username, u.Email, u.Role)
	}
	fmt.Printf("(%d of %d users)\n", len(res.Results), res.Count)
	return nil
}

func (a *app) blockUser(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "user id")
	if err != nil {
		return err
	}
	if err := a.client.BlockUser(ctx, id); err != nil {
		return err
	}
	fmt.Println("toggled block for user", id)
	return nil
}
