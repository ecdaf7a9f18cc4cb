package devserver

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oleastore/storefront/internal/api"
	"github.com/oleastore/storefront/internal/config"
	"github.com/oleastore/storefront/internal/hash"
	"github.com/oleastore/storefront/internal/logging"
)

// memTokens is an in-memory api.TokenSource for driving the real client
// against the test server.
type memTokens struct {
	mu          sync.Mutex
	access      string
	refresh     string
	invalidated bool
}

func (m *memTokens) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memTokens) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memTokens) SetAccessToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = token
	return nil
}

func (m *memTokens) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = true
	m.access = ""
	m.refresh = ""
}

type testEnv struct {
	srv *httptest.Server
	db  *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := initTestDB(t)
	cfg := &config.ServerConfig{
		JWTSecret:      []byte("test-jwt-secret"),
		RefreshSecret:  []byte("test-refresh-secret"),
		RazorpayKeyID:  "rzp_test_key",
		RazorpaySecret: "rzp_test_secret",
		LogLevel:       "error",
	}
	e := New(cfg, db, nil, nil, logging.New("error"))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, db: db}
}

func (e *testEnv) anon() *api.Client {
	return api.New(e.srv.URL, nil)
}

// signup registers and logs in a fresh user and returns an authenticated
// client speaking through the refresh transport.
func (e *testEnv) signup(t *testing.T, name string) (*api.Client, *memTokens, api.User) {
	t.Helper()

	ctx := context.Background()
	anon := e.anon()
	user, err := anon.Register(ctx, api.RegisterRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: "password",
	})
	require.NoError(t, err)

	res, err := anon.Login(ctx, name+"@example.com", "password")
	require.NoError(t, err)

	tokens := &memTokens{access: res.Access, refresh: res.Refresh}
	return api.New(e.srv.URL, tokens), tokens, *user
}

func (e *testEnv) admin(t *testing.T) *api.Client {
	t.Helper()

	pwHash, err := hash.HashPassword("admin-password")
	require.NoError(t, err)
	admin := User{Username: "admin", Email: "admin@example.com", PasswordHash: pwHash, Role: "admin"}
	require.NoError(t, e.db.Create(&admin).Error)

	res, err := e.anon().Login(context.Background(), "admin@example.com", "admin-password")
	require.NoError(t, err)
	return api.New(e.srv.URL, &memTokens{access: res.Access, refresh: res.Refresh})
}

func (e *testEnv) seedProduct(t *testing.T, name, category string, price float64) Product {
	t.Helper()
	p := Product{Name: name, Description: name + " description", Price: price, Category: category, Stock: 10}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func TestSignupFlowThroughClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client, _, user := env.signup(t, "ana")
	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, "user", user.Role)

	// Duplicate registration surfaces as a conflict on the client side.
	_, err := env.anon().Register(ctx, api.RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "password",
	})
	assert.Equal(t, api.KindConflict, api.KindOf(err))

	// Wrong password surfaces as unauthorized.
	_, err = env.anon().Login(ctx, "ana@example.com", "nope")
	assert.Equal(t, api.KindUnauthorized, api.KindOf(err))

	// The authed client reaches protected routes.
	items, err := client.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _, _ := env.signup(t, "carter")
	p := env.seedProduct(t, "mug", "kitchen", 350)

	item, err := client.AddToCart(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(1), item.Quantity, "quantity defaults to one")
	assert.Equal(t, "mug", item.Product.Name)

	_, err = client.AddToCart(ctx, p.ID, 1)
	assert.Equal(t, api.KindConflict, api.KindOf(err), "second add of the same product")

	_, err = client.AddToCart(ctx, 9999, 1)
	assert.Equal(t, api.KindNotFound, api.KindOf(err))

	updated, err := client.UpdateCartItem(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), updated.Quantity)

	_, err = client.UpdateCartItem(ctx, item.ID, 0)
	assert.Equal(t, api.KindValidation, api.KindOf(err))

	items, err := client.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint(3), items[0].Quantity)

	require.NoError(t, client.RemoveCartItem(ctx, item.ID))
	err = client.RemoveCartItem(ctx, item.ID)
	assert.Equal(t, api.KindNotFound, api.KindOf(err))
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, _, _ := env.signup(t, "alice")
	bob, _, _ := env.signup(t, "bob")
	p := env.seedProduct(t, "lamp", "home", 1200)

	_, err := alice.AddToCart(ctx, p.ID, 2)
	require.NoError(t, err)

	items, err := bob.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Bob adding the same product is not a conflict; the set is per user.
	_, err = bob.AddToCart(ctx, p.ID, 1)
	require.NoError(t, err)
}

func TestWishlistLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _, _ := env.signup(t, "wilma")
	p := env.seedProduct(t, "cap", "clothes", 499)

	item, err := client.AddToWishlist(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "cap", item.Product.Name)

	_, err = client.AddToWishlist(ctx, p.ID)
	assert.Equal(t, api.KindConflict, api.KindOf(err))

	items, err := client.Wishlist(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, client.RemoveWishlistItem(ctx, item.ID))
	err = client.RemoveWishlistItem(ctx, item.ID)
	assert.Equal(t, api.KindNotFound, api.KindOf(err))
}

func TestExpiredAccessTokenIsRefreshedTransparently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, tokens, _ := env.signup(t, "rita")

	// Simulate an expired access token; the refresh token stays valid.
	tokens.SetAccessToken("not-a-valid-token")

	items, err := client.Cart(ctx)
	require.NoError(t, err, "the transport should refresh and replay")
	assert.Empty(t, items)
	assert.NotEqual(t, "not-a-valid-token", tokens.AccessToken())
	assert.False(t, tokens.invalidated)
}

func TestRevokedRefreshTokenInvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, tokens, _ := env.signup(t, "lost")

	tokens.SetAccessToken("not-a-valid-token")
	require.NoError(t, env.db.Model(&RefreshToken{}).Where("1 = 1").Update("revoked", true).Error)

	_, err := client.Cart(ctx)
	assert.Equal(t, api.KindUnauthorized, api.KindOf(err))

	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	assert.True(t, tokens.invalidated)
}

func TestAdminSurfaceIsGated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.anon().ManageOrders(ctx, api.OrderQuery{})
	assert.Equal(t, api.KindUnauthorized, api.KindOf(err))

	user, _, _ := env.signup(t, "pleb")
	_, err = user.ManageOrders(ctx, api.OrderQuery{})
	assert.Equal(t, api.KindForbidden, api.KindOf(err))

	admin := env.admin(t)
	page, err := admin.ManageOrders(ctx, api.OrderQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Count)
}

func TestProductCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "steel mug", "kitchen", 350)
	env.seedProduct(t, "ceramic mug", "kitchen", 280)
	env.seedProduct(t, "desk lamp", "home", 1200)

	anon := env.anon()

	page, err := anon.Products(ctx, api.ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)

	// Search matches name or description without Elasticsearch wired.
	page, err = anon.Products(ctx, api.ProductQuery{Search: "mug"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)

	page, err = anon.Products(ctx, api.ProductQuery{Category: "home"})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "desk lamp", page.Results[0].Name)

	page, err = anon.Products(ctx, api.ProductQuery{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count, "count covers the whole set")
	assert.Len(t, page.Results, 2)

	_, err = anon.Product(ctx, 9999)
	assert.Equal(t, api.KindNotFound, api.KindOf(err))
}

func TestProductAdminCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)

	created, err := admin.CreateProduct(ctx, api.Product{Name: "chair", Price: 1500, Category: "home"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = admin.CreateProduct(ctx, api.Product{Name: "free chair"})
	assert.Equal(t, api.KindValidation, api.KindOf(err), "price is required")

	updated, err := admin.UpdateProduct(ctx, created.ID, api.Product{Price: 1250})
	require.NoError(t, err)
	assert.Equal(t, 1250.0, updated.Price)
	assert.Equal(t, "chair", updated.Name, "untouched fields survive a partial update")

	require.NoError(t, admin.DeleteProduct(ctx, created.ID))
	err = admin.DeleteProduct(ctx, created.ID)
	assert.Equal(t, api.KindNotFound, api.KindOf(err))
}

func TestCashCheckoutClearsCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _, _ := env.signup(t, "casey")
	p := env.seedProduct(t, "kettle", "kitchen", 500)

	_, err := client.AddToCart(ctx, p.ID, 2)
	require.NoError(t, err)

	order, err := client.CreatePaymentOrder(ctx, "cash")
	require.NoError(t, err)
	require.NotZero(t, order.OrderID)

	items, err := client.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "cash checkout empties the cart")

	orders, err := client.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, api.OrderPending, orders[0].Status)
	assert.Equal(t, "cod", orders[0].PaymentStatus)
	assert.Equal(t, 1099.0, orders[0].TotalAmount, "500x2 plus flat shipping")
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 500.0, orders[0].Items[0].Price, "price is snapshotted on the line")
}

func TestCheckoutWithEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	client, _, _ := env.signup(t, "empty")

	_, err := client.CreatePaymentOrder(context.Background(), "cash")
	assert.Equal(t, api.KindValidation, api.KindOf(err))
}

func TestGatewayCheckoutAndVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _, _ := env.signup(t, "gwen")
	p := env.seedProduct(t, "headphones", "audio", 2500)

	_, err := client.AddToCart(ctx, p.ID, 1)
	require.NoError(t, err)

	order, err := client.CreatePaymentOrder(ctx, "card")
	require.NoError(t, err)
	require.NotEmpty(t, order.RazorpayOrderID)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.KeyID)
	assert.Equal(t, 2500.0, order.Amount, "above the threshold ships free")

	items, err := client.Cart(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, items, "gateway checkout keeps the cart until the payment verifies")

	// A forged signature is rejected.
	_, err = client.VerifyPayment(ctx, api.VerifyPaymentRequest{
		RazorpayOrderID:   order.RazorpayOrderID,
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: "forged",
	})
	assert.Equal(t, api.KindValidation, api.KindOf(err))

	verified, err := client.VerifyPayment(ctx, api.VerifyPaymentRequest{
		RazorpayOrderID:   order.RazorpayOrderID,
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: razorpaySignature(order.RazorpayOrderID, "pay_123", "rzp_test_secret"),
	})
	require.NoError(t, err)
	assert.Equal(t, api.OrderProcessing, verified.Status)
	assert.Equal(t, "paid", verified.PaymentStatus)

	items, err = client.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderAdministration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _, _ := env.signup(t, "olaf")
	admin := env.admin(t)
	p := env.seedProduct(t, "notebook", "office", 150)

	_, err := client.AddToCart(ctx, p.ID, 1)
	require.NoError(t, err)
	created, err := client.CreatePaymentOrder(ctx, "cash")
	require.NoError(t, err)

	page, err := admin.ManageOrders(ctx, api.OrderQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Count)

	order, err := admin.ManageOrder(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, api.OrderPending, order.Status)

	updated, err := admin.UpdateOrderStatus(ctx, created.OrderID, api.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, api.OrderShipped, updated.Status)

	_, err = admin.UpdateOrderStatus(ctx, created.OrderID, "teleported")
	assert.Equal(t, api.KindValidation, api.KindOf(err))

	page, err = admin.ManageOrders(ctx, api.OrderQuery{Status: api.OrderShipped})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
	page, err = admin.ManageOrders(ctx, api.OrderQuery{Status: api.OrderDelivered})
	require.NoError(t, err)
	assert.Zero(t, page.Count)
}

func TestBlockUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, user := env.signup(t, "victim")
	admin := env.admin(t)

	require.NoError(t, admin.BlockUser(ctx, user.ID))

	_, err := env.anon().Login(ctx, "victim@example.com", "password")
	assert.Equal(t, api.KindForbidden, api.KindOf(err))

	// Blocking is a toggle.
	require.NoError(t, admin.BlockUser(ctx, user.ID))
	_, err = env.anon().Login(ctx, "victim@example.com", "password")
	require.NoError(t, err)
}

func TestUserAdministration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, user := env.signup(t, "ursula")
	admin := env.admin(t)

	page, err := admin.Users(ctx, api.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count, "the regular user and the admin")

	page, err = admin.Users(ctx, api.UserQuery{Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Count)
	assert.Equal(t, "admin", page.Results[0].Username)

	got, err := admin.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ursula", got.Username)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)

	mug := env.seedProduct(t, "mug", "kitchen", 300)
	lamp := env.seedProduct(t, "lamp", "", 1000)

	now := time.Now().UTC()
	seedOrder := func(total float64, status string, productID uint, qty uint) {
		o := Order{UserID: 1, Status: status, PaymentStatus: "cod", TotalAmount: total, CreatedAt: now}
		require.NoError(t, env.db.Create(&o).Error)
		require.NoError(t, env.db.Create(&OrderItem{
			OrderID: o.ID, UserID: 1, ProductID: productID, Quantity: qty, Price: total,
		}).Error)
	}
	seedOrder(600, api.OrderDelivered, mug.ID, 2)
	seedOrder(1000, api.OrderPending, lamp.ID, 1)
	seedOrder(9999, api.OrderCancelled, mug.ID, 1)

	stats, err := admin.Dashboard(ctx, api.RangeWeek)
	require.NoError(t, err)

	assert.Equal(t, 1600.0, stats.TotalRevenue, "cancelled orders do not count")
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.TotalProducts)
	require.Len(t, stats.Sales, 1)
	assert.Equal(t, now.Format("2006-01-02"), stats.Sales[0].Date)
	assert.Equal(t, int64(2), stats.Sales[0].Orders)

	require.Len(t, stats.CategoryBreakdown, 2)
	byCat := map[string]int64{}
	for _, s := range stats.CategoryBreakdown {
		byCat[s.Category] = s.Count
	}
	assert.Equal(t, int64(2), byCat["kitchen"])
	assert.Equal(t, int64(1), byCat["uncategorized"], "blank categories are grouped")

	_, err = admin.Dashboard(ctx, "decade")
	assert.Equal(t, api.KindValidation, api.KindOf(err))
}
