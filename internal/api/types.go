package api

// Types mirror the storefront backend's JSON contract.

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type Product struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Stock       uint    `json:"stock"`
}

type CartItem struct {
	ID       uint    `json:"id"`
	Product  Product `json:"product"`
	Quantity uint    `json:"quantity"`
}

type WishlistItem struct {
	ID      uint    `json:"id"`
	Product Product `json:"product"`
}

// Order statuses as the backend reports them.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

type OrderItem struct {
	ID       uint    `json:"id"`
	Product  Product `json:"product"`
	Quantity uint    `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	OrderID       uint        `json:"order_id"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"total_amount"`
	CreatedAt     string      `json:"created_at"`
}

type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Paginated list envelopes ({results, count}).

type ProductPage struct {
	Results []Product `json:"results"`
	Count   int64     `json:"count"`
}

type OrderPage struct {
	Results []Order `json:"results"`
	Count   int64   `json:"count"`
}

type UserPage struct {
	Results []User `json:"results"`
	Count   int64  `json:"count"`
}

type SalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type CategorySlice struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type DashboardStats struct {
	TotalRevenue      float64         `json:"total_revenue"`
	TotalOrders       int64           `json:"total_orders"`
	TotalUsers        int64           `json:"total_users"`
	TotalProducts     int64           `json:"total_products"`
	Sales             []SalesPoint    `json:"sales"`
	CategoryBreakdown []CategorySlice `json:"category_breakdown"`
}

type PaymentOrder struct {
	OrderID         uint    `json:"order_id"`
	RazorpayOrderID string  `json:"razorpay_order_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	KeyID           string  `json:"key_id"`
}

type VerifyPaymentRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}
